// Package config populates typed configuration structs from environment
// variables.
//
// Structs declare their settings with `env` tags understood by
// github.com/caarlos0/env. Optional .env files are read with
// github.com/joho/godotenv; variables already present in the process
// environment always win.
//
//	type Config struct {
//	    Addr   string `env:"HTTP_ADDR" envDefault:":8080"`
//	    Driver string `env:"STORE_DRIVER" envDefault:"memory"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil {
//	    return err
//	}
//
// Load parses each struct type once and caches the result. Parse always reads
// the current environment and is meant for settings that only apply to some
// deployments. Reset clears the cache (tests).
//
// # Error Handling
//
// ErrParsingConfig wraps parser failures such as a missing required
// variable. ErrLoadingEnvFile is returned when LoadEnv is given files that
// cannot be read. ErrNilPointer guards against Load(nil).
package config
