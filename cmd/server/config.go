package main

// Store drivers accepted in STORE_DRIVER.
const (
	driverMemory   = "memory"
	driverSQLite   = "sqlite"
	driverPostgres = "postgres"
)

// Rate limit stores accepted in RATE_LIMIT_STORE.
const (
	limiterMemory = "memory"
	limiterRedis  = "redis"
)

// appConfig holds process level settings. STORE_DRIVER selects memory, sqlite
// or postgres; SEED_CLIENTS lists known client ids for the memory driver.
// AUTO_MIGRATE applies the goose migrations on startup for postgres.
type appConfig struct {
	Env         string   `env:"APP_ENV" envDefault:"development"`
	Name        string   `env:"APP_NAME" envDefault:"totp-auth"`
	MountPath   string   `env:"APP_MOUNT_PATH" envDefault:"/totp-auth"`
	StoreDriver string   `env:"STORE_DRIVER" envDefault:"memory"`
	SQLitePath  string   `env:"SQLITE_PATH" envDefault:"totpauth.db"`
	AutoMigrate bool     `env:"AUTO_MIGRATE" envDefault:"true"`
	SeedClients []string `env:"SEED_CLIENTS" envSeparator:","`
	QRSize      int      `env:"TOTP_QR_SIZE" envDefault:"256"`
}
