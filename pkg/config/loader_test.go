package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/totpauth/pkg/config"
)

type serverConfig struct {
	Addr        string        `env:"CFGTEST_HTTP_ADDR" envDefault:":8080"`
	Driver      string        `env:"CFGTEST_STORE_DRIVER" envDefault:"memory"`
	ReadTimeout time.Duration `env:"CFGTEST_READ_TIMEOUT" envDefault:"5s"`
}

type postgresConfig struct {
	URL string `env:"CFGTEST_PG_CONN_URL,required"`
}

type cachedConfig struct {
	Issuer string `env:"CFGTEST_ISSUER" envDefault:"totp-auth"`
}

func TestParse(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		var cfg serverConfig
		require.NoError(t, config.Parse(&cfg))
		assert.Equal(t, ":8080", cfg.Addr)
		assert.Equal(t, "memory", cfg.Driver)
		assert.Equal(t, 5*time.Second, cfg.ReadTimeout)
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("CFGTEST_STORE_DRIVER", "postgres")
		t.Setenv("CFGTEST_READ_TIMEOUT", "250ms")

		var cfg serverConfig
		require.NoError(t, config.Parse(&cfg))
		assert.Equal(t, "postgres", cfg.Driver)
		assert.Equal(t, 250*time.Millisecond, cfg.ReadTimeout)
	})

	t.Run("missing required", func(t *testing.T) {
		var cfg postgresConfig
		assert.ErrorIs(t, config.Parse(&cfg), config.ErrParsingConfig)
	})

	t.Run("nil pointer", func(t *testing.T) {
		assert.ErrorIs(t, config.Parse[serverConfig](nil), config.ErrNilPointer)
	})
}

func TestLoadCaches(t *testing.T) {
	config.Reset()
	t.Cleanup(config.Reset)

	t.Setenv("CFGTEST_ISSUER", "first")
	var a cachedConfig
	require.NoError(t, config.Load(&a))
	assert.Equal(t, "first", a.Issuer)

	t.Setenv("CFGTEST_ISSUER", "second")
	var b cachedConfig
	require.NoError(t, config.Load(&b))
	assert.Equal(t, "first", b.Issuer)

	config.Reset()
	var c cachedConfig
	require.NoError(t, config.Load(&c))
	assert.Equal(t, "second", c.Issuer)
}

func TestMustLoadPanics(t *testing.T) {
	config.Reset()
	t.Cleanup(config.Reset)

	assert.Panics(t, func() {
		var cfg postgresConfig
		config.MustLoad(&cfg)
	})
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("CFGTEST_FROM_FILE=file\nCFGTEST_PRESET=file\n"), 0o600))

	t.Setenv("CFGTEST_PRESET", "process")
	t.Setenv("CFGTEST_FROM_FILE", "")
	require.NoError(t, os.Unsetenv("CFGTEST_FROM_FILE"))

	require.NoError(t, config.LoadEnv(path))
	assert.Equal(t, "file", os.Getenv("CFGTEST_FROM_FILE"))
	assert.Equal(t, "process", os.Getenv("CFGTEST_PRESET"))
	require.NoError(t, os.Unsetenv("CFGTEST_FROM_FILE"))

	assert.ErrorIs(t, config.LoadEnv(filepath.Join(dir, "missing.env")), config.ErrLoadingEnvFile)
}
