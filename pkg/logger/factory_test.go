package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/totpauth/pkg/logger"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("json by default", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf))
		log.Info("enrollment generated")

		entry := decode(t, buf)
		assert.Equal(t, "INFO", entry["level"])
		assert.Equal(t, "enrollment generated", entry["msg"])
	})

	t.Run("text formatter", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithTextFormatter())
		log.Info("enrollment generated", logger.ClientID("c1"))

		assert.Contains(t, buf.String(), "client_id=c1")
	})

	t.Run("static attributes", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithAttr(logger.Component("totp-auth")))
		log.Info("ready")

		assert.Equal(t, "totp-auth", decode(t, buf)["component"])
	})

	t.Run("context extractor", func(t *testing.T) {
		t.Parallel()
		type key struct{}
		buf := &bytes.Buffer{}
		log := logger.New(
			logger.WithOutput(buf),
			logger.WithContextExtractors(func(ctx context.Context) (slog.Attr, bool) {
				if v, ok := ctx.Value(key{}).(string); ok {
					return logger.RequestID(v), true
				}
				return slog.Attr{}, false
			}),
		)
		log.InfoContext(context.WithValue(context.Background(), key{}, "req-1"), "handled")

		assert.Equal(t, "req-1", decode(t, buf)["request_id"])
	})

	t.Run("unknown format panics", func(t *testing.T) {
		t.Parallel()
		assert.Panics(t, func() {
			logger.New(logger.WithFormat(logger.Format("xml")))
		})
	})
}

func TestEnvironmentPresets(t *testing.T) {
	t.Parallel()

	t.Run("development is text at debug", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithDevelopment("totp-auth"), logger.WithOutput(buf))
		log.Debug("probe")

		assert.Contains(t, buf.String(), "DEBUG")
		assert.Contains(t, buf.String(), "service=totp-auth")
	})

	t.Run("production is json at info", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithProduction("totp-auth"), logger.WithOutput(buf))
		log.Debug("hidden")
		assert.Empty(t, buf.String())

		log.Info("visible")
		assert.Equal(t, "totp-auth", decode(t, buf)["service"])
	})
}

func TestRedaction(t *testing.T) {
	t.Parallel()

	t.Run("default keys", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf))
		log.Info("verify",
			slog.String("code", "123456"),
			slog.String("Recovery_Key", "AbCdEf0123456789"),
			logger.ClientID("c1"),
		)

		out := buf.String()
		assert.NotContains(t, out, "123456")
		assert.NotContains(t, out, "AbCdEf0123456789")

		entry := decode(t, buf)
		assert.Equal(t, logger.Redacted, entry["code"])
		assert.Equal(t, logger.Redacted, entry["Recovery_Key"])
		assert.Equal(t, "c1", entry["client_id"])
	})

	t.Run("nested group", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf))
		log.Info("setup", logger.Group("request", slog.String("secret", "JBSWY3DPEHPK3PXP")))

		assert.NotContains(t, buf.String(), "JBSWY3DPEHPK3PXP")
	})

	t.Run("extra keys", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithRedaction("email", " "))
		log.Info("send", slog.String("email", "alice@example.com"))

		assert.Equal(t, logger.Redacted, decode(t, buf)["email"])
	})

	t.Run("custom replace attr still runs", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(
			logger.WithOutput(buf),
			logger.WithHandlerOptions(&slog.HandlerOptions{
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{}
					}
					return a
				},
			}),
		)
		log.Info("x", slog.String("token", "eyJ"))

		entry := decode(t, buf)
		assert.NotContains(t, entry, "time")
		assert.Equal(t, logger.Redacted, entry["token"])
	})
}

func TestSetAsDefault(t *testing.T) {
	buf := &bytes.Buffer{}
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	logger.SetAsDefault(logger.New(logger.WithOutput(buf)))
	slog.Info("default")

	assert.Equal(t, "default", decode(t, buf)["msg"])
}

func TestWithEnvironment(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log := logger.New(logger.WithEnvironment("prod", "totp-auth"), logger.WithOutput(buf))
	log.Info("ready")

	assert.Equal(t, "production", decode(t, buf)["env"])
}
