package logger

import (
	"log/slog"
	"strings"
)

// Redacted replaces the value of sensitive attributes.
const Redacted = "[REDACTED]"

// DefaultSensitiveKeys are attribute keys that never reach the output.
var DefaultSensitiveKeys = []string{
	"secret",
	"code",
	"recovery_key",
	"recovery_hash",
	"recovery_salt",
	"api_key",
	"authorization",
	"token",
	"password",
}

// WithRedaction adds keys (case-insensitive) whose values are replaced with
// Redacted at any nesting level. New always redacts DefaultSensitiveKeys.
func WithRedaction(keys ...string) Option {
	return func(c *config) {
		for _, k := range keys {
			if k = strings.TrimSpace(k); k != "" {
				c.sensitive = append(c.sensitive, k)
			}
		}
	}
}

func redactor(keys []string, next func([]string, slog.Attr) slog.Attr) func([]string, slog.Attr) slog.Attr {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[strings.ToLower(k)] = struct{}{}
	}

	return func(groups []string, a slog.Attr) slog.Attr {
		if _, ok := set[strings.ToLower(a.Key)]; ok && a.Value.Kind() != slog.KindGroup {
			a.Value = slog.StringValue(Redacted)
		}
		if next != nil {
			return next(groups, a)
		}
		return a
	}
}
