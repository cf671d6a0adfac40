package logger_test

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/totpauth/pkg/logger"
)

func TestAttributes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		attr    slog.Attr
		wantKey string
		wantVal any
	}{
		{name: "client id", attr: logger.ClientID("client-1"), wantKey: "client_id", wantVal: "client-1"},
		{name: "caller", attr: logger.Caller("svc-backoffice"), wantKey: "caller", wantVal: "svc-backoffice"},
		{name: "operation", attr: logger.Operation("verify_totp"), wantKey: "operation", wantVal: "verify_totp"},
		{name: "kind", attr: logger.Kind("invalid_code"), wantKey: "kind", wantVal: "invalid_code"},
		{name: "client ip", attr: logger.ClientIP("203.0.113.7"), wantKey: "client_ip", wantVal: "203.0.113.7"},
		{name: "request id", attr: logger.RequestID("req-9"), wantKey: "request_id", wantVal: "req-9"},
		{name: "component", attr: logger.Component("enrollment"), wantKey: "component", wantVal: "enrollment"},
		{name: "event", attr: logger.Event("deactivated"), wantKey: "event", wantVal: "deactivated"},
		{name: "duration", attr: logger.Duration(time.Second), wantKey: "duration", wantVal: time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.wantKey, tt.attr.Key)
			assert.Equal(t, tt.wantVal, tt.attr.Value.Any())
		})
	}
}

func TestEmptyAttributes(t *testing.T) {
	t.Parallel()

	for name, attr := range map[string]slog.Attr{
		"client id":  logger.ClientID(""),
		"caller":     logger.Caller(""),
		"kind":       logger.Kind(""),
		"client ip":  logger.ClientIP(""),
		"request id": logger.RequestID(nil),
		"error":      logger.Error(nil),
		"errors":     logger.Errors(nil, nil),
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.True(t, attr.Equal(slog.Attr{}))
		})
	}
}

func TestErrorAttributes(t *testing.T) {
	t.Parallel()

	errStore := errors.New("store unavailable")
	assert.Equal(t, "error", logger.Error(errStore).Key)

	attr := logger.Errors(nil, errStore)
	assert.Equal(t, "errors", attr.Key)
	group := attr.Value.Group()
	if assert.Len(t, group, 1) {
		assert.Equal(t, "1", group[0].Key)
	}

	g := logger.Group("request", logger.ClientID("c1"), logger.Operation("setup"))
	assert.Equal(t, slog.KindGroup, g.Value.Kind())
	assert.Len(t, g.Value.Group(), 2)
}
