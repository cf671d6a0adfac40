package enrollment_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/totpauth/svc/enrollment"
)

func TestKindOf(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want enrollment.Kind
	}{
		{name: "nil", err: nil, want: ""},
		{name: "sentinel", err: enrollment.ErrInvalidCode, want: enrollment.KindInvalidCode},
		{name: "joined", err: errors.Join(enrollment.ErrStore, errors.New("timeout")), want: enrollment.KindStore},
		{name: "wrapped", err: fmt.Errorf("confirm: %w", enrollment.ErrClientNotFound), want: enrollment.KindClientNotFound},
		{name: "foreign", err: errors.New("boom"), want: enrollment.KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, enrollment.KindOf(tt.err))
		})
	}
}

func TestError_IsMatchesKind(t *testing.T) {
	t.Parallel()
	custom := &enrollment.Error{Kind: enrollment.KindMissingInput, Message: "client_id is required"}

	assert.ErrorIs(t, custom, enrollment.ErrMissingInput)
	assert.NotErrorIs(t, custom, enrollment.ErrInvalidCode)
	assert.NotErrorIs(t, enrollment.ErrInvalidCode, enrollment.ErrClientNotFound)
	assert.Equal(t, "client_id is required", custom.Error())
}
