package enrollment

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/dmitrymomot/totpauth/pkg/statemachine"
)

const (
	opIssue                  = "issue"
	opConfirm                = "confirm"
	opVerify                 = "verify"
	opVerifyStored           = "verify_stored"
	opDeactivate             = "deactivate"
	opDeactivateWithRecovery = "deactivate_recovery"
	opStatus                 = "status"

	resultOK = "ok"
)

var (
	operationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "totp_enrollment_operations_total",
			Help: "Total enrollment operations by outcome kind",
		},
		[]string{"operation", "result"},
	)

	transitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "totp_enrollment_transitions_total",
			Help: "Total lifecycle transitions that took effect",
		},
		[]string{"from", "to", "event"},
	)

	operationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "totp_enrollment_operation_duration_seconds",
			Help:    "Enrollment operation duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		},
		[]string{"operation"},
	)
)

func observe(operation string, start time.Time, err error) {
	result := resultOK
	if err != nil {
		result = string(KindOf(err))
	}
	operationsTotal.WithLabelValues(operation, result).Inc()
	operationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// countTransition is attached to every lifecycle transition. Service fires
// transitions only after the store write, so failed operations are not counted.
func countTransition(_ context.Context, from, to statemachine.State, event statemachine.Event, _ any) error {
	transitionsTotal.WithLabelValues(from.Name(), to.Name(), event.Name()).Inc()
	return nil
}
