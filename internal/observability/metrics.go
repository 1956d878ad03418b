package observability

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"activitysignup/internal/domain"
)

// Outcome labels for roster operations.
const (
	OutcomeSuccess         = "success"
	OutcomeInvalid         = "invalid"
	OutcomeNotFound        = "not_found"
	OutcomeAlreadySignedUp = "already_signed_up"
	OutcomeNotRegistered   = "not_registered"
	OutcomeFull            = "full"
	OutcomeError           = "error"
)

var (
	SignupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "activity_signup",
			Name:      "signups_total",
			Help:      "Signup attempts by outcome.",
		},
		[]string{"outcome"},
	)

	UnregistrationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "activity_signup",
			Name:      "unregistrations_total",
			Help:      "Unregister attempts by outcome.",
		},
		[]string{"outcome"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "activity_signup",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method and status code.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "status"},
	)
)

// Outcome maps a roster operation error to its metric label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, domain.ErrInvalidInput):
		return OutcomeInvalid
	case errors.Is(err, domain.ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, domain.ErrAlreadySignedUp):
		return OutcomeAlreadySignedUp
	case errors.Is(err, domain.ErrNotRegistered):
		return OutcomeNotRegistered
	case errors.Is(err, domain.ErrActivityFull):
		return OutcomeFull
	default:
		return OutcomeError
	}
}

// RecordSignup counts one signup attempt.
func RecordSignup(err error) {
	SignupsTotal.WithLabelValues(Outcome(err)).Inc()
}

// RecordUnregister counts one unregister attempt.
func RecordUnregister(err error) {
	UnregistrationsTotal.WithLabelValues(Outcome(err)).Inc()
}
