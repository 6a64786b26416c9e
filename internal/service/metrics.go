package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	OutcomeSuccess            = "success"
	OutcomeInvalid            = "invalid"
	OutcomeDuplicate          = "duplicate"
	OutcomeInvalidCredentials = "invalid_credentials"
	OutcomeError              = "error"
)

var (
	registrationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tedris_registrations_total",
			Help: "Registration attempts by outcome",
		},
		[]string{"outcome"},
	)

	loginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tedris_logins_total",
			Help: "Login attempts by outcome",
		},
		[]string{"outcome"},
	)
)
