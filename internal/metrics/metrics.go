package metrics

import "github.com/prometheus/client_golang/prometheus"

// NewSettlementsCreatedTotal returns a Prometheus counter for the number of settlement batches created
func NewSettlementsCreatedTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "settlements_created_total",
		Help: "Total number of settlement batches created",
	})
}

// NewMovementsWrittenTotal returns a Prometheus counter for the number of ledger movements written
func NewMovementsWrittenTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ledger_movements_written_total",
		Help: "Total number of ledger movements written",
	})
}

// NewPaymentLockBusyTotal returns a Prometheus counter for payment registrations rejected by a busy carrier lock
func NewPaymentLockBusyTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "payment_lock_busy_total",
		Help: "Total number of payment registrations rejected because the carrier lock was busy",
	})
}

// NewRateLimitExceededTotal returns a Prometheus counter for the number of rejected HTTP requests due to rate limiting
func NewRateLimitExceededTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rate_limit_exceeded_total",
		Help: "Total number of rejected HTTP requests due to rate limiting",
	})
}
