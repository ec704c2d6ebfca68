package metrics

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	InitiationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "momopay_initiations_total",
		Help: "Payment initiations by resulting status and gateway response code",
	}, []string{"status", "response_code"})

	UntrackedPendingTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "momopay_untracked_pending_initiations_total",
		Help: "Initiations reported pending by the gateway without a transaction id",
	})

	CallbacksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "momopay_callbacks_total",
		Help: "Callback deliveries by outcome (processed, duplicate, in_flight, invalid, failed)",
	}, []string{"outcome"})

	StatusChecksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "momopay_status_checks_total",
		Help: "Transaction status checks by outcome",
	}, []string{"outcome"})

	ReconciliationCycleDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "momopay_reconciliation_cycle_duration_seconds",
		Help:    "Latency distribution of reconciliation cycles",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
	})

	ReconciliationOutcomesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "momopay_reconciliation_outcomes_total",
		Help: "Per-entry reconciliation outcomes (skipped_grace, skipped_blank, check_failed, still_pending, finalized, panic)",
	}, []string{"outcome"})

	PendingTransactions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "momopay_pending_transactions",
		Help: "Pending ledger size observed at the start of the last reconciliation cycle",
	})

	CleanupRemovedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "momopay_cleanup_removed_total",
		Help: "Pending entries purged by retention cleanup",
	})

	EventsPublishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "momopay_events_published_total",
		Help: "Finalized payment events by broker and result",
	}, []string{"broker", "result"})

	CircuitBreakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "momopay_circuit_breaker_state",
		Help: "Circuit breaker state per gateway client (0 closed, 1 open, 2 half-open)",
	}, []string{"name"})
)

// Handler exposes the default registry for echo
func Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}
