package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

const (
	ResultSuccess  = "success"
	ResultRejected = "rejected"
	ResultError    = "error"
)

type LedgerMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	amount     *prometheus.CounterVec
}

// NewLedgerMetrics registers the ledger collectors on reg.
func NewLedgerMetrics(reg prometheus.Registerer) *LedgerMetrics {
	m := &LedgerMetrics{
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wallet_ledger_operations_total",
				Help: "Total number of ledger operations by outcome",
			},
			[]string{"operation", "result"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "wallet_ledger_operation_duration_seconds",
				Help:    "Duration of ledger operations including retries",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2, 5},
			},
			[]string{"operation"},
		),
		amount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wallet_ledger_amount_total",
				Help: "Sum of committed amounts per operation",
			},
			[]string{"operation"},
		),
	}
	reg.MustRegister(m.operations, m.duration, m.amount)
	return m
}

func (m *LedgerMetrics) ObserveOperation(operation, result string, elapsed time.Duration) {
	m.operations.WithLabelValues(operation, result).Inc()
	m.duration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

func (m *LedgerMetrics) AddAmount(operation string, amount decimal.Decimal) {
	m.amount.WithLabelValues(operation).Add(amount.Abs().InexactFloat64())
}
