package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// LedgerMetrics records outcomes of balance-propagation writes.
type LedgerMetrics struct {
	recorded *prometheus.CounterVec
	failures *prometheus.CounterVec
	duration *prometheus.HistogramVec
	retries  *prometheus.CounterVec
}

// NewLedgerMetrics registers the ledger metrics on the provided registerer.
func NewLedgerMetrics(reg prometheus.Registerer) *LedgerMetrics {
	if reg == nil {
		return &LedgerMetrics{}
	}
	recorded := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_transactions_recorded_total",
		Help: "Transactions recorded, by type.",
	}, []string{"type"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_transaction_failures_total",
		Help: "Failed transaction writes, by error code.",
	}, []string{"code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ledger_record_duration_seconds",
		Help:    "Duration of transaction writes in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"type"})
	retries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_transaction_retries_total",
		Help: "Transaction writes retried after a serialization conflict.",
	}, []string{"type"})
	reg.MustRegister(recorded, failures, duration, retries)
	return &LedgerMetrics{
		recorded: recorded,
		failures: failures,
		duration: duration,
		retries:  retries,
	}
}

// IncRecorded increments the recorded counter for the given transaction type.
func (m *LedgerMetrics) IncRecorded(txType string) {
	if m == nil || m.recorded == nil {
		return
	}
	m.recorded.WithLabelValues(normalizeLabel(txType)).Inc()
}

// IncFailure increments the failure counter for the given error code.
func (m *LedgerMetrics) IncFailure(code string) {
	if m == nil || m.failures == nil {
		return
	}
	m.failures.WithLabelValues(normalizeLabel(code)).Inc()
}

// ObserveDuration records how long a transaction write took.
func (m *LedgerMetrics) ObserveDuration(txType string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(txType)).Observe(duration.Seconds())
}

// IncRetry increments the retry counter for the given transaction type.
func (m *LedgerMetrics) IncRetry(txType string) {
	if m == nil || m.retries == nil {
		return
	}
	m.retries.WithLabelValues(normalizeLabel(txType)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
