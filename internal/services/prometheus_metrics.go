package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Ledger operation names used as the "operation" label and as duration keys
const (
	OperationDeposit  = "deposit"
	OperationWithdraw = "withdraw"
	OperationTransfer = "transfer"
	OperationInterest = "interest"
)

type PrometheusMetrics struct {
	ledgerOperations     *prometheus.CounterVec
	operationDuration    *prometheus.HistogramVec
	accountsOpened       *prometheus.CounterVec
	transfersTotal       *prometheus.CounterVec
	transferAmount       prometheus.Histogram
	interestAccrued      *prometheus.CounterVec
	concurrencyConflicts prometheus.Counter
}

// NewPrometheusMetrics registers the ledger metrics with reg.
// Pass prometheus.DefaultRegisterer to expose them on /metrics.
func NewPrometheusMetrics(reg prometheus.Registerer) MetricsRecorderInterface {
	factory := promauto.With(reg)

	return &PrometheusMetrics{
		ledgerOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_operations_total",
				Help: "Total number of ledger operations by outcome",
			},
			[]string{"operation", "status"},
		),
		operationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledger_operation_duration_milliseconds",
				Help:    "Ledger operation duration in milliseconds, lock wait included",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
			[]string{"operation"},
		),
		accountsOpened: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "accounts_opened_total",
				Help: "Total number of accounts opened",
			},
			[]string{"account_type"},
		),
		transfersTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transfers_total",
				Help: "Total number of transfers processed",
			},
			[]string{"status"},
		),
		transferAmount: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "transfer_amount",
				Help:    "Transfer amount in base currency units",
				Buckets: prometheus.ExponentialBuckets(1, 10, 8),
			},
		),
		interestAccrued: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "interest_accrued_total",
				Help: "Interest credited in base currency units",
			},
			[]string{"strategy"},
		),
		concurrencyConflicts: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "ledger_concurrency_conflicts_total",
				Help: "Commits aborted because an account version changed underneath",
			},
		),
	}
}

func (m *PrometheusMetrics) IncrementCounter(name string, tags map[string]string) {
	operation := tags["operation"]
	reason := tags["reason"]
	status := tags["status"]

	switch name {
	case "ledger.operation.success":
		m.ledgerOperations.WithLabelValues(operation, "success").Inc()
	case "ledger.operation.failed":
		m.ledgerOperations.WithLabelValues(operation, "failed_"+reason).Inc()
		if reason == "concurrency_conflict" {
			m.concurrencyConflicts.Inc()
		}
	case "accounts_opened_total":
		if accountType := tags["account_type"]; accountType != "" {
			m.accountsOpened.WithLabelValues(accountType).Inc()
		}
	case "transfers_total":
		if status != "" {
			m.transfersTotal.WithLabelValues(status).Inc()
		}
	}
}

func (m *PrometheusMetrics) RecordProcessingTime(name string, duration time.Duration) {
	switch name {
	case OperationDeposit, OperationWithdraw, OperationTransfer, OperationInterest:
		m.operationDuration.WithLabelValues(name).Observe(float64(duration.Milliseconds()))
	}
}

func (m *PrometheusMetrics) RecordGauge(name string, value float64, tags map[string]string) {
	switch name {
	case "transfer_amount":
		m.transferAmount.Observe(value)
	case "interest_accrued":
		if strategy := tags["strategy"]; strategy != "" && value > 0 {
			m.interestAccrued.WithLabelValues(strategy).Add(value)
		}
	}
}
