package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type PrometheusMetrics struct {
	authenticationEventsTotal *prometheus.CounterVec
	memberChangesTotal        *prometheus.CounterVec
	membersTotal              prometheus.Gauge
	transactionsCreatedTotal  *prometheus.CounterVec
	transactionsDeletedTotal  prometheus.Counter
	transactionAmount         *prometheus.HistogramVec
	reportsExportedTotal      *prometheus.CounterVec
	reportExportDuration      prometheus.Histogram
}

// NewPrometheusMetrics registers the ledger metrics with the default registerer.
func NewPrometheusMetrics() MetricsRecorderInterface {
	return NewPrometheusMetricsWith(prometheus.DefaultRegisterer)
}

// NewPrometheusMetricsWith registers the ledger metrics with reg.
func NewPrometheusMetricsWith(reg prometheus.Registerer) *PrometheusMetrics {
	factory := promauto.With(reg)

	return &PrometheusMetrics{
		authenticationEventsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authentication_events_total",
				Help: "Total number of authentication events",
			},
			[]string{"event_type"},
		),
		memberChangesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "member_changes_total",
				Help: "Total number of member changes by action",
			},
			[]string{"action"},
		),
		membersTotal: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "household_members",
				Help: "Number of household members at the last listing",
			},
		),
		transactionsCreatedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transactions_created_total",
				Help: "Total number of transactions recorded",
			},
			[]string{"type"},
		),
		transactionsDeletedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "transactions_deleted_total",
				Help: "Total number of transactions deleted",
			},
		),
		transactionAmount: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "transaction_amount",
				Help:    "Recorded transaction amount in currency units",
				Buckets: prometheus.ExponentialBuckets(1, 10, 8),
			},
			[]string{"type"},
		),
		reportsExportedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reports_exported_total",
				Help: "Total number of printable reports exported",
			},
			[]string{"role"},
		),
		reportExportDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "report_export_duration_milliseconds",
				Help:    "Report build and render duration in milliseconds",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
		),
	}
}

func (m *PrometheusMetrics) IncrementCounter(name string, tags map[string]string) {
	switch name {
	case "authentication_event":
		if eventType := tags["event_type"]; eventType != "" {
			m.authenticationEventsTotal.WithLabelValues(eventType).Inc()
		}
	case "member_change":
		if action := tags["action"]; action != "" {
			m.memberChangesTotal.WithLabelValues(action).Inc()
		}
	case "transaction_created":
		m.transactionsCreatedTotal.WithLabelValues(tags["type"]).Inc()
	case "transaction_deleted":
		m.transactionsDeletedTotal.Inc()
	case "report_exported":
		m.reportsExportedTotal.WithLabelValues(tags["role"]).Inc()
	}
}

func (m *PrometheusMetrics) RecordProcessingTime(name string, duration time.Duration) {
	switch name {
	case "report_export":
		m.reportExportDuration.Observe(float64(duration.Milliseconds()))
	}
}

func (m *PrometheusMetrics) RecordGauge(name string, value float64, tags map[string]string) {
	switch name {
	case "members":
		m.membersTotal.Set(value)
	case "transaction_amount":
		m.transactionAmount.WithLabelValues(tags["type"]).Observe(value)
	}
}
