package services

import (
	"context"
	"log/slog"
	"time"

	"household-ledger/internal/events"
)

// notifier fans a completed operation out to the audit log, the event
// publisher and the metrics recorder. Failures are logged and never fail the
// operation.
type notifier struct {
	audit     *AuditLogger
	publisher events.Publisher
	metrics   MetricsRecorderInterface
	logger    *slog.Logger
}

func newNotifier(publisher events.Publisher, metrics MetricsRecorderInterface, logger *slog.Logger) notifier {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return notifier{
		audit:     NewAuditLogger(logger),
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
	}
}

func (n notifier) publish(ctx context.Context, event events.Event) {
	n.audit.LogEvent(ctx, event)
	if err := n.publisher.Publish(ctx, event); err != nil {
		n.logger.WarnContext(ctx, "failed to publish event",
			"error", err,
			"type", event.Type,
			"subject_id", event.SubjectID)
	}
}

func (n notifier) count(name string, tags map[string]string) {
	n.metrics.IncrementCounter(name, tags)
}

func (n notifier) observe(name string, started time.Time) {
	n.metrics.RecordProcessingTime(name, time.Since(started))
}

type noopMetrics struct{}

func (noopMetrics) IncrementCounter(string, map[string]string)     {}
func (noopMetrics) RecordProcessingTime(string, time.Duration)     {}
func (noopMetrics) RecordGauge(string, float64, map[string]string) {}
