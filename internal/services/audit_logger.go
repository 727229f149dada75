package services

import (
	"context"
	"log/slog"

	"household-ledger/internal/events"
)

type correlationKey struct{}

// WithCorrelationID tags ctx so audit entries can be joined to the request
// that caused them.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

func getCorrelationID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(correlationKey{}).(string); ok {
		return id
	}
	return ""
}

// AuditLogger writes one structured line per ledger change.
type AuditLogger struct {
	logger *slog.Logger
}

func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{logger: logger.With(slog.String("log_type", "audit"))}
}

func (al *AuditLogger) LogEvent(ctx context.Context, event events.Event) {
	attrs := []any{
		slog.String("event_type", event.Type),
		slog.String("event_id", event.ID.String()),
		slog.String("actor_id", event.ActorID.String()),
		slog.String("subject_id", event.SubjectID.String()),
		slog.Time("occurred_at", event.OccurredAt),
		slog.String("correlation_id", getCorrelationID(ctx)),
	}
	for k, v := range event.Attributes {
		attrs = append(attrs, slog.String(k, v))
	}

	al.logger.InfoContext(ctx, "ledger change", attrs...)
}
