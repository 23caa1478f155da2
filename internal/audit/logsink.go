package audit

import (
	"context"

	"go.uber.org/zap"

	"github.com/sanadworks/isnad/internal/logging"
)

// LogSink writes audit events to the structured log. Useful for
// development and as a secondary trail next to a durable sink.
type LogSink struct {
	log *logging.Logger
}

// NewLogSink creates a sink over the given logger.
func NewLogSink(log *logging.Logger) *LogSink {
	return &LogSink{log: log.Named("audit")}
}

// Emit logs the event at info level. Logging cannot fail, so LogSink
// never returns an error.
func (s *LogSink) Emit(ctx context.Context, event Event) error {
	s.log.Info(ctx, "audit event",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.String("run_id", event.RunID),
		zap.String("tenant_id", event.TenantID),
		zap.String("deal_id", event.DealID),
		zap.String("agent_id", event.AgentID),
		zap.String("detail", event.Detail),
	)
	return nil
}
