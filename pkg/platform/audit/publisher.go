package audit

import (
	"context"
	"log/slog"
)

// Publisher emits audit events to a sink.
type Publisher interface {
	Emit(ctx context.Context, event Event) error
}

// Log writes the event to the structured logger and, when a publisher is
// configured, emits it. Publish failures are logged and otherwise ignored:
// auditing never changes a verdict.
func Log(ctx context.Context, logger *slog.Logger, publisher Publisher, event Event, attrs ...any) {
	args := append(attrs,
		"event", event.Action,
		"category", event.Category,
		"log_type", "audit",
	)
	if event.ApplicationID != "" {
		args = append(args, "application_id", event.ApplicationID)
	}
	if event.RequestID != "" {
		args = append(args, "request_id", event.RequestID)
	}

	if logger != nil {
		logger.InfoContext(ctx, event.Action, args...)
	}

	if publisher == nil {
		return
	}
	if err := publisher.Emit(ctx, event); err != nil && logger != nil {
		logger.WarnContext(ctx, "failed to emit audit event", "event", event.Action, "error", err)
	}
}
