// Package audit emits audit events for key domain actions. Events always go
// through the structured logger; a Kafka sink can be attached for downstream
// pipelines. Publishing is fail-open: audit problems never fail the business
// operation that triggered them.
package audit

import (
	"context"
	"log/slog"
	"time"
)

type Action string

const (
	ActionUserCreated  Action = "user_created"
	ActionPollCreated  Action = "poll_created"
	ActionPollJoined   Action = "poll_joined"
	ActionGuessCreated Action = "guess_created"
)

// Event captures one domain action. Keep it transport-agnostic so sinks can
// fan out.
type Event struct {
	Action    Action    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
	UserID    string    `json:"user_id,omitempty"`
	Subject   string    `json:"subject,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
}

// Publisher is implemented by sinks that ship events somewhere durable.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// LogAudit records an event through the logger and, when a publisher is
// configured, hands it off for delivery. Publish failures are logged and
// swallowed.
func LogAudit(ctx context.Context, logger *slog.Logger, publisher Publisher, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	if logger != nil {
		logger.InfoContext(ctx, "audit",
			"action", string(event.Action),
			"user_id", event.UserID,
			"subject", event.Subject,
			"request_id", event.RequestID,
		)
	}

	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, event); err != nil && logger != nil {
		logger.WarnContext(ctx, "audit publish failed",
			"action", string(event.Action),
			"error", err,
		)
	}
}
