package events

import (
	"context"
	"time"
)

// Source identifies this service in published events.
const Source = "qa-service"

// Event types published by the service.
const (
	TypeUserLoggedIn        = "auth.user_logged_in"
	TypeUserLoggedOut       = "auth.user_logged_out"
	TypeUserRoleChanged     = "moderation.user_role_changed"
	TypeUserStatusChanged   = "moderation.user_status_changed"
	TypeQuestionArchived    = "moderation.question_archived"
	TypeQuestionDeleted     = "moderation.question_deleted"
	TypeAnswerDeleted       = "moderation.answer_deleted"
	TypeNotificationCreated = "notification.created"
)

// Event is the envelope for everything published to the event bus.
type Event struct {
	ID         string                 `json:"id"`
	Type       string                 `json:"type"`
	Source     string                 `json:"source"`
	OccurredAt time.Time              `json:"occurred_at"`
	Data       map[string]interface{} `json:"data,omitempty"`
}

// EventPublisher publishes domain events. Publishing is best-effort:
// callers log failures but never fail the request over them.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}
