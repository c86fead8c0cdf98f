package service

import (
	"context"
	"time"
)

// AccountRegisteredEvent is published after an account has been stored.
type AccountRegisteredEvent struct {
	RequestID  string    `json:"request_id,omitempty"` // For distributed tracing
	AccountID  string    `json:"account_id"`
	Email      string    `json:"email"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventPublisher defines the interface for publishing account events to a message queue
type EventPublisher interface {
	// PublishAccountRegistered publishes a registration event
	PublishAccountRegistered(ctx context.Context, event *AccountRegisteredEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
