// Package events publishes order lifecycle events for downstream
// consumers (analytics pipelines, notification workers). Publishing is
// best effort: the transaction that produced the event has already
// committed by the time it is published.
package events

import (
	"context"
	"time"
)

type Type string

const (
	TypeOrderCreated       Type = "order.created"
	TypeOrderStatusChanged Type = "order.status_changed"
	TypePaymentCompleted   Type = "payment.completed"
	TypePaymentFailed      Type = "payment.failed"
)

type Event struct {
	Type       Type      `json:"type"`
	OrderID    string    `json:"order_id"`
	UserID     string    `json:"user_id,omitempty"`
	Status     string    `json:"status,omitempty"`
	Total      string    `json:"total,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Noop is used when no broker is configured.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
func (Noop) Close() error                         { return nil }
