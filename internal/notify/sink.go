// Package notify delivers notification events to external sinks without
// blocking the operation that produced them.
package notify

import (
	"context"
	"webshop-service/internal/domain"
)

// Emitter accepts events for background delivery. Emit never blocks on
// delivery and never reports delivery errors.
type Emitter interface {
	Emit(evt domain.NotificationEvent)
}

type Sink interface {
	Name() string
	Send(ctx context.Context, evt domain.NotificationEvent) error
}

// Discard drops every event.
type Discard struct{}

func (Discard) Emit(domain.NotificationEvent) {}
