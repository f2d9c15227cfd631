// Package notify delivers operator alerts such as dead-lettered plans.
package notify

import (
	"context"
	"errors"
	"log/slog"
)

type Event struct {
	Subject string
	Body    string
}

type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

// Multi fans an event out to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, event Event) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Nop logs the event and drops it.
type Nop struct{}

func (Nop) Notify(_ context.Context, event Event) error {
	slog.Debug("Notification dropped", "subject", event.Subject)
	return nil
}
