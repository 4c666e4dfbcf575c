// Package notify defines the outbound notification contract and the
// role-keyed fan-out that delivers one message to every recipient
// bound to a role.
package notify

import (
	"context"
	"log/slog"

	"github.com/omarawad11/finsched/internal/store"
)

// Channel delivers one message to one recipient address. Implementations
// are transport modules (SMTP today); each Send is independent.
type Channel interface {
	Send(ctx context.Context, recipient, subject, body string) error
}

// Fanout resolves a role to its recipient set and dispatches a message
// to each recipient, best effort.
type Fanout struct {
	store   store.TaskStore
	channel Channel
	logger  *slog.Logger
}

// NewFanout creates a Fanout. A nil logger defaults to slog.Default().
func NewFanout(s store.TaskStore, ch Channel, logger *slog.Logger) *Fanout {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fanout{store: s, channel: ch, logger: logger}
}

// Notify resolves role and sends subject/body to every bound recipient.
// Zero recipients is a silent no-op. One recipient's failure never
// blocks the rest; the error returned is the role-resolution error
// only, since that is the single failure that prevents any dispatch.
func (f *Fanout) Notify(ctx context.Context, role, subject, body string) error {
	recipients, err := f.store.RecipientsByRole(ctx, role)
	if err != nil {
		return err
	}
	if len(recipients) == 0 {
		f.logger.Debug("notify: role has no recipients", "role", role)
		return nil
	}

	for _, recipient := range recipients {
		if err := f.channel.Send(ctx, recipient, subject, body); err != nil {
			failedTotal.Inc()
			f.logger.Error("notify: dispatch failed",
				"role", role,
				"recipient", recipient,
				"error", err,
			)
			continue
		}
		sentTotal.Inc()
		f.logger.Info("notify: dispatched", "role", role, "recipient", recipient)
	}
	return nil
}
