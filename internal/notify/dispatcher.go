// Package notify fans a domain event out to in-app notification rows,
// transactional email and the live WebSocket channel. Every leg is
// best-effort and independent: a failure is logged and swallowed,
// never surfaced to the request that triggered it, and no leg aborts
// the others. Delivery is at-most-once; duplicates on client retry of
// the triggering request are accepted.
package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jhonidlcb/softwarepar/internal/domain/notification"
)

type Mailer interface {
	Send(ctx context.Context, to, subject, html string) error
}

// Pusher is the live-channel sink (the ws.Hub in production).
type Pusher interface {
	Send(userID uint64, v any) bool
}

type Dispatcher struct {
	notes  notification.Repository
	mailer Mailer
	pusher Pusher
	log    *zap.Logger
}

func NewDispatcher(notes notification.Repository, mailer Mailer, pusher Pusher, log *zap.Logger) *Dispatcher {
	return &Dispatcher{notes: notes, mailer: mailer, pusher: pusher, log: log}
}

func (d *Dispatcher) Dispatch(ctx context.Context, e Event) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}

	for _, t := range e.Targets {
		if e.Note != nil {
			n := &notification.Notification{
				UserID:  t.UserID,
				Title:   e.Note.Title,
				Message: e.Note.Message,
				Type:    e.Note.Severity,
			}
			if err := d.notes.Create(ctx, n); err != nil {
				d.log.Error("notify: notification row insert failed",
					zap.String("event_id", e.ID), zap.String("kind", string(e.Kind)),
					zap.Uint64("user_id", t.UserID), zap.Error(err))
			}
		}

		if e.Mail != nil && t.Email != "" && d.mailer != nil {
			if err := d.mailer.Send(ctx, t.Email, e.Mail.Subject, e.Mail.HTML); err != nil {
				d.log.Error("notify: email send failed",
					zap.String("event_id", e.ID), zap.String("kind", string(e.Kind)),
					zap.String("to", t.Email), zap.Error(err))
			}
		}

		// Mail-only events (stage_available) push nothing: the live
		// channel mirrors the in-app notification feed.
		if d.pusher != nil && e.Note != nil {
			payload := map[string]any{
				"type":      "notification",
				"id":        e.ID,
				"kind":      string(e.Kind),
				"title":     e.Note.Title,
				"message":   e.Note.Message,
				"severity":  string(e.Note.Severity),
				"timestamp": time.Now().UTC().Format(time.RFC3339),
			}
			for k, v := range e.Data {
				payload[k] = v
			}
			d.pusher.Send(t.UserID, payload)
		}
	}
}
