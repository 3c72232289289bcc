package notify

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/jhonidlcb/softwarepar/internal/domain/notification"
)

type mockNotes struct {
	CreateFn func(ctx context.Context, n *notification.Notification) error
	rows     []*notification.Notification
}

func (m *mockNotes) Create(ctx context.Context, n *notification.Notification) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, n)
	}
	m.rows = append(m.rows, n)
	return nil
}
func (m *mockNotes) ListByUser(ctx context.Context, userID uint64) ([]notification.Notification, error) {
	return nil, nil
}
func (m *mockNotes) MarkRead(ctx context.Context, id uint64) error { return nil }

type mockMailer struct {
	SendFn func(ctx context.Context, to, subject, html string) error
	sent   []string
}

func (m *mockMailer) Send(ctx context.Context, to, subject, html string) error {
	if m.SendFn != nil {
		return m.SendFn(ctx, to, subject, html)
	}
	m.sent = append(m.sent, to)
	return nil
}

type mockPusher struct {
	pushed   []uint64
	payloads []map[string]any
}

func (m *mockPusher) Send(userID uint64, v any) bool {
	m.pushed = append(m.pushed, userID)
	if p, ok := v.(map[string]any); ok {
		m.payloads = append(m.payloads, p)
	}
	return true
}

func sampleEvent() Event {
	return Event{
		Kind: KindProofSubmitted,
		Targets: []Target{
			{UserID: 1, Email: "admin@softwarepar.lat", FullName: "Admin"},
			{UserID: 2, FullName: "Sin Correo"},
		},
		Note: &Note{Title: "📋 Comprobante de Pago Recibido", Message: "msg", Severity: notification.SeverityWarning},
		Mail: &Mail{Subject: "Comprobante", HTML: "<p>hola</p>"},
	}
}

func TestDispatch_FansOutPerTarget(t *testing.T) {
	notes := &mockNotes{}
	mailer := &mockMailer{}
	pusher := &mockPusher{}
	d := NewDispatcher(notes, mailer, pusher, zap.NewNop())

	d.Dispatch(context.Background(), sampleEvent())

	if len(notes.rows) != 2 {
		t.Fatalf("notification rows=%d", len(notes.rows))
	}
	if notes.rows[0].Type != notification.SeverityWarning {
		t.Errorf("severity=%s", notes.rows[0].Type)
	}
	// Target without an address gets no email.
	if len(mailer.sent) != 1 || mailer.sent[0] != "admin@softwarepar.lat" {
		t.Fatalf("mails=%v", mailer.sent)
	}
	if len(pusher.pushed) != 2 {
		t.Fatalf("pushes=%v", pusher.pushed)
	}
}

func TestDispatch_LegFailuresAreSwallowed(t *testing.T) {
	notes := &mockNotes{
		CreateFn: func(ctx context.Context, n *notification.Notification) error {
			return errors.New("db down")
		},
	}
	mailer := &mockMailer{
		SendFn: func(ctx context.Context, to, subject, html string) error {
			return errors.New("smtp down")
		},
	}
	d := NewDispatcher(notes, mailer, &mockPusher{}, zap.NewNop())

	// Must not panic or propagate anything.
	d.Dispatch(context.Background(), sampleEvent())
}

func TestDispatch_NilLegsSkipped(t *testing.T) {
	notes := &mockNotes{}
	d := NewDispatcher(notes, nil, nil, zap.NewNop())

	e := sampleEvent()
	e.Note = nil // email-only event (stage_available shape)
	d.Dispatch(context.Background(), e)

	if len(notes.rows) != 0 {
		t.Fatalf("nil note must create no rows, got %d", len(notes.rows))
	}
}

func TestDispatch_MailOnlyEventSkipsPush(t *testing.T) {
	pusher := &mockPusher{}
	d := NewDispatcher(&mockNotes{}, &mockMailer{}, pusher, zap.NewNop())

	e := sampleEvent()
	e.Note = nil // email-only event (stage_available shape)
	d.Dispatch(context.Background(), e)

	if len(pusher.pushed) != 0 {
		t.Fatalf("mail-only event pushed %d frames", len(pusher.pushed))
	}
}

func TestDispatch_AssignsEventID(t *testing.T) {
	pusher := &mockPusher{}
	d := NewDispatcher(&mockNotes{}, nil, pusher, zap.NewNop())

	e := sampleEvent()
	e.Mail = nil
	d.Dispatch(context.Background(), e)
	if len(pusher.pushed) != 2 {
		t.Fatalf("pushes=%d", len(pusher.pushed))
	}
	for _, p := range pusher.payloads {
		if id, _ := p["id"].(string); id == "" {
			t.Fatalf("payload without event id: %+v", p)
		}
	}
}
