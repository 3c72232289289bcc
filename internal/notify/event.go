package notify

import (
	"github.com/jhonidlcb/softwarepar/internal/domain/notification"
)

type Kind string

const (
	KindStageAvailable  Kind = "stage_available"
	KindProofSubmitted  Kind = "proof_submitted"
	KindPaymentApproved Kind = "payment_approved"
	KindPaymentRejected Kind = "payment_rejected"
)

// Target is one recipient of an event.
type Target struct {
	UserID   uint64
	Email    string
	FullName string
}

// Note is the in-app notification part of an event; nil means the
// event creates no notification rows (e.g. stage_available is
// email-only, as the original system behaves).
type Note struct {
	Title    string
	Message  string
	Severity notification.Severity
}

// Mail is the email part of an event; nil means no email. Targets
// without an address are skipped.
type Mail struct {
	Subject string
	HTML    string
}

// Event is one domain occurrence fanned out to up to three channels.
type Event struct {
	ID      string
	Kind    Kind
	Targets []Target
	Note    *Note
	Mail    *Mail
	Data    map[string]any
}
