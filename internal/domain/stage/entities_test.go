package stage

import (
	"testing"
	"time"
)

func TestInitialStatus(t *testing.T) {
	if InitialStatus(0) != StatusAvailable {
		t.Fatal("ungated stage must start available")
	}
	if InitialStatus(50) != StatusPending {
		t.Fatal("gated stage must start pending")
	}
}

func TestOrdinal_OrdersByRequiredProgress(t *testing.T) {
	stages := []PaymentStage{
		{ID: 30, RequiredProgress: 90},
		{ID: 10, RequiredProgress: 0},
		{ID: 20, RequiredProgress: 50},
	}
	n, total := Ordinal(stages, 20)
	if n != 2 || total != 3 {
		t.Fatalf("n=%d total=%d", n, total)
	}
	if n, _ := Ordinal(stages, 99); n != 0 {
		t.Fatalf("unknown id must yield 0, got %d", n)
	}
}

func TestAudit_AppendAndProject(t *testing.T) {
	now := time.Now().UTC()
	raw := AppendAudit(nil, AuditEntry{Kind: AuditSubmittedProof, By: 42, At: now, Method: "Giros Tigo"})
	raw = AppendAudit(raw, AuditEntry{Kind: AuditRejected, By: 1, At: now, Reason: "Monto incorrecto"})
	raw = AppendAudit(raw, AuditEntry{Kind: AuditSubmittedProof, By: 42, At: now, Method: "Transferencia Bancaria"})

	if got := len(ParseAudit(raw)); got != 3 {
		t.Fatalf("entries=%d", got)
	}
	// Newest entry of the kind wins in the projection.
	if e := LastAudit(raw, AuditSubmittedProof); e == nil || e.Method != "Transferencia Bancaria" {
		t.Fatalf("last submitted_proof: %+v", e)
	}
	if e := LastAudit(raw, AuditRejected); e == nil || e.Reason != "Monto incorrecto" {
		t.Fatalf("last rejected: %+v", e)
	}
	if e := LastAudit(raw, AuditApproved); e != nil {
		t.Fatalf("unexpected approved entry: %+v", e)
	}
}

func TestParseAudit_TolerantOfGarbage(t *testing.T) {
	if ParseAudit([]byte("not json")) != nil {
		t.Fatal("garbage must parse to nil, not panic")
	}
	if ParseAudit(nil) != nil {
		t.Fatal("empty must parse to nil")
	}
}
