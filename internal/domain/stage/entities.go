package stage

import (
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Status string

const (
	StatusPending             Status = "pending"
	StatusAvailable           Status = "available"
	StatusPendingVerification Status = "pending_verification"
	StatusPaid                Status = "paid"
	StatusCompleted           Status = "completed"
)

// Sentinel errors surfaced by repositories and usecases. Handlers map
// them to HTTP statuses; the messages clients see live in the handlers.
var (
	ErrNotFound          = errors.New("payment stage not found")
	ErrInvalidTransition = errors.New("invalid payment stage transition")
	ErrReasonRequired    = errors.New("rejection reason required")
)

type PaymentStage struct {
	ID               uint64          `gorm:"primaryKey;column:id" json:"id"`
	ProjectID        uint64          `gorm:"index:idx_payment_stages_project" json:"projectId"`
	StageName        string          `gorm:"size:255" json:"stageName"`
	StagePercentage  int             `json:"stagePercentage"`
	Amount           decimal.Decimal `gorm:"type:decimal(18,2)" json:"amount"`
	RequiredProgress int             `json:"requiredProgress"`
	Status           Status          `gorm:"size:30;default:'pending';index" json:"status"`
	PaymentMethod    *string         `gorm:"size:100" json:"paymentMethod"`
	ProofFileURL     *string         `gorm:"size:512" json:"proofFileUrl"`
	PaymentData      datatypes.JSON  `json:"paymentData"`
	PaidAt           *time.Time      `json:"paidAt"`
	ApprovedBy       *uint64         `json:"approvedBy"`
	ApprovedAt       *time.Time      `json:"approvedAt"`
	CreatedAt        time.Time       `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt        time.Time       `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt        gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (PaymentStage) TableName() string { return "payment_stages" }

// InitialStatus applies the creation rule: stages gated on progress
// start pending, ungated stages are immediately payable.
func InitialStatus(requiredProgress int) Status {
	if requiredProgress == 0 {
		return StatusAvailable
	}
	return StatusPending
}

// Ordinal returns the 1-based position of stage id within the project's
// stages ordered by ascending required progress, plus the stage total.
// Invoice numbering depends on this ordering being stable.
func Ordinal(stages []PaymentStage, id uint64) (n, total int) {
	sorted := make([]PaymentStage, len(stages))
	copy(sorted, stages)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].RequiredProgress < sorted[j].RequiredProgress
	})
	for i := range sorted {
		if sorted[i].ID == id {
			return i + 1, len(sorted)
		}
	}
	return 0, len(sorted)
}

// ---- payment audit log ----

type AuditKind string

const (
	AuditSubmittedProof AuditKind = "submitted_proof"
	AuditApproved       AuditKind = "approved"
	AuditRejected       AuditKind = "rejected"
)

type FileInfo struct {
	FileName string `json:"fileName"`
	FileSize int64  `json:"fileSize"`
	FileType string `json:"fileType"`
}

// AuditEntry is one tagged event in the stage's payment history. The
// list is append-only; nothing is ever merged or overwritten.
type AuditEntry struct {
	Kind             AuditKind `json:"kind"`
	By               uint64    `json:"by"`
	At               time.Time `json:"at"`
	Method           string    `json:"method,omitempty"`
	FileInfo         *FileInfo `json:"fileInfo,omitempty"`
	OriginalFileName string    `json:"originalFileName,omitempty"`
	Reason           string    `json:"reason,omitempty"`
}

func ParseAudit(raw datatypes.JSON) []AuditEntry {
	if len(raw) == 0 {
		return nil
	}
	var entries []AuditEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil
	}
	return entries
}

func AppendAudit(raw datatypes.JSON, e AuditEntry) datatypes.JSON {
	entries := append(ParseAudit(raw), e)
	out, err := json.Marshal(entries)
	if err != nil {
		return raw
	}
	return out
}

// LastAudit returns the most recent entry of the given kind, or nil.
func LastAudit(raw datatypes.JSON, kind AuditKind) *AuditEntry {
	entries := ParseAudit(raw)
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].Kind == kind {
			return &entries[i]
		}
	}
	return nil
}
