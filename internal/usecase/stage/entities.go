package stage

import (
	"time"

	"github.com/shopspring/decimal"

	domain "github.com/jhonidlcb/softwarepar/internal/domain/stage"
)

type StageInput struct {
	Name             string `json:"name" validate:"required"`
	Percentage       int    `json:"percentage" validate:"gte=1,lte=100"`
	RequiredProgress int    `json:"requiredProgress" validate:"gte=0,lte=100"`
}

// ConfirmInput carries the proof submission. Upload metadata describes
// a received binary (bytes themselves are not stored); FileInfo is the
// descriptive-only alternative when no binary was sent.
type ConfirmInput struct {
	Method           string
	Upload           *domain.FileInfo
	OriginalFileName string
	FileInfo         *domain.FileInfo
}

// PaymentDataDTO is the legacy flat projection of the audit log kept
// at the API boundary: the newest entry of each kind wins.
type PaymentDataDTO struct {
	ConfirmedBy      *uint64          `json:"confirmedBy,omitempty"`
	ConfirmedAt      *time.Time       `json:"confirmedAt,omitempty"`
	Method           string           `json:"method,omitempty"`
	FileInfo         *domain.FileInfo `json:"fileInfo,omitempty"`
	OriginalFileName string           `json:"originalFileName,omitempty"`
	RejectedBy       *uint64          `json:"rejectedBy,omitempty"`
	RejectedAt       *time.Time       `json:"rejectedAt,omitempty"`
	RejectionReason  string           `json:"rejectionReason,omitempty"`
	ApprovedBy       *uint64          `json:"approvedBy,omitempty"`
	ApprovedAt       *time.Time       `json:"approvedAt,omitempty"`

	// History is the full append-only audit trail.
	History []domain.AuditEntry `json:"history,omitempty"`
}

type StageDTO struct {
	ID               uint64          `json:"id"`
	ProjectID        uint64          `json:"projectId"`
	StageName        string          `json:"stageName"`
	StagePercentage  int             `json:"stagePercentage"`
	Amount           decimal.Decimal `json:"amount"`
	RequiredProgress int             `json:"requiredProgress"`
	Status           string          `json:"status"`
	PaymentMethod    *string         `json:"paymentMethod"`
	ProofFileURL     *string         `json:"proofFileUrl"`
	PaymentData      *PaymentDataDTO `json:"paymentData,omitempty"`
	PaidAt           *time.Time      `json:"paidAt"`
	ApprovedAt       *time.Time      `json:"approvedAt"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

func toDTO(s *domain.PaymentStage) StageDTO {
	return StageDTO{
		ID:               s.ID,
		ProjectID:        s.ProjectID,
		StageName:        s.StageName,
		StagePercentage:  s.StagePercentage,
		Amount:           s.Amount,
		RequiredProgress: s.RequiredProgress,
		Status:           string(s.Status),
		PaymentMethod:    s.PaymentMethod,
		ProofFileURL:     s.ProofFileURL,
		PaymentData:      paymentDataDTO(s),
		PaidAt:           s.PaidAt,
		ApprovedAt:       s.ApprovedAt,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
}

func paymentDataDTO(s *domain.PaymentStage) *PaymentDataDTO {
	history := domain.ParseAudit(s.PaymentData)
	if len(history) == 0 {
		return nil
	}
	out := &PaymentDataDTO{History: history}
	if e := domain.LastAudit(s.PaymentData, domain.AuditSubmittedProof); e != nil {
		out.ConfirmedBy, out.ConfirmedAt = &e.By, &e.At
		out.Method = e.Method
		out.FileInfo = e.FileInfo
		out.OriginalFileName = e.OriginalFileName
	}
	if e := domain.LastAudit(s.PaymentData, domain.AuditRejected); e != nil {
		out.RejectedBy, out.RejectedAt = &e.By, &e.At
		out.RejectionReason = e.Reason
	}
	if e := domain.LastAudit(s.PaymentData, domain.AuditApproved); e != nil {
		out.ApprovedBy, out.ApprovedAt = &e.By, &e.At
	}
	return out
}
