// Package billing aggregates the client-facing money views: the
// billing summary, the merged invoice list (stored invoices plus paid
// payment stages) and the legal/tax data of both parties.
package billing

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	domain "github.com/jhonidlcb/softwarepar/internal/domain/billing"
	projectDomain "github.com/jhonidlcb/softwarepar/internal/domain/project"
	stageDomain "github.com/jhonidlcb/softwarepar/internal/domain/stage"
	userDomain "github.com/jhonidlcb/softwarepar/internal/domain/user"
)

var (
	ErrForbidden = errors.New("access to another client's resource")
	ErrNotPaid   = errors.New("stage is not paid")
)

type Usecase struct {
	invoices    domain.InvoiceRepository
	clientInfo  domain.ClientInfoRepository
	companyInfo domain.CompanyInfoRepository
	stages      stageDomain.Repository
	projects    projectDomain.Repository
	users       userDomain.Repository
	rates       RateSource
	log         *zap.Logger

	// LogoPath points at the issuer logo embedded in RESIMPLE receipts;
	// empty or unreadable falls back to a text header.
	LogoPath string
}

// RateSource supplies the current USD→Gs rate; production wires the
// exchange usecase so invoice rendering shares its cache.
type RateSource interface {
	CurrentRate(ctx context.Context) (decimal.Decimal, error)
}

func NewUsecase(
	invoices domain.InvoiceRepository,
	clientInfo domain.ClientInfoRepository,
	companyInfo domain.CompanyInfoRepository,
	stages stageDomain.Repository,
	projects projectDomain.Repository,
	users userDomain.Repository,
	rates RateSource,
	log *zap.Logger,
) *Usecase {
	return &Usecase{
		invoices: invoices, clientInfo: clientInfo, companyInfo: companyInfo,
		stages: stages, projects: projects, users: users, rates: rates, log: log,
	}
}

// SummaryDTO is the per-client money rollup computed live from the
// client's payment stages; nothing here is stored. currentBalance is
// everything not yet paid (gated stages included); pendingPayments is
// the narrower sum of stages payable or under verification right now.
// nextPaymentDue stays null: stages carry no due dates.
type SummaryDTO struct {
	CurrentBalance  decimal.Decimal `json:"currentBalance"`
	TotalPaid       decimal.Decimal `json:"totalPaid"`
	PendingPayments decimal.Decimal `json:"pendingPayments"`
	NextPaymentDue  *time.Time      `json:"nextPaymentDue"`
}

func (u *Usecase) Summary(ctx context.Context, clientID uint64) (*SummaryDTO, error) {
	stages, err := u.clientStages(ctx, clientID)
	if err != nil {
		return nil, err
	}
	s := &SummaryDTO{
		CurrentBalance:  decimal.Zero,
		TotalPaid:       decimal.Zero,
		PendingPayments: decimal.Zero,
	}
	for i := range stages {
		st := &stages[i]
		switch st.Status {
		case stageDomain.StatusPaid, stageDomain.StatusCompleted:
			s.TotalPaid = s.TotalPaid.Add(st.Amount)
		case stageDomain.StatusAvailable, stageDomain.StatusPendingVerification:
			s.CurrentBalance = s.CurrentBalance.Add(st.Amount)
			s.PendingPayments = s.PendingPayments.Add(st.Amount)
		default:
			s.CurrentBalance = s.CurrentBalance.Add(st.Amount)
		}
	}
	return s, nil
}

const (
	InvoiceTypeTraditional  = "traditional"
	InvoiceTypeStagePayment = "stage_payment"
)

// InvoiceDTO is one row of the merged invoice list. Traditional rows
// come from the invoices table; stage_payment rows are virtual entries
// derived from paid stages, downloadable as PDFs on demand.
type InvoiceDTO struct {
	Type          string          `json:"type"`
	ID            uint64          `json:"id"`
	ProjectID     uint64          `json:"projectId"`
	ProjectName   string          `json:"projectName"`
	InvoiceNumber string          `json:"invoiceNumber,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
	Date          time.Time       `json:"date"`
	StageID       uint64          `json:"stageId,omitempty"`
	StageName     string          `json:"stageName,omitempty"`
	Downloadable  bool            `json:"downloadable"`
}

// Invoices merges stored invoices with paid stages, newest first.
func (u *Usecase) Invoices(ctx context.Context, clientID uint64) ([]InvoiceDTO, error) {
	stored, err := u.invoices.ListByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	projects, byID, err := u.clientProjects(ctx, clientID)
	if err != nil {
		return nil, err
	}

	out := make([]InvoiceDTO, 0, len(stored))
	for i := range stored {
		inv := &stored[i]
		dto := InvoiceDTO{
			Type:          InvoiceTypeTraditional,
			ID:            inv.ID,
			ProjectID:     inv.ProjectID,
			InvoiceNumber: inv.InvoiceNumber,
			Amount:        inv.Amount,
			Status:        string(inv.Status),
			Date:          inv.CreatedAt,
		}
		if p, ok := byID[inv.ProjectID]; ok {
			dto.ProjectName = p.Name
		}
		out = append(out, dto)
	}

	if len(projects) > 0 {
		ids := make([]uint64, 0, len(projects))
		for i := range projects {
			ids = append(ids, projects[i].ID)
		}
		stages, err := u.stages.ListByProjects(ctx, ids)
		if err != nil {
			return nil, err
		}
		for i := range stages {
			st := &stages[i]
			if st.Status != stageDomain.StatusPaid && st.Status != stageDomain.StatusCompleted {
				continue
			}
			date := st.UpdatedAt
			if st.PaidAt != nil {
				date = *st.PaidAt
			}
			dto := InvoiceDTO{
				Type:         InvoiceTypeStagePayment,
				ID:           st.ID,
				ProjectID:    st.ProjectID,
				Amount:       st.Amount,
				Status:       string(domain.InvoiceStatusPaid),
				Date:         date,
				StageID:      st.ID,
				StageName:    st.StageName,
				Downloadable: st.Status == stageDomain.StatusPaid,
			}
			if p, ok := byID[st.ProjectID]; ok {
				dto.ProjectName = p.Name
			}
			out = append(out, dto)
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (u *Usecase) clientProjects(ctx context.Context, clientID uint64) ([]projectDomain.Project, map[uint64]*projectDomain.Project, error) {
	projects, err := u.projects.ListByClient(ctx, clientID)
	if err != nil {
		return nil, nil, err
	}
	byID := make(map[uint64]*projectDomain.Project, len(projects))
	for i := range projects {
		byID[projects[i].ID] = &projects[i]
	}
	return projects, byID, nil
}

func (u *Usecase) clientStages(ctx context.Context, clientID uint64) ([]stageDomain.PaymentStage, error) {
	projects, _, err := u.clientProjects(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if len(projects) == 0 {
		return nil, nil
	}
	ids := make([]uint64, 0, len(projects))
	for i := range projects {
		ids = append(ids, projects[i].ID)
	}
	return u.stages.ListByProjects(ctx, ids)
}

// ---- client billing info ----

type ClientInfoInput struct {
	ClientType     string `json:"clientType" validate:"omitempty,oneof=persona_fisica empresa consumidor_final extranjero"`
	LegalName      string `json:"legalName"`
	DocumentType   string `json:"documentType"`
	DocumentNumber string `json:"documentNumber"`
	Email          string `json:"email" validate:"omitempty,email"`
	Address        string `json:"address"`
	City           string `json:"city"`
	Country        string `json:"country"`
}

// GetClientInfo returns the caller's tax data, nil when never filed.
func (u *Usecase) GetClientInfo(ctx context.Context, userID uint64) (*domain.ClientBillingInfo, error) {
	info, err := u.clientInfo.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return info, nil
}

// SaveClientInfo creates or updates the caller's tax data (one row per
// user, upsert semantics).
func (u *Usecase) SaveClientInfo(ctx context.Context, userID uint64, in ClientInfoInput) (*domain.ClientBillingInfo, error) {
	existing, err := u.GetClientInfo(ctx, userID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		info := &domain.ClientBillingInfo{
			UserID:         userID,
			ClientType:     clientTypeOrDefault(in.ClientType),
			LegalName:      in.LegalName,
			DocumentType:   in.DocumentType,
			DocumentNumber: in.DocumentNumber,
			Email:          in.Email,
			Address:        in.Address,
			City:           in.City,
			Country:        in.Country,
		}
		if err := u.clientInfo.Create(ctx, info); err != nil {
			return nil, err
		}
		return info, nil
	}
	updates := map[string]any{
		"client_type":     clientTypeOrDefault(in.ClientType),
		"legal_name":      in.LegalName,
		"document_type":   in.DocumentType,
		"document_number": in.DocumentNumber,
		"email":           in.Email,
		"address":         in.Address,
		"city":            in.City,
		"country":         in.Country,
	}
	return u.clientInfo.Update(ctx, existing.ID, userID, updates)
}

// UpdateClientInfo edits one row by id, only when owned by userID.
func (u *Usecase) UpdateClientInfo(ctx context.Context, id, userID uint64, in ClientInfoInput) (*domain.ClientBillingInfo, error) {
	updates := map[string]any{
		"client_type":     clientTypeOrDefault(in.ClientType),
		"legal_name":      in.LegalName,
		"document_type":   in.DocumentType,
		"document_number": in.DocumentNumber,
		"email":           in.Email,
		"address":         in.Address,
		"city":            in.City,
		"country":         in.Country,
	}
	return u.clientInfo.Update(ctx, id, userID, updates)
}

func clientTypeOrDefault(t string) domain.ClientType {
	switch domain.ClientType(t) {
	case domain.ClientTypePersonaFisica, domain.ClientTypeEmpresa, domain.ClientTypeExtranjero:
		return domain.ClientType(t)
	default:
		return domain.ClientTypeConsumidorFinal
	}
}

// ---- company billing info ----

type CompanyInfoInput struct {
	CompanyName      string `json:"companyName" validate:"required"`
	TitularName      string `json:"titularName"`
	RUC              string `json:"ruc"`
	Phone            string `json:"phone"`
	Email            string `json:"email" validate:"omitempty,email"`
	Address          string `json:"address"`
	City             string `json:"city"`
	Country          string `json:"country"`
	EconomicActivity string `json:"economicActivity"`
	TaxRegime        string `json:"taxRegime"`
}

// GetCompanyInfo returns the active issuer row, nil when none exists
// (the renderer then falls back to the built-in defaults).
func (u *Usecase) GetCompanyInfo(ctx context.Context) (*domain.CompanyBillingInfo, error) {
	info, err := u.companyInfo.GetActive(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return info, nil
}

// ReplaceCompanyInfo installs a new active issuer row, deactivating all
// previous ones. History is kept; rows are never deleted.
func (u *Usecase) ReplaceCompanyInfo(ctx context.Context, in CompanyInfoInput) (*domain.CompanyBillingInfo, error) {
	info := &domain.CompanyBillingInfo{
		CompanyName:      in.CompanyName,
		TitularName:      in.TitularName,
		RUC:              in.RUC,
		Phone:            in.Phone,
		Email:            in.Email,
		Address:          in.Address,
		City:             in.City,
		Country:          in.Country,
		EconomicActivity: in.EconomicActivity,
		TaxRegime:        in.TaxRegime,
		IsActive:         true,
	}
	if err := u.companyInfo.Replace(ctx, info); err != nil {
		return nil, err
	}
	return info, nil
}

// UpdateCompanyInfo edits the active row in place.
func (u *Usecase) UpdateCompanyInfo(ctx context.Context, id uint64, in CompanyInfoInput) (*domain.CompanyBillingInfo, error) {
	updates := map[string]any{
		"company_name":      in.CompanyName,
		"titular_name":      in.TitularName,
		"ruc":               in.RUC,
		"phone":             in.Phone,
		"email":             in.Email,
		"address":           in.Address,
		"city":              in.City,
		"country":           in.Country,
		"economic_activity": in.EconomicActivity,
		"tax_regime":        in.TaxRegime,
	}
	return u.companyInfo.Update(ctx, id, updates)
}
