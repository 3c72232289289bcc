package stage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	notifDomain "github.com/jhonidlcb/softwarepar/internal/domain/notification"
	projectDomain "github.com/jhonidlcb/softwarepar/internal/domain/project"
	domain "github.com/jhonidlcb/softwarepar/internal/domain/stage"
	"github.com/jhonidlcb/softwarepar/internal/domain/uow"
	userDomain "github.com/jhonidlcb/softwarepar/internal/domain/user"
	"github.com/jhonidlcb/softwarepar/internal/notify"
	"github.com/jhonidlcb/softwarepar/pkg/money"
)

// ErrForbidden marks a client touching another client's project.
var ErrForbidden = errors.New("access to another client's project")

// ErrNoProof is returned when a receipt is requested for a stage that
// never had a proof submitted (or whose proof was cleared on reject).
var ErrNoProof = errors.New("no payment proof on stage")

// Dispatcher decouples the lifecycle from notification delivery;
// production wires notify.Dispatcher.
type Dispatcher interface {
	Dispatch(ctx context.Context, e notify.Event)
}

type Usecase struct {
	stages     domain.Repository
	projects   projectDomain.Repository
	users      userDomain.Repository
	uow        uow.UnitOfWork
	dispatcher Dispatcher
	log        *zap.Logger
}

func NewUsecase(stages domain.Repository, projects projectDomain.Repository, users userDomain.Repository, tx uow.UnitOfWork, d Dispatcher, log *zap.Logger) *Usecase {
	return &Usecase{stages: stages, projects: projects, users: users, uow: tx, dispatcher: d, log: log}
}

// Create bulk-creates the project's payment stages. Amounts are frozen
// at creation from the current project price; later price changes never
// recompute them. Stages born available trigger a client email, and a
// project without a timeline gets the default 6-item plan seeded.
func (u *Usecase) Create(ctx context.Context, projectID uint64, inputs []StageInput) ([]StageDTO, error) {
	proj, err := u.projects.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, projectDomain.ErrNotFound
		}
		return nil, err
	}

	created := make([]*domain.PaymentStage, 0, len(inputs))
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		for _, in := range inputs {
			s := &domain.PaymentStage{
				ProjectID:        projectID,
				StageName:        in.Name,
				StagePercentage:  in.Percentage,
				Amount:           money.StageAmount(proj.Price, in.Percentage),
				RequiredProgress: in.RequiredProgress,
				Status:           domain.InitialStatus(in.RequiredProgress),
			}
			if err := r.Stages.Create(ctx, s); err != nil {
				return err
			}
			created = append(created, s)
		}

		// Idempotent: an existence check, not a unique constraint.
		hasTimeline, err := r.Projects.HasTimeline(ctx, projectID)
		if err != nil {
			return err
		}
		if !hasTimeline {
			if err := r.Projects.CreateTimelineItems(ctx, projectDomain.DefaultTimeline(projectID)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.notifyAvailable(ctx, proj, created)

	out := make([]StageDTO, 0, len(created))
	for _, s := range created {
		out = append(out, toDTO(s))
	}
	return out, nil
}

func (u *Usecase) notifyAvailable(ctx context.Context, proj *projectDomain.Project, created []*domain.PaymentStage) {
	var available []*domain.PaymentStage
	for _, s := range created {
		if s.Status == domain.StatusAvailable {
			available = append(available, s)
		}
	}
	if len(available) == 0 {
		return
	}
	client, err := u.users.GetByID(ctx, proj.ClientID)
	if err != nil || client.Email == "" {
		if err != nil {
			u.log.Warn("stage: client lookup for availability email failed",
				zap.Uint64("project_id", proj.ID), zap.Error(err))
		}
		return
	}
	for _, s := range available {
		mail := notify.StageAvailableMail(client.FullName, proj.Name, s.StageName, money.FormatUSD(s.Amount), s.StagePercentage)
		u.dispatcher.Dispatch(ctx, notify.Event{
			Kind:    notify.KindStageAvailable,
			Targets: []notify.Target{{UserID: client.ID, Email: client.Email, FullName: client.FullName}},
			Mail:    &mail,
			Data:    map[string]any{"stageId": s.ID, "projectId": proj.ID},
		})
	}
}

// List returns the project's stages; clients only see projects they own.
func (u *Usecase) List(ctx context.Context, actorID uint64, isAdmin bool, projectID uint64) ([]StageDTO, error) {
	if !isAdmin {
		proj, err := u.projects.GetByID(ctx, projectID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, projectDomain.ErrNotFound
			}
			return nil, err
		}
		if proj.ClientID != actorID {
			return nil, ErrForbidden
		}
	}
	stages, err := u.stages.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	out := make([]StageDTO, 0, len(stages))
	for i := range stages {
		out = append(out, toDTO(&stages[i]))
	}
	return out, nil
}

func (u *Usecase) Get(ctx context.Context, id uint64) (*StageDTO, error) {
	s, err := u.stages.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toDTO(s)
	return &dto, nil
}

// UpdateInput is the generic PATCH surface; nil fields are untouched.
type UpdateInput struct {
	StageName        *string          `json:"stageName"`
	StagePercentage  *int             `json:"stagePercentage" validate:"omitempty,gte=1,lte=100"`
	RequiredProgress *int             `json:"requiredProgress" validate:"omitempty,gte=0,lte=100"`
	Amount           *decimal.Decimal `json:"amount"`
}

func (u *Usecase) Update(ctx context.Context, id uint64, in UpdateInput) (*StageDTO, error) {
	fields := map[string]any{}
	if in.StageName != nil {
		fields["stage_name"] = *in.StageName
	}
	if in.StagePercentage != nil {
		fields["stage_percentage"] = *in.StagePercentage
	}
	if in.RequiredProgress != nil {
		fields["required_progress"] = *in.RequiredProgress
	}
	if in.Amount != nil {
		fields["amount"] = *in.Amount
	}
	if len(fields) > 0 {
		if err := u.stages.UpdateFields(ctx, id, fields); err != nil {
			return nil, err
		}
	}
	return u.Get(ctx, id)
}

// Confirm records a client's payment proof and moves the stage to
// pending_verification. Allowed from available and from
// pending_verification (a client may re-send a proof before review).
func (u *Usecase) Confirm(ctx context.Context, actorID uint64, isAdmin bool, stageID uint64, in ConfirmInput) (*StageDTO, error) {
	s, err := u.stages.GetByID(ctx, stageID)
	if err != nil {
		return nil, err
	}
	proj, client, err := u.projectAndClient(ctx, s.ProjectID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && proj.ClientID != actorID {
		return nil, ErrForbidden
	}

	now := time.Now().UTC()
	proofURL := proofFileName(stageID, now, in)

	entry := domain.AuditEntry{
		Kind:             domain.AuditSubmittedProof,
		By:               actorID,
		At:               now,
		Method:           in.Method,
		OriginalFileName: in.OriginalFileName,
	}
	switch {
	case in.Upload != nil:
		entry.FileInfo = in.Upload
	case in.FileInfo != nil:
		entry.FileInfo = in.FileInfo
	}

	fields := map[string]any{
		"payment_method": in.Method,
		"proof_file_url": proofURL,
		"payment_data":   domain.AppendAudit(s.PaymentData, entry),
	}
	err = u.stages.TransitionStatus(ctx, stageID,
		[]domain.Status{domain.StatusAvailable, domain.StatusPendingVerification},
		domain.StatusPendingVerification, fields)
	if err != nil {
		return nil, err
	}

	u.notifyProofSubmitted(ctx, s, proj, client, in)
	return u.Get(ctx, stageID)
}

func (u *Usecase) notifyProofSubmitted(ctx context.Context, s *domain.PaymentStage, proj *projectDomain.Project, client *userDomain.User, in ConfirmInput) {
	admins, err := u.users.ListByRole(ctx, userDomain.RoleAdmin)
	if err != nil {
		u.log.Warn("stage: admin lookup failed", zap.Error(err))
	}

	attachment := "Sin comprobante adjunto"
	var attachmentInfo string
	if in.Upload != nil {
		mb := float64(in.Upload.FileSize) / 1024 / 1024
		attachment = "Comprobante adjunto: " + in.OriginalFileName
		attachmentInfo = fmt.Sprintf("Comprobante adjunto: %s (%.2f MB) - Tipo: %s", in.OriginalFileName, mb, in.Upload.FileType)
	} else if in.FileInfo != nil {
		mb := float64(in.FileInfo.FileSize) / 1024 / 1024
		attachment = "Archivo indicado: " + in.FileInfo.FileName
		attachmentInfo = fmt.Sprintf("Archivo indicado: %s (%.2f MB) - %s", in.FileInfo.FileName, mb, in.FileInfo.FileType)
	}

	amountUSD := money.FormatUSD(s.Amount)
	adminMail := notify.ProofSubmittedAdminMail(client.FullName, proj.Name, s.StageName, amountUSD, in.Method, attachmentInfo)
	targets := make([]notify.Target, 0, len(admins))
	for _, a := range admins {
		targets = append(targets, notify.Target{UserID: a.ID, Email: a.Email, FullName: a.FullName})
	}
	u.dispatcher.Dispatch(ctx, notify.Event{
		Kind:    notify.KindProofSubmitted,
		Targets: targets,
		Note: &notify.Note{
			Title: "📋 Comprobante de Pago Recibido",
			Message: fmt.Sprintf("El cliente %s envió comprobante de pago para %q mediante %s. %s. Requiere verificación.",
				client.FullName, s.StageName, in.Method, attachment),
			Severity: notifDomain.SeverityWarning,
		},
		Mail: &adminMail,
		Data: map[string]any{"stageId": s.ID, "projectId": proj.ID},
	})

	clientMail := notify.ProofSubmittedClientMail(client.FullName, proj.Name, s.StageName, amountUSD, in.Method)
	u.dispatcher.Dispatch(ctx, notify.Event{
		Kind:    notify.KindProofSubmitted,
		Targets: []notify.Target{{UserID: client.ID, Email: client.Email, FullName: client.FullName}},
		Mail:    &clientMail,
		Data:    map[string]any{"stageId": s.ID, "projectId": proj.ID},
	})
}

// ProofInfoDTO describes the submitted proof; file bytes themselves
// are not stored, only the synthesized reference and metadata.
type ProofInfoDTO struct {
	ProofFileURL string           `json:"proofFileUrl"`
	Method       string           `json:"method,omitempty"`
	FileInfo     *domain.FileInfo `json:"fileInfo,omitempty"`
	SubmittedAt  *time.Time       `json:"submittedAt,omitempty"`
}

func (u *Usecase) ProofInfo(ctx context.Context, actorID uint64, isAdmin bool, stageID uint64) (*ProofInfoDTO, error) {
	s, err := u.stages.GetByID(ctx, stageID)
	if err != nil {
		return nil, err
	}
	if !isAdmin {
		proj, _, err := u.projectAndClient(ctx, s.ProjectID)
		if err != nil {
			return nil, err
		}
		if proj.ClientID != actorID {
			return nil, ErrForbidden
		}
	}
	if s.ProofFileURL == nil {
		return nil, ErrNoProof
	}
	out := &ProofInfoDTO{ProofFileURL: *s.ProofFileURL}
	if e := domain.LastAudit(s.PaymentData, domain.AuditSubmittedProof); e != nil {
		out.Method = e.Method
		out.FileInfo = e.FileInfo
		at := e.At
		out.SubmittedAt = &at
	}
	return out, nil
}

// Approve moves pending_verification → paid. The status guard runs as
// a conditional update, so of two racing approvals at most one wins.
func (u *Usecase) Approve(ctx context.Context, adminID, stageID uint64) (*StageDTO, error) {
	s, err := u.stages.GetByID(ctx, stageID)
	if err != nil {
		return nil, err
	}
	proj, client, err := u.projectAndClient(ctx, s.ProjectID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	fields := map[string]any{
		"paid_at":     now,
		"approved_by": adminID,
		"approved_at": now,
		"payment_data": domain.AppendAudit(s.PaymentData, domain.AuditEntry{
			Kind: domain.AuditApproved, By: adminID, At: now,
		}),
	}
	err = u.stages.TransitionStatus(ctx, stageID,
		[]domain.Status{domain.StatusPendingVerification}, domain.StatusPaid, fields)
	if err != nil {
		return nil, err
	}

	// In-app only: approval intentionally sends no email (the original
	// behaves this way; submission and rejection do email).
	u.dispatcher.Dispatch(ctx, notify.Event{
		Kind:    notify.KindPaymentApproved,
		Targets: []notify.Target{{UserID: client.ID, Email: client.Email, FullName: client.FullName}},
		Note: &notify.Note{
			Title:    "✅ Pago Aprobado",
			Message:  fmt.Sprintf("Tu pago para la etapa %q ha sido verificado y aprobado. ¡Continuamos con el desarrollo!", s.StageName),
			Severity: notifDomain.SeveritySuccess,
		},
		Data: map[string]any{"stageId": s.ID, "projectId": proj.ID},
	})
	return u.Get(ctx, stageID)
}

// Reject moves pending_verification back to available, clearing the
// submitted method and proof reference. The reason is mandatory and
// is preserved in the audit log rather than merged over prior data.
func (u *Usecase) Reject(ctx context.Context, adminID, stageID uint64, reason string) (*StageDTO, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, domain.ErrReasonRequired
	}
	s, err := u.stages.GetByID(ctx, stageID)
	if err != nil {
		return nil, err
	}
	proj, client, err := u.projectAndClient(ctx, s.ProjectID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	fields := map[string]any{
		"payment_method": nil,
		"proof_file_url": nil,
		"payment_data": domain.AppendAudit(s.PaymentData, domain.AuditEntry{
			Kind: domain.AuditRejected, By: adminID, At: now, Reason: reason,
		}),
	}
	err = u.stages.TransitionStatus(ctx, stageID,
		[]domain.Status{domain.StatusPendingVerification}, domain.StatusAvailable, fields)
	if err != nil {
		return nil, err
	}

	u.dispatcher.Dispatch(ctx, notify.Event{
		Kind:    notify.KindPaymentRejected,
		Targets: []notify.Target{{UserID: client.ID, Email: client.Email, FullName: client.FullName}},
		Note: &notify.Note{
			Title:    "❌ Pago Rechazado",
			Message:  fmt.Sprintf("Tu comprobante de pago para %q fue rechazado. Motivo: %s. Por favor, envía un nuevo comprobante.", s.StageName, reason),
			Severity: notifDomain.SeverityError,
		},
		Data: map[string]any{"stageId": s.ID, "projectId": proj.ID},
	})
	return u.Get(ctx, stageID)
}

// Complete is the admin-triggered alternate terminal transition used
// for non-monetary stage tracking; it bypasses the proof flow.
func (u *Usecase) Complete(ctx context.Context, stageID uint64) (*StageDTO, error) {
	if err := u.stages.UpdateFields(ctx, stageID, map[string]any{"status": domain.StatusCompleted}); err != nil {
		return nil, err
	}
	return u.Get(ctx, stageID)
}

func (u *Usecase) projectAndClient(ctx context.Context, projectID uint64) (*projectDomain.Project, *userDomain.User, error) {
	proj, err := u.projects.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, projectDomain.ErrNotFound
		}
		return nil, nil, err
	}
	client, err := u.users.GetByID(ctx, proj.ClientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, userDomain.ErrNotFound
		}
		return nil, nil, err
	}
	return proj, client, nil
}

func proofFileName(stageID uint64, now time.Time, in ConfirmInput) *string {
	var name string
	switch {
	case in.Upload != nil:
		name = fmt.Sprintf("comprobante_%d_%d_%s", stageID, now.UnixMilli(), in.OriginalFileName)
	case in.FileInfo != nil:
		ext := "jpg"
		if parts := strings.SplitN(in.FileInfo.FileType, "/", 2); len(parts) == 2 && parts[1] != "" {
			ext = parts[1]
		}
		name = fmt.Sprintf("comprobante_%d_%d.%s", stageID, now.UnixMilli(), ext)
	default:
		return nil
	}
	return &name
}
