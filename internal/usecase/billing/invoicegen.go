package billing

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	projectDomain "github.com/jhonidlcb/softwarepar/internal/domain/project"
	stageDomain "github.com/jhonidlcb/softwarepar/internal/domain/stage"
	userDomain "github.com/jhonidlcb/softwarepar/internal/domain/user"
	"github.com/jhonidlcb/softwarepar/internal/invoice"
	"github.com/jhonidlcb/softwarepar/pkg/money"
)

// StageInvoice renders the PDF for a paid stage. Standard invoices and
// RESIMPLE receipts share the data-gathering path and differ only in
// number format, layout and filename. Clients may only download their
// own stages; admins any.
func (u *Usecase) StageInvoice(ctx context.Context, actorID uint64, isAdmin bool, stageID uint64, resimple bool) (filename string, pdf []byte, err error) {
	st, err := u.stages.GetByID(ctx, stageID)
	if err != nil {
		return "", nil, err
	}
	if st.Status != stageDomain.StatusPaid {
		return "", nil, ErrNotPaid
	}

	proj, err := u.projects.GetByID(ctx, st.ProjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, projectDomain.ErrNotFound
		}
		return "", nil, err
	}
	if !isAdmin && proj.ClientID != actorID {
		return "", nil, ErrForbidden
	}

	client, err := u.users.GetByID(ctx, proj.ClientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, userDomain.ErrNotFound
		}
		return "", nil, err
	}

	siblings, err := u.stages.ListByProject(ctx, st.ProjectID)
	if err != nil {
		return "", nil, err
	}
	stageNumber, totalStages := stageDomain.Ordinal(siblings, st.ID)

	rate, err := u.rates.CurrentRate(ctx)
	if err != nil {
		return "", nil, err
	}

	// Missing tax data never blocks a download; the renderer falls back
	// field by field.
	clientInfo, err := u.GetClientInfo(ctx, proj.ClientID)
	if err != nil {
		return "", nil, err
	}
	company, err := u.GetCompanyInfo(ctx)
	if err != nil {
		return "", nil, err
	}

	now := time.Now()
	d := invoice.Data{
		IssueDate:   invoice.IssueDate(now),
		ProjectName: proj.Name,
		StageName:   st.StageName,
		StageNumber: stageNumber,
		TotalStages: totalStages,
		AmountUSD:   st.Amount,
		Rate:        rate,
		AmountPYG:   money.ToGuaranies(st.Amount, rate),
		PaidAt:      st.PaidAt,
		Client: invoice.Party{
			ID:       client.ID,
			FullName: client.FullName,
			Email:    client.Email,
		},
		ClientInfo: clientInfo,
		Company:    company,
		LogoPath:   u.LogoPath,
	}
	if st.PaymentMethod != nil {
		d.PaymentMethod = *st.PaymentMethod
	}

	var blocks []invoice.Block
	if resimple {
		d.InvoiceNumber = invoice.ResimpleNumber(now, proj.ID, stageNumber)
		filename = invoice.ResimpleFilename(proj.ID, stageNumber)
		blocks = invoice.BuildResimple(d)
	} else {
		d.InvoiceNumber = invoice.StandardNumber(now, proj.ID)
		filename = invoice.StandardFilename(d.InvoiceNumber, stageNumber)
		blocks = invoice.BuildStandard(d)
	}

	pdf, err = invoice.Render(blocks)
	if err != nil {
		return "", nil, err
	}
	return filename, pdf, nil
}
