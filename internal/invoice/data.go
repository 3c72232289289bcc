package invoice

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhonidlcb/softwarepar/internal/domain/billing"
)

// Company fallbacks used field by field when no active company billing
// info row exists.
const (
	defaultCompanyName = "SoftwarePar S.R.L."
	defaultTitular     = "Jhoni Fabián Benítez De La Cruz (SoftwarePar)"
	defaultRUC         = "En proceso"
	defaultPhone       = "+595 985 990 046"
	defaultEmail       = "softwarepar.lat@gmail.com"
	defaultAddress     = "Paraguay, América del Sur"
	defaultCity        = "Itapúa"
	defaultCountry     = "Paraguay"
	defaultActivity    = "Desarrollo de Software y Servicios Informáticos"
	defaultTaxRegime   = "Régimen General"
	defaultPayMethod   = "Transferencia Bancaria"
)

// Party identifies the requesting client as known to the session.
type Party struct {
	ID       uint64
	FullName string
	Email    string
}

// Data is everything the renderer needs. It is assembled by the caller;
// rendering itself performs no I/O other than the optional logo read.
type Data struct {
	InvoiceNumber string
	IssueDate     string
	ProjectName   string
	StageName     string
	StageNumber   int
	TotalStages   int

	AmountUSD decimal.Decimal
	Rate      decimal.Decimal
	AmountPYG int64

	PaymentMethod string
	PaidAt        *time.Time

	Client     Party
	ClientInfo *billing.ClientBillingInfo  // nil when the client never filed tax data
	Company    *billing.CompanyBillingInfo // nil when no active row exists
	LogoPath   string
}

func (d *Data) method() string {
	if d.PaymentMethod != "" {
		return d.PaymentMethod
	}
	return defaultPayMethod
}

func (d *Data) paidDate() string {
	if d.PaidAt != nil {
		return IssueDate(*d.PaidAt)
	}
	return d.IssueDate
}

type companyInfo = billing.CompanyBillingInfo

// company reads a single field from the active company info, falling
// back field by field when the row is absent or the field is empty.
func (d *Data) company(get func(companyInfo) string, fallback string) string {
	if d.Company != nil {
		if v := get(*d.Company); v != "" {
			return v
		}
	}
	return fallback
}
