package billing

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type InvoiceStatus string

const (
	InvoiceStatusPending   InvoiceStatus = "pending"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusOverdue   InvoiceStatus = "overdue"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

// Invoice is a traditional project-level invoice. Stage-derived
// invoices are virtual: rendered on demand from a paid payment stage
// and never stored here.
type Invoice struct {
	ID            uint64          `gorm:"primaryKey;column:id" json:"id"`
	ProjectID     uint64          `gorm:"index" json:"projectId"`
	ClientID      uint64          `gorm:"index:idx_invoices_client" json:"clientId"`
	InvoiceNumber string          `gorm:"size:50" json:"invoiceNumber"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,2)" json:"amount"`
	Status        InvoiceStatus   `gorm:"size:20;default:'pending'" json:"status"`
	DueDate       *time.Time      `json:"dueDate"`
	PaidAt        *time.Time      `json:"paidAt"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (Invoice) TableName() string { return "invoices" }

type ClientType string

const (
	ClientTypePersonaFisica   ClientType = "persona_fisica"
	ClientTypeEmpresa         ClientType = "empresa"
	ClientTypeConsumidorFinal ClientType = "consumidor_final"
	ClientTypeExtranjero      ClientType = "extranjero"
)

// ClientTypeLabel maps the enum to the label printed on RESIMPLE
// receipts. Unknown values fall back to Consumidor Final.
func ClientTypeLabel(t ClientType) string {
	switch t {
	case ClientTypePersonaFisica:
		return "Persona Física"
	case ClientTypeEmpresa:
		return "Empresa"
	case ClientTypeExtranjero:
		return "Extranjero"
	default:
		return "Consumidor Final"
	}
}

// ClientBillingInfo holds a client's legal/tax data, one row per user.
type ClientBillingInfo struct {
	ID             uint64     `gorm:"primaryKey;column:id" json:"id"`
	UserID         uint64     `gorm:"uniqueIndex:ux_client_billing_user" json:"userId"`
	ClientType     ClientType `gorm:"size:30;default:'consumidor_final'" json:"clientType"`
	LegalName      string     `gorm:"size:255" json:"legalName"`
	DocumentType   string     `gorm:"size:30" json:"documentType"`
	DocumentNumber string     `gorm:"size:50" json:"documentNumber"`
	Email          string     `gorm:"size:255" json:"email"`
	Address        string     `gorm:"size:255" json:"address"`
	City           string     `gorm:"size:100" json:"city"`
	Country        string     `gorm:"size:100" json:"country"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (ClientBillingInfo) TableName() string { return "client_billing_info" }

// CompanyBillingInfo is the issuer's fiscal data. At most one row is
// active at a time: creating a new one deactivates all prior rows
// (append + soft switch), preserving history.
type CompanyBillingInfo struct {
	ID               uint64    `gorm:"primaryKey;column:id" json:"id"`
	CompanyName      string    `gorm:"size:255" json:"companyName"`
	TitularName      string    `gorm:"size:255" json:"titularName"`
	RUC              string    `gorm:"size:50;column:ruc" json:"ruc"`
	Phone            string    `gorm:"size:50" json:"phone"`
	Email            string    `gorm:"size:255" json:"email"`
	Address          string    `gorm:"size:255" json:"address"`
	City             string    `gorm:"size:100" json:"city"`
	Country          string    `gorm:"size:100" json:"country"`
	EconomicActivity string    `gorm:"size:255" json:"economicActivity"`
	TaxRegime        string    `gorm:"size:100" json:"taxRegime"`
	IsActive         bool      `gorm:"default:true;index" json:"isActive"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (CompanyBillingInfo) TableName() string { return "company_billing_info" }
