package billing

import "context"

type InvoiceRepository interface {
	ListByClient(ctx context.Context, clientID uint64) ([]Invoice, error)
}

type ClientInfoRepository interface {
	GetByUser(ctx context.Context, userID uint64) (*ClientBillingInfo, error)
	Create(ctx context.Context, info *ClientBillingInfo) error
	// Update persists changes to the row only when it belongs to userID.
	Update(ctx context.Context, id, userID uint64, updates map[string]any) (*ClientBillingInfo, error)
}

type CompanyInfoRepository interface {
	GetActive(ctx context.Context) (*CompanyBillingInfo, error)
	// Replace deactivates every existing row and inserts info as the new
	// active one, in a single transaction.
	Replace(ctx context.Context, info *CompanyBillingInfo) error
	Update(ctx context.Context, id uint64, updates map[string]any) (*CompanyBillingInfo, error)
}
