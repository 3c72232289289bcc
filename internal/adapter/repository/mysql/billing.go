package mysql

import (
	"context"
	"time"

	billingDomain "github.com/jhonidlcb/softwarepar/internal/domain/billing"

	"gorm.io/gorm"
)

type InvoiceRepository struct{ db *gorm.DB }

func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository { return &InvoiceRepository{db: db} }

func (r *InvoiceRepository) ListByClient(ctx context.Context, clientID uint64) ([]billingDomain.Invoice, error) {
	var out []billingDomain.Invoice
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	return out, err
}

type ClientInfoRepository struct{ db *gorm.DB }

func NewClientInfoRepository(db *gorm.DB) *ClientInfoRepository {
	return &ClientInfoRepository{db: db}
}

func (r *ClientInfoRepository) GetByUser(ctx context.Context, userID uint64) (*billingDomain.ClientBillingInfo, error) {
	var out billingDomain.ClientBillingInfo
	res := r.db.WithContext(ctx).First(&out, "user_id = ?", userID)
	return &out, res.Error
}

func (r *ClientInfoRepository) Create(ctx context.Context, info *billingDomain.ClientBillingInfo) error {
	return r.db.WithContext(ctx).Create(info).Error
}

func (r *ClientInfoRepository) Update(ctx context.Context, id, userID uint64, updates map[string]any) (*billingDomain.ClientBillingInfo, error) {
	res := r.db.WithContext(ctx).
		Model(&billingDomain.ClientBillingInfo{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	var out billingDomain.ClientBillingInfo
	if err := r.db.WithContext(ctx).First(&out, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

type CompanyInfoRepository struct{ db *gorm.DB }

func NewCompanyInfoRepository(db *gorm.DB) *CompanyInfoRepository {
	return &CompanyInfoRepository{db: db}
}

func (r *CompanyInfoRepository) GetActive(ctx context.Context) (*billingDomain.CompanyBillingInfo, error) {
	var out billingDomain.CompanyBillingInfo
	res := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("updated_at DESC, id DESC").
		First(&out)
	return &out, res.Error
}

// Replace implements the append + soft-switch pattern: old rows stay
// as history with is_active=false, the new row becomes the single
// active pointer.
func (r *CompanyInfoRepository) Replace(ctx context.Context, info *billingDomain.CompanyBillingInfo) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&billingDomain.CompanyBillingInfo{}).
			Where("is_active = ?", true).
			Updates(map[string]any{"is_active": false, "updated_at": time.Now().UTC()}).Error; err != nil {
			return err
		}
		info.IsActive = true
		return tx.Create(info).Error
	})
}

func (r *CompanyInfoRepository) Update(ctx context.Context, id uint64, updates map[string]any) (*billingDomain.CompanyBillingInfo, error) {
	updates["is_active"] = true
	updates["updated_at"] = time.Now().UTC()
	res := r.db.WithContext(ctx).
		Model(&billingDomain.CompanyBillingInfo{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	var out billingDomain.CompanyBillingInfo
	if err := r.db.WithContext(ctx).First(&out, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &out, nil
}
