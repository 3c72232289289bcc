package mysql

import (
	"context"

	exchangeDomain "github.com/jhonidlcb/softwarepar/internal/domain/exchange"

	"gorm.io/gorm"
)

type ExchangeRepository struct{ db *gorm.DB }

func NewExchangeRepository(db *gorm.DB) *ExchangeRepository { return &ExchangeRepository{db: db} }

func (r *ExchangeRepository) Current(ctx context.Context) (*exchangeDomain.Rate, error) {
	var out exchangeDomain.Rate
	res := r.db.WithContext(ctx).
		Order("updated_at DESC, id DESC").
		First(&out)
	return &out, res.Error
}

func (r *ExchangeRepository) Append(ctx context.Context, rate *exchangeDomain.Rate) error {
	return r.db.WithContext(ctx).Create(rate).Error
}
