package exchange

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	domain "github.com/jhonidlcb/softwarepar/internal/domain/exchange"
)

const (
	cacheKey = "exchange:current"
	cacheTTL = 5 * time.Minute
)

// RateDTO is the API shape of the current rate. IsDefault marks the
// sentinel served when no rate has ever been configured; such a
// response carries no author or timestamp.
type RateDTO struct {
	UsdToGuarani string     `json:"usdToGuarani"`
	UpdatedBy    *uint64    `json:"updatedBy,omitempty"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty"`
	IsDefault    bool       `json:"isDefault"`
}

type Usecase struct {
	repo domain.Repository
	rdb  *redis.Client
	log  *zap.Logger
}

func NewUsecase(repo domain.Repository, rdb *redis.Client, log *zap.Logger) *Usecase {
	return &Usecase{repo: repo, rdb: rdb, log: log}
}

// Current serves the most recent rate, cached in redis for a short
// window. Cache failures degrade to the database, never to an error.
func (u *Usecase) Current(ctx context.Context) (*RateDTO, error) {
	if u.rdb != nil {
		raw, err := u.rdb.Get(ctx, cacheKey).Result()
		if err == nil {
			var dto RateDTO
			if json.Unmarshal([]byte(raw), &dto) == nil {
				return &dto, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			u.log.Warn("exchange: cache read failed", zap.Error(err))
		}
	}

	dto, err := u.load(ctx)
	if err != nil {
		return nil, err
	}
	u.cache(ctx, dto)
	return dto, nil
}

func (u *Usecase) load(ctx context.Context) (*RateDTO, error) {
	r, err := u.repo.Current(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &RateDTO{UsdToGuarani: domain.DefaultUsdToGuarani, IsDefault: true}, nil
		}
		return nil, err
	}
	// Some drivers hand decimal columns back without their stored scale
	// (7500.00 reads as 7500); the API always serves two decimals.
	value := r.UsdToGuarani
	if d, perr := decimal.NewFromString(value); perr == nil {
		value = d.StringFixed(2)
	}
	return &RateDTO{
		UsdToGuarani: value,
		UpdatedBy:    &r.UpdatedBy,
		UpdatedAt:    &r.UpdatedAt,
	}, nil
}

func (u *Usecase) cache(ctx context.Context, dto *RateDTO) {
	if u.rdb == nil {
		return
	}
	raw, err := json.Marshal(dto)
	if err != nil {
		return
	}
	if err := u.rdb.Set(ctx, cacheKey, raw, cacheTTL).Err(); err != nil {
		u.log.Warn("exchange: cache write failed", zap.Error(err))
	}
}

// CurrentRate exposes the current rate as a decimal for currency
// conversion (invoice rendering goes through here).
func (u *Usecase) CurrentRate(ctx context.Context) (decimal.Decimal, error) {
	dto, err := u.Current(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromString(dto.UsdToGuarani)
}

// Update appends a new rate row (history is never overwritten) and
// invalidates the cached current rate.
func (u *Usecase) Update(ctx context.Context, adminID uint64, rate string) (*RateDTO, error) {
	d, err := decimal.NewFromString(rate)
	if err != nil || d.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidRate
	}

	r := &domain.Rate{UsdToGuarani: d.StringFixed(2), UpdatedBy: adminID}
	if err := u.repo.Append(ctx, r); err != nil {
		return nil, err
	}

	if u.rdb != nil {
		if err := u.rdb.Del(ctx, cacheKey).Err(); err != nil {
			u.log.Warn("exchange: cache invalidation failed", zap.Error(err))
		}
	}
	return &RateDTO{
		UsdToGuarani: r.UsdToGuarani,
		UpdatedBy:    &r.UpdatedBy,
		UpdatedAt:    &r.UpdatedAt,
	}, nil
}
