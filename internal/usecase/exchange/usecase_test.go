package exchange

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	domain "github.com/jhonidlcb/softwarepar/internal/domain/exchange"
)

type mockRateRepo struct {
	CurrentFn func(ctx context.Context) (*domain.Rate, error)
	AppendFn  func(ctx context.Context, r *domain.Rate) error
	calls     int
}

func (m *mockRateRepo) Current(ctx context.Context) (*domain.Rate, error) {
	m.calls++
	if m.CurrentFn != nil {
		return m.CurrentFn(ctx)
	}
	return nil, gorm.ErrRecordNotFound
}
func (m *mockRateRepo) Append(ctx context.Context, r *domain.Rate) error {
	if m.AppendFn != nil {
		return m.AppendFn(ctx, r)
	}
	return nil
}

func testRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestCurrent_DefaultSentinelWhenUnconfigured(t *testing.T) {
	uc := NewUsecase(&mockRateRepo{}, testRedis(t), zap.NewNop())

	dto, err := uc.Current(context.Background())
	if err != nil {
		t.Fatalf("Current err: %v", err)
	}
	if dto.UsdToGuarani != domain.DefaultUsdToGuarani || !dto.IsDefault {
		t.Fatalf("dto=%+v", dto)
	}
	if dto.UpdatedBy != nil || dto.UpdatedAt != nil {
		t.Errorf("default sentinel must carry no author/timestamp")
	}
}

func TestCurrent_CachesUntilInvalidated(t *testing.T) {
	repo := &mockRateRepo{
		CurrentFn: func(ctx context.Context) (*domain.Rate, error) {
			return &domain.Rate{ID: 1, UsdToGuarani: "7450.00", UpdatedBy: 1, UpdatedAt: time.Now().UTC()}, nil
		},
	}
	uc := NewUsecase(repo, testRedis(t), zap.NewNop())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		dto, err := uc.Current(ctx)
		if err != nil {
			t.Fatalf("Current err: %v", err)
		}
		if dto.UsdToGuarani != "7450.00" {
			t.Fatalf("rate=%s", dto.UsdToGuarani)
		}
	}
	if repo.calls != 1 {
		t.Fatalf("repo hit %d times, want 1 (cache miss only)", repo.calls)
	}

	if _, err := uc.Update(ctx, 1, "7500"); err != nil {
		t.Fatalf("Update err: %v", err)
	}
	repo.CurrentFn = func(ctx context.Context) (*domain.Rate, error) {
		return &domain.Rate{ID: 2, UsdToGuarani: "7500.00", UpdatedBy: 1, UpdatedAt: time.Now().UTC()}, nil
	}
	dto, err := uc.Current(ctx)
	if err != nil {
		t.Fatalf("Current err: %v", err)
	}
	if dto.UsdToGuarani != "7500.00" {
		t.Fatalf("stale rate after invalidation: %s", dto.UsdToGuarani)
	}
}

func TestCurrent_RestoresScaleDroppedByDriver(t *testing.T) {
	// sqlite's numeric affinity reads "7500.00" back as 7500; the DTO
	// must still carry two decimals.
	repo := &mockRateRepo{
		CurrentFn: func(ctx context.Context) (*domain.Rate, error) {
			return &domain.Rate{ID: 1, UsdToGuarani: "7500", UpdatedBy: 1, UpdatedAt: time.Now().UTC()}, nil
		},
	}
	uc := NewUsecase(repo, testRedis(t), zap.NewNop())

	dto, err := uc.Current(context.Background())
	if err != nil {
		t.Fatalf("Current err: %v", err)
	}
	if dto.UsdToGuarani != "7500.00" {
		t.Fatalf("rate=%s", dto.UsdToGuarani)
	}
}

func TestUpdate_RejectsNonPositiveRates(t *testing.T) {
	uc := NewUsecase(&mockRateRepo{
		AppendFn: func(ctx context.Context, r *domain.Rate) error {
			t.Fatal("append must not run for invalid rates")
			return nil
		},
	}, testRedis(t), zap.NewNop())

	for _, raw := range []string{"", "abc", "0", "-10"} {
		if _, err := uc.Update(context.Background(), 1, raw); !errors.Is(err, domain.ErrInvalidRate) {
			t.Errorf("rate %q: err=%v", raw, err)
		}
	}
}

func TestUpdate_NormalizesToTwoDecimals(t *testing.T) {
	var saved *domain.Rate
	uc := NewUsecase(&mockRateRepo{
		AppendFn: func(ctx context.Context, r *domain.Rate) error { saved = r; return nil },
	}, testRedis(t), zap.NewNop())

	dto, err := uc.Update(context.Background(), 3, "7321.5")
	if err != nil {
		t.Fatalf("Update err: %v", err)
	}
	if saved == nil || saved.UsdToGuarani != "7321.50" {
		t.Fatalf("saved=%+v", saved)
	}
	if dto.IsDefault {
		t.Errorf("explicit rate flagged as default")
	}
}
