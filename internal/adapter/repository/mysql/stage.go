package mysql

import (
	"context"
	"errors"

	stageDomain "github.com/jhonidlcb/softwarepar/internal/domain/stage"

	"gorm.io/gorm"
)

type StageRepository struct{ db *gorm.DB }

func NewStageRepository(db *gorm.DB) *StageRepository { return &StageRepository{db: db} }

func (r *StageRepository) Create(ctx context.Context, s *stageDomain.PaymentStage) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *StageRepository) GetByID(ctx context.Context, id uint64) (*stageDomain.PaymentStage, error) {
	var out stageDomain.PaymentStage
	res := r.db.WithContext(ctx).First(&out, "id = ?", id)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, stageDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *StageRepository) ListByProject(ctx context.Context, projectID uint64) ([]stageDomain.PaymentStage, error) {
	var out []stageDomain.PaymentStage
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("required_progress ASC, id ASC").
		Find(&out).Error
	return out, err
}

func (r *StageRepository) ListByProjects(ctx context.Context, projectIDs []uint64) ([]stageDomain.PaymentStage, error) {
	if len(projectIDs) == 0 {
		return nil, nil
	}
	var out []stageDomain.PaymentStage
	err := r.db.WithContext(ctx).
		Where("project_id IN ?", projectIDs).
		Order("project_id ASC, required_progress ASC, id ASC").
		Find(&out).Error
	return out, err
}

func (r *StageRepository) Save(ctx context.Context, s *stageDomain.PaymentStage) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *StageRepository) UpdateFields(ctx context.Context, id uint64, fields map[string]any) error {
	res := r.db.WithContext(ctx).
		Model(&stageDomain.PaymentStage{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return stageDomain.ErrNotFound
	}
	return nil
}

// TransitionStatus is the compare-and-swap behind approve/reject: the
// status change and its guard run as one UPDATE, so two racing admins
// cannot both pass a read-then-write check.
func (r *StageRepository) TransitionStatus(ctx context.Context, id uint64, from []stageDomain.Status, to stageDomain.Status, fields map[string]any) error {
	updates := map[string]any{"status": to}
	for k, v := range fields {
		updates[k] = v
	}
	res := r.db.WithContext(ctx).
		Model(&stageDomain.PaymentStage{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Distinguish missing row from wrong-state row.
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&stageDomain.PaymentStage{}).
			Where("id = ?", id).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return stageDomain.ErrNotFound
		}
		return stageDomain.ErrInvalidTransition
	}
	return nil
}
