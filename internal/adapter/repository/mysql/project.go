package mysql

import (
	"context"

	projectDomain "github.com/jhonidlcb/softwarepar/internal/domain/project"

	"gorm.io/gorm"
)

type ProjectRepository struct{ db *gorm.DB }

func NewProjectRepository(db *gorm.DB) *ProjectRepository { return &ProjectRepository{db: db} }

func (r *ProjectRepository) GetByID(ctx context.Context, id uint64) (*projectDomain.Project, error) {
	var out projectDomain.Project
	res := r.db.WithContext(ctx).First(&out, "id = ?", id)
	return &out, res.Error
}

func (r *ProjectRepository) ListByClient(ctx context.Context, clientID uint64) ([]projectDomain.Project, error) {
	var out []projectDomain.Project
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("id ASC").
		Find(&out).Error
	return out, err
}

// HasTimeline backs the idempotent timeline seed: an existence query,
// not a unique constraint.
func (r *ProjectRepository) HasTimeline(ctx context.Context, projectID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&projectDomain.TimelineItem{}).
		Where("project_id = ?", projectID).
		Count(&count).Error
	return count > 0, err
}

func (r *ProjectRepository) CreateTimelineItems(ctx context.Context, items []projectDomain.TimelineItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}
