package project

import "context"

type Repository interface {
	GetByID(ctx context.Context, id uint64) (*Project, error)
	ListByClient(ctx context.Context, clientID uint64) ([]Project, error)
	HasTimeline(ctx context.Context, projectID uint64) (bool, error)
	CreateTimelineItems(ctx context.Context, items []TimelineItem) error
}
