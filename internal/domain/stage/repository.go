package stage

import "context"

type Repository interface {
	Create(ctx context.Context, s *PaymentStage) error
	GetByID(ctx context.Context, id uint64) (*PaymentStage, error)
	ListByProject(ctx context.Context, projectID uint64) ([]PaymentStage, error)
	ListByProjects(ctx context.Context, projectIDs []uint64) ([]PaymentStage, error)
	Save(ctx context.Context, s *PaymentStage) error
	UpdateFields(ctx context.Context, id uint64, fields map[string]any) error

	// TransitionStatus performs the status change as a single conditional
	// UPDATE ("... WHERE id = ? AND status IN ?") so that of two racing
	// admins at most one wins. Returns ErrInvalidTransition when the row
	// exists but is not in an allowed source status, ErrNotFound when it
	// does not exist.
	TransitionStatus(ctx context.Context, id uint64, from []Status, to Status, fields map[string]any) error
}
