package exchange

import "context"

type Repository interface {
	// Current returns the most recent rate row, or gorm.ErrRecordNotFound
	// when none has ever been configured.
	Current(ctx context.Context) (*Rate, error)
	// Append inserts a new rate row; prior rows are kept as history.
	Append(ctx context.Context, r *Rate) error
}
