package notification

import "context"

type Repository interface {
	Create(ctx context.Context, n *Notification) error
	ListByUser(ctx context.Context, userID uint64) ([]Notification, error)
	MarkRead(ctx context.Context, id uint64) error
}
