package notification

import (
	"context"

	domain "github.com/jhonidlcb/softwarepar/internal/domain/notification"
)

type Usecase struct {
	repo domain.Repository
}

func NewUsecase(repo domain.Repository) *Usecase {
	return &Usecase{repo: repo}
}

func (u *Usecase) List(ctx context.Context, userID uint64) ([]domain.Notification, error) {
	return u.repo.ListByUser(ctx, userID)
}

func (u *Usecase) MarkRead(ctx context.Context, id uint64) error {
	return u.repo.MarkRead(ctx, id)
}
