package uow

import (
	"context"

	"github.com/jhonidlcb/softwarepar/internal/domain/project"
	"github.com/jhonidlcb/softwarepar/internal/domain/stage"
)

type Repos struct {
	Stages   stage.Repository
	Projects project.Repository
}

// UnitOfWork scopes multi-row writes (bulk stage creation plus the
// timeline seed) to one database transaction. Notification and email
// side effects stay outside on purpose: state durability is not
// coupled to delivery.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(r Repos) error) error
}
