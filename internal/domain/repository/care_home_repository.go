package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/clearviewcare/carehome-server/internal/domain/entity"
	"github.com/clearviewcare/carehome-server/internal/domain/model"
)

// CareHomeRepository provides access to care homes. Every read takes the
// caller's scope; an empty scope yields zero rows without a query.
type CareHomeRepository interface {
	Create(ctx context.Context, home *model.CareHome) error
	GetByID(ctx context.Context, scope entity.Scope, id uuid.UUID) (*model.CareHome, error)
	Update(ctx context.Context, home *model.CareHome) error
	List(ctx context.Context, scope entity.Scope, filter entity.CareHomeFilter) ([]model.CareHome, int64, error)
	Count(ctx context.Context, scope entity.Scope) (int64, error)
}

// ClientRepository provides access to clients (residents).
type ClientRepository interface {
	Create(ctx context.Context, client *model.Client) error
	GetByID(ctx context.Context, scope entity.Scope, id uuid.UUID) (*model.Client, error)
	Update(ctx context.Context, client *model.Client) error
	List(ctx context.Context, scope entity.Scope, filter entity.ClientFilter) ([]model.Client, int64, error)
	CountActive(ctx context.Context, scope entity.Scope) (int64, error)
}
