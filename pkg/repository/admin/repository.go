package admin

import (
	"context"

	"github.com/amirasaad/bankmanager/pkg/domain/admin"
	"github.com/amirasaad/bankmanager/pkg/dto"
	"github.com/google/uuid"
)

// Repository defines admin data access.
type Repository interface {
	Create(ctx context.Context, a *admin.Admin) error
	Update(ctx context.Context, a *admin.Admin) error
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*admin.Admin, error)
	GetByEmail(ctx context.Context, email string) (*admin.Admin, error)
	List(ctx context.Context, page dto.PageRequest) ([]*admin.Admin, int64, error)
}
