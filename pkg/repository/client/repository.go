package client

import (
	"context"

	"github.com/amirasaad/bankmanager/pkg/domain/client"
	"github.com/amirasaad/bankmanager/pkg/dto"
	"github.com/google/uuid"
)

// Repository defines client data access.
type Repository interface {
	Create(ctx context.Context, c *client.Client) error

	// Update is guarded by c.Version like account updates.
	Update(ctx context.Context, c *client.Client) error
	Delete(ctx context.Context, id uuid.UUID) error

	Get(ctx context.Context, id uuid.UUID) (*client.Client, error)
	List(ctx context.Context, filter dto.ClientFilter) ([]*client.Client, int64, error)

	// Uniqueness probes. except is ignored when uuid.Nil.
	EmailTaken(ctx context.Context, email string, except uuid.UUID) (bool, error)
	PhoneTaken(ctx context.Context, phone string, except uuid.UUID) (bool, error)
	NCITaken(ctx context.Context, nci string, except uuid.UUID) (bool, error)
}
