// Package client provides client management operations.
package client

import (
	"context"
	"log/slog"
	"strings"

	"github.com/amirasaad/bankmanager/pkg/domain"
	"github.com/amirasaad/bankmanager/pkg/domain/client"
	"github.com/amirasaad/bankmanager/pkg/dto"
	"github.com/amirasaad/bankmanager/pkg/repository"
	repoclient "github.com/amirasaad/bankmanager/pkg/repository/client"
	"github.com/google/uuid"
)

// Service provides client operations.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// New creates a new Service.
func New(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{uow: uow, logger: logger}
}

// CreateRequest carries the fields of a new client. Empty Password and NCI
// are generated.
type CreateRequest struct {
	client.Profile
	Password string
	NCI      string
}

// Create registers a client after checking its contact details are free.
func (s *Service) Create(ctx context.Context, req CreateRequest) (c *client.Client, err error) {
	password := req.Password
	if password == "" {
		password = client.GeneratePassword()
	}
	nci := req.NCI
	if nci == "" {
		nci = client.GenerateNCI()
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		clients, err := uow.ClientRepository()
		if err != nil {
			return err
		}
		c, err = client.New(req.Profile, password, nci)
		if err != nil {
			return err
		}
		if err := checkUnique(ctx, clients, c); err != nil {
			return err
		}
		return clients.Create(ctx, c)
	})
	if err != nil {
		s.logger.Warn("Client creation failed", "error", err)
		return nil, err
	}
	s.logger.Info("Client created", "client_id", c.ID)
	return c, nil
}

// Get returns a client by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (c *client.Client, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		clients, err := uow.ClientRepository()
		if err != nil {
			return err
		}
		c, err = clients.Get(ctx, id)
		return err
	})
	return
}

// List returns one page of clients, newest first.
func (s *Service) List(ctx context.Context, filter dto.ClientFilter) (page dto.Page[*client.Client], err error) {
	filter.PageRequest = filter.PageRequest.Normalize()
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		clients, err := uow.ClientRepository()
		if err != nil {
			return err
		}
		items, total, err := clients.List(ctx, filter)
		if err != nil {
			return err
		}
		page = dto.Page[*client.Client]{Items: items, Pagination: dto.NewPagination(filter.PageRequest, total)}
		return nil
	})
	return
}

// Patch lists the editable client fields. Nil means unchanged.
type Patch struct {
	Titulaire *string
	Email     *string
	Telephone *string
	Adresse   *string
	Password  *string
	IsActive  *bool
}

// Update applies p to the client.
func (s *Service) Update(ctx context.Context, id uuid.UUID, p Patch) (c *client.Client, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		clients, err := uow.ClientRepository()
		if err != nil {
			return err
		}
		c, err = clients.Get(ctx, id)
		if err != nil {
			return err
		}
		if p.Titulaire != nil {
			if err := c.Rename(*p.Titulaire); err != nil {
				return err
			}
		}
		if p.Email != nil {
			c.Email = strings.ToLower(strings.TrimSpace(*p.Email))
		}
		if p.Telephone != nil {
			if !client.ValidPhone(*p.Telephone) {
				return domain.NewValidationError(map[string]string{
					"telephone": "Le téléphone doit être au format +221XXXXXXXXX",
				})
			}
			c.Telephone = *p.Telephone
		}
		if p.Adresse != nil {
			c.Adresse = *p.Adresse
		}
		if p.IsActive != nil {
			c.IsActive = *p.IsActive
		}
		if p.Password != nil {
			if err := c.SetPassword(*p.Password); err != nil {
				return err
			}
		}
		if err := checkUnique(ctx, clients, c); err != nil {
			return err
		}
		return clients.Update(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Client updated", "client_id", c.ID, "version", c.Version)
	return c, nil
}

// Delete removes a client.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		clients, err := uow.ClientRepository()
		if err != nil {
			return err
		}
		return clients.Delete(ctx, id)
	})
	if err == nil {
		s.logger.Info("Client deleted", "client_id", id)
	}
	return err
}

func checkUnique(ctx context.Context, clients repoclient.Repository, c *client.Client) error {
	if taken, err := clients.EmailTaken(ctx, c.Email, c.ID); err != nil {
		return err
	} else if taken {
		return client.ErrEmailTaken.WithDetails(map[string]any{"email": c.Email})
	}
	if taken, err := clients.PhoneTaken(ctx, c.Telephone, c.ID); err != nil {
		return err
	} else if taken {
		return client.ErrPhoneTaken.WithDetails(map[string]any{"telephone": c.Telephone})
	}
	if taken, err := clients.NCITaken(ctx, c.NCI, c.ID); err != nil {
		return err
	} else if taken {
		return client.ErrNCITaken.WithDetails(map[string]any{"nci": c.NCI})
	}
	return nil
}
