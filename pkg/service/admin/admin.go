// Package admin provides back-office operator management.
package admin

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/amirasaad/bankmanager/pkg/domain"
	"github.com/amirasaad/bankmanager/pkg/domain/admin"
	"github.com/amirasaad/bankmanager/pkg/dto"
	"github.com/amirasaad/bankmanager/pkg/repository"
	"github.com/amirasaad/bankmanager/pkg/utils"
	"github.com/google/uuid"
)

type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

func New(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{uow: uow, logger: logger}
}

func (s *Service) Create(ctx context.Context, nom, email, password string) (a *admin.Admin, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AdminRepository()
		if err != nil {
			return err
		}
		a, err = admin.New(nom, email, password)
		if err != nil {
			return err
		}
		return repo.Create(ctx, a)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Admin created", "admin_id", a.ID)
	return a, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (a *admin.Admin, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AdminRepository()
		if err != nil {
			return err
		}
		a, err = repo.Get(ctx, id)
		return err
	})
	return
}

func (s *Service) List(ctx context.Context, page dto.PageRequest) (out dto.Page[*admin.Admin], err error) {
	page = page.Normalize()
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AdminRepository()
		if err != nil {
			return err
		}
		items, total, err := repo.List(ctx, page)
		if err != nil {
			return err
		}
		out = dto.Page[*admin.Admin]{Items: items, Pagination: dto.NewPagination(page, total)}
		return nil
	})
	return
}

// Patch lists the editable admin fields. Nil means unchanged.
type Patch struct {
	Nom      *string
	Email    *string
	Password *string
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, p Patch) (a *admin.Admin, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AdminRepository()
		if err != nil {
			return err
		}
		a, err = repo.Get(ctx, id)
		if err != nil {
			return err
		}
		fields := map[string]string{}
		if p.Nom != nil {
			if strings.TrimSpace(*p.Nom) == "" {
				fields["nom"] = "Le nom est requis"
			}
			a.Nom = strings.TrimSpace(*p.Nom)
		}
		if p.Email != nil {
			if !utils.IsEmail(*p.Email) {
				fields["email"] = "L'email doit être valide"
			}
			a.Email = strings.ToLower(*p.Email)
		}
		if len(fields) > 0 {
			return domain.NewValidationError(fields)
		}
		if p.Password != nil {
			if err := a.SetPassword(*p.Password); err != nil {
				return err
			}
		}
		return repo.Update(ctx, a)
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AdminRepository()
		if err != nil {
			return err
		}
		return repo.Delete(ctx, id)
	})
}

// EnsureDefault creates the admin unless one with the same e-mail exists.
// It reports whether an admin was created.
func (s *Service) EnsureDefault(ctx context.Context, nom, email, password string) (created bool, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AdminRepository()
		if err != nil {
			return err
		}
		_, err = repo.GetByEmail(ctx, email)
		if err == nil {
			return nil
		}
		if !errors.Is(err, admin.ErrAdminNotFound) {
			return err
		}
		a, err := admin.New(nom, email, password)
		if err != nil {
			return err
		}
		created = true
		return repo.Create(ctx, a)
	})
	if err != nil {
		created = false
		return
	}
	if created {
		s.logger.Info("Default admin seeded", "email", email)
	}
	return
}
