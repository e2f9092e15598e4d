package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/amirasaad/bankmanager/infra/repository/model"
	"github.com/amirasaad/bankmanager/pkg/domain"
	"github.com/amirasaad/bankmanager/pkg/domain/admin"
	"github.com/amirasaad/bankmanager/pkg/dto"
	repoadmin "github.com/amirasaad/bankmanager/pkg/repository/admin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type adminRepository struct {
	db *gorm.DB
}

// NewAdminRepository creates an admin repository on db.
func NewAdminRepository(db *gorm.DB) repoadmin.Repository {
	return &adminRepository{db: db}
}

func (r *adminRepository) Create(ctx context.Context, a *admin.Admin) error {
	err := WrapError(func() error {
		return r.db.WithContext(ctx).Create(model.AdminFromDomain(a)).Error
	})
	if errors.Is(err, domain.ErrAlreadyExists) {
		return admin.ErrEmailTaken
	}
	return err
}

func (r *adminRepository) Update(ctx context.Context, a *admin.Admin) error {
	a.UpdatedAt = time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&model.Admin{}).
		Where("id = ?", a.ID).
		Updates(map[string]any{
			"nom":          a.Nom,
			"email":        a.Email,
			"mot_de_passe": a.PasswordHash,
			"updated_at":   a.UpdatedAt,
		})
	if err := MapGormErrorToDomain(res.Error); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return admin.ErrEmailTaken
		}
		return err
	}
	if res.RowsAffected == 0 {
		return admin.ErrAdminNotFound
	}
	return nil
}

func (r *adminRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.Admin{}, "id = ?", id)
	if res.Error != nil {
		return MapGormErrorToDomain(res.Error)
	}
	if res.RowsAffected == 0 {
		return admin.ErrAdminNotFound
	}
	return nil
}

func (r *adminRepository) Get(ctx context.Context, id uuid.UUID) (*admin.Admin, error) {
	var row model.Admin
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, NotFoundAs(err, admin.ErrAdminNotFound)
	}
	return row.ToDomain(), nil
}

func (r *adminRepository) GetByEmail(ctx context.Context, email string) (*admin.Admin, error) {
	var row model.Admin
	if err := r.db.WithContext(ctx).Where("LOWER(email) = ?", strings.ToLower(email)).First(&row).Error; err != nil {
		return nil, NotFoundAs(err, admin.ErrAdminNotFound)
	}
	return row.ToDomain(), nil
}

func (r *adminRepository) List(ctx context.Context, page dto.PageRequest) ([]*admin.Admin, int64, error) {
	page = page.Normalize()
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Admin{}).Count(&total).Error; err != nil {
		return nil, 0, MapGormErrorToDomain(err)
	}
	var rows []model.Admin
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").Order("id").
		Offset(page.Offset()).Limit(page.Limit).
		Find(&rows).Error; err != nil {
		return nil, 0, MapGormErrorToDomain(err)
	}
	out := make([]*admin.Admin, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].ToDomain())
	}
	return out, total, nil
}
