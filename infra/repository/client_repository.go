package repository

import (
	"context"
	"strings"
	"time"

	"github.com/amirasaad/bankmanager/infra/repository/model"
	"github.com/amirasaad/bankmanager/pkg/domain"
	"github.com/amirasaad/bankmanager/pkg/domain/client"
	"github.com/amirasaad/bankmanager/pkg/dto"
	repoclient "github.com/amirasaad/bankmanager/pkg/repository/client"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type clientRepository struct {
	db *gorm.DB
}

// NewClientRepository creates a client repository on db.
func NewClientRepository(db *gorm.DB) repoclient.Repository {
	return &clientRepository{db: db}
}

func (r *clientRepository) Create(ctx context.Context, c *client.Client) error {
	return WrapError(func() error {
		return r.db.WithContext(ctx).Create(model.ClientFromDomain(c)).Error
	})
}

func (r *clientRepository) Update(ctx context.Context, c *client.Client) error {
	now := time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&model.Client{}).
		Where("id = ? AND version = ?", c.ID, c.Version).
		Updates(map[string]any{
			"nom":        c.Nom,
			"prenom":     c.Prenom,
			"email":      c.Email,
			"telephone":  c.Telephone,
			"adresse":    c.Adresse,
			"password":   c.PasswordHash,
			"nci":        c.NCI,
			"is_active":  c.IsActive,
			"version":    c.Version + 1,
			"updated_at": now,
		})
	if res.Error != nil {
		return MapGormErrorToDomain(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrVersionConflict.WithDetails(map[string]any{"client": c.ID.String()})
	}
	c.Version++
	c.UpdatedAt = now
	return nil
}

func (r *clientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.Client{}, "id = ?", id)
	if res.Error != nil {
		return MapGormErrorToDomain(res.Error)
	}
	if res.RowsAffected == 0 {
		return client.ErrClientNotFound
	}
	return nil
}

func (r *clientRepository) Get(ctx context.Context, id uuid.UUID) (*client.Client, error) {
	var row model.Client
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, NotFoundAs(err, client.ErrClientNotFound)
	}
	return row.ToDomain(), nil
}

func (r *clientRepository) List(ctx context.Context, f dto.ClientFilter) ([]*client.Client, int64, error) {
	f.PageRequest = f.PageRequest.Normalize()
	scope := func(q *gorm.DB) *gorm.DB {
		if s := strings.TrimSpace(f.Search); s != "" {
			like := "%" + strings.ToLower(s) + "%"
			q = q.Where("(LOWER(nom) LIKE ? OR LOWER(prenom) LIKE ? OR LOWER(email) LIKE ? OR telephone LIKE ?)",
				like, like, like, like)
		}
		return q
	}
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Client{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, MapGormErrorToDomain(err)
	}
	var rows []model.Client
	if err := r.db.WithContext(ctx).Scopes(scope).
		Order("created_at DESC").Order("id").
		Offset(f.Offset()).Limit(f.Limit).
		Find(&rows).Error; err != nil {
		return nil, 0, MapGormErrorToDomain(err)
	}
	out := make([]*client.Client, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].ToDomain())
	}
	return out, total, nil
}

func (r *clientRepository) EmailTaken(ctx context.Context, email string, except uuid.UUID) (bool, error) {
	return r.taken(ctx, "LOWER(email) = ?", strings.ToLower(email), except)
}

func (r *clientRepository) PhoneTaken(ctx context.Context, phone string, except uuid.UUID) (bool, error) {
	return r.taken(ctx, "telephone = ?", phone, except)
}

func (r *clientRepository) NCITaken(ctx context.Context, nci string, except uuid.UUID) (bool, error) {
	return r.taken(ctx, "nci = ?", nci, except)
}

func (r *clientRepository) taken(ctx context.Context, cond string, value string, except uuid.UUID) (bool, error) {
	q := r.db.WithContext(ctx).Model(&model.Client{}).Where(cond, value)
	if except != uuid.Nil {
		q = q.Where("id <> ?", except)
	}
	var count int64
	err := q.Count(&count).Error
	return count > 0, MapGormErrorToDomain(err)
}
