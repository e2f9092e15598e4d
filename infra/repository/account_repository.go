package repository

import (
	"context"
	"strings"
	"time"

	"github.com/amirasaad/bankmanager/infra/repository/model"
	"github.com/amirasaad/bankmanager/pkg/domain"
	"github.com/amirasaad/bankmanager/pkg/domain/account"
	"github.com/amirasaad/bankmanager/pkg/dto"
	repoaccount "github.com/amirasaad/bankmanager/pkg/repository/account"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates an account repository on db.
func NewAccountRepository(db *gorm.DB) repoaccount.Repository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(ctx context.Context, a *account.Account) error {
	row := model.CompteFromDomain(a)
	return WrapError(func() error {
		return r.db.WithContext(ctx).Create(row).Error
	})
}

func (r *accountRepository) Update(ctx context.Context, a *account.Account) error {
	now := time.Now().UTC()
	var deletedAt any
	if a.DeletedAt != nil {
		deletedAt = *a.DeletedAt
	}
	res := r.db.WithContext(ctx).
		Unscoped().
		Model(&model.Compte{}).
		Where("id = ? AND version = ?", a.ID, a.Version).
		Updates(map[string]any{
			"type":                  string(a.Type),
			"statut":                string(a.Status),
			"devise":                a.Currency,
			"motif_blocage":         nullable(a.BlockReason),
			"date_blocage":          a.BlockedAt,
			"date_deblocage_prevue": a.UnblockAt,
			"date_fermeture":        a.ClosedAt,
			"client_id":             a.ClientID,
			"version":               a.Version + 1,
			"updated_at":            now,
			"deleted_at":            deletedAt,
		})
	if res.Error != nil {
		return MapGormErrorToDomain(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrVersionConflict.WithDetails(map[string]any{"numeroCompte": a.Number})
	}
	a.Version++
	a.UpdatedAt = now
	return nil
}

func (r *accountRepository) Get(ctx context.Context, id uuid.UUID, scope repoaccount.Scope) (*account.Account, error) {
	return r.first(ctx, scope, "id = ?", id)
}

func (r *accountRepository) GetByNumber(ctx context.Context, number string, scope repoaccount.Scope) (*account.Account, error) {
	return r.first(ctx, scope, "numero_compte = ?", number)
}

func (r *accountRepository) first(ctx context.Context, scope repoaccount.Scope, query string, arg any) (*account.Account, error) {
	q := r.db.WithContext(ctx)
	if scope.IncludeDeleted {
		q = q.Unscoped()
	}
	if scope.ForUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var row model.Compte
	if err := q.Where(query, arg).First(&row).Error; err != nil {
		return nil, NotFoundAs(err, account.ErrAccountNotFound)
	}
	holders, err := r.holders(ctx, []uuid.UUID{row.ClientID})
	if err != nil {
		return nil, err
	}
	return row.ToDomain(holders[row.ClientID]), nil
}

func (r *accountRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Unscoped().Model(&model.Compte{}).
		Where("numero_compte = ?", number).Count(&count).Error
	return count > 0, MapGormErrorToDomain(err)
}

func (r *accountRepository) List(ctx context.Context, f dto.AccountFilter) ([]*account.Account, int64, error) {
	f.PageRequest = f.PageRequest.Normalize()

	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Compte{}).
		Scopes(r.filter(f)).
		Count(&total).Error; err != nil {
		return nil, 0, MapGormErrorToDomain(err)
	}

	var rows []model.Compte
	if err := r.db.WithContext(ctx).
		Scopes(r.filter(f)).
		Order(orderBy(f)).
		Order("id").
		Offset(f.Offset()).
		Limit(f.Limit).
		Find(&rows).Error; err != nil {
		return nil, 0, MapGormErrorToDomain(err)
	}
	out, err := r.toDomain(ctx, rows)
	return out, total, err
}

// filter applies the listing defaults: only actif accounts unless a status
// is requested.
func (r *accountRepository) filter(f dto.AccountFilter) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		status := f.Status
		if status == "" {
			status = account.Actif
		}
		q = q.Where("statut = ?", string(status))
		if f.Type != "" {
			q = q.Where("type = ?", string(f.Type))
		}
		if s := strings.TrimSpace(f.Search); s != "" {
			like := "%" + strings.ToLower(s) + "%"
			clients := r.db.Session(&gorm.Session{NewDB: true}).
				Model(&model.Client{}).
				Select("id").
				Where("LOWER(nom) LIKE ? OR LOWER(prenom) LIKE ? OR LOWER(email) LIKE ?", like, like, like)
			q = q.Where("(LOWER(numero_compte) LIKE ? OR client_id IN (?))", like, clients)
		}
		return q
	}
}

func orderBy(f dto.AccountFilter) string {
	dir := " DESC"
	if !f.Descending() {
		dir = " ASC"
	}
	switch f.Sort {
	case dto.SortSolde:
		return "solde" + dir
	case dto.SortTitulaire:
		return "(SELECT nom FROM clients WHERE clients.id = comptes.client_id)" + dir
	default:
		return "created_at" + dir
	}
}

func (r *accountRepository) ListExpiredBlocked(ctx context.Context, now time.Time) ([]*account.Account, error) {
	var rows []model.Compte
	err := r.db.WithContext(ctx).
		Where("statut = ?", string(account.Bloque)).
		Where("date_deblocage_prevue IS NOT NULL AND date_deblocage_prevue <= ?", now.UTC()).
		Order("date_deblocage_prevue").
		Find(&rows).Error
	if err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	return r.toDomain(ctx, rows)
}

func (r *accountRepository) AdjustBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error {
	res := r.db.WithContext(ctx).Unscoped().Model(&model.Compte{}).
		Where("id = ?", id).
		UpdateColumn("solde", gorm.Expr("solde + ?", delta))
	if res.Error != nil {
		return MapGormErrorToDomain(res.Error)
	}
	if res.RowsAffected == 0 {
		return account.ErrAccountNotFound
	}
	return nil
}

func (r *accountRepository) SetCachedBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error {
	res := r.db.WithContext(ctx).Unscoped().Model(&model.Compte{}).
		Where("id = ?", id).
		UpdateColumn("solde", balance)
	if res.Error != nil {
		return MapGormErrorToDomain(res.Error)
	}
	if res.RowsAffected == 0 {
		return account.ErrAccountNotFound
	}
	return nil
}

func (r *accountRepository) IDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Unscoped().Model(&model.Compte{}).Order("created_at").Pluck("id", &ids).Error
	return ids, MapGormErrorToDomain(err)
}

func (r *accountRepository) toDomain(ctx context.Context, rows []model.Compte) ([]*account.Account, error) {
	ids := make([]uuid.UUID, 0, len(rows))
	for i := range rows {
		ids = append(ids, rows[i].ClientID)
	}
	holders, err := r.holders(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]*account.Account, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].ToDomain(holders[rows[i].ClientID]))
	}
	return out, nil
}

// holders resolves client names; unknown clients map to "".
func (r *accountRepository) holders(ctx context.Context, clientIDs []uuid.UUID) (map[uuid.UUID]string, error) {
	out := make(map[uuid.UUID]string, len(clientIDs))
	if len(clientIDs) == 0 {
		return out, nil
	}
	var clients []model.Client
	if err := r.db.WithContext(ctx).
		Select("id", "nom", "prenom").
		Where("id IN ?", clientIDs).
		Find(&clients).Error; err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	for i := range clients {
		out[clients[i].ID] = clients[i].FullName()
	}
	return out, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
