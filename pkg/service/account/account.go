// Package account provides the business logic of bank accounts: opening,
// listing, updates, the block/unblock/close transitions and balance reads.
//
// Every operation runs in one unit of work. Status transitions read the
// account row under FOR UPDATE and write it back with an optimistic version
// check, so two concurrent transitions cannot both succeed.
package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/amirasaad/bankmanager/pkg/archive"
	"github.com/amirasaad/bankmanager/pkg/config"
	"github.com/amirasaad/bankmanager/pkg/domain"
	"github.com/amirasaad/bankmanager/pkg/domain/account"
	"github.com/amirasaad/bankmanager/pkg/domain/client"
	"github.com/amirasaad/bankmanager/pkg/dto"
	"github.com/amirasaad/bankmanager/pkg/notification"
	"github.com/amirasaad/bankmanager/pkg/repository"
	repoaccount "github.com/amirasaad/bankmanager/pkg/repository/account"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	maxNumberAttempts = 10
	maxCurrencyLength = 10
	maxAddressLength  = 500
)

// Archive is the read side of the archive synchronizer.
type Archive interface {
	Lookup(ctx context.Context, key string) (*archive.Record, bool)
	ListArchived(ctx context.Context, page dto.PageRequest) dto.Page[archive.Record]
}

// Service provides account operations.
type Service struct {
	uow      repository.UnitOfWork
	archive  Archive
	notifier notification.Notifier
	cfg      *config.Account
	logger   *slog.Logger
	now      func() time.Time
}

// New creates a new Service.
func New(
	uow repository.UnitOfWork,
	archive Archive,
	notifier notification.Notifier,
	cfg *config.Account,
	logger *slog.Logger,
) *Service {
	if cfg == nil {
		cfg = &config.Account{DefaultCurrency: account.DefaultCurrency, MinInitialBalance: 10000}
	}
	return &Service{
		uow:      uow,
		archive:  archive,
		notifier: notifier,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock replaces the time source used for transitions.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// NewClient describes a client created together with its first account.
type NewClient struct {
	Titulaire string
	Email     string
	Telephone string
	Adresse   string
}

// OpenRequest carries the inputs of an account opening. Exactly one of
// ClientID and Client is expected; ClientID wins when both are set.
type OpenRequest struct {
	Type         account.Type
	SoldeInitial decimal.Decimal
	Devise       string
	ClientID     *uuid.UUID
	Client       *NewClient
}

// Opened is the result of an account opening.
type Opened struct {
	Account *account.Account
	Client  *client.Client
	// Provisioned is true when the client was created by this opening.
	Provisioned bool
}

func (s *Service) validateOpen(req OpenRequest) error {
	fields := map[string]string{}
	if !req.Type.Valid() {
		fields["type"] = "Le type doit être courant ou epargne"
	}
	if req.SoldeInitial.LessThan(decimal.NewFromInt(s.cfg.MinInitialBalance)) {
		fields["soldeInitial"] = fmt.Sprintf("Le solde initial doit être d'au moins %d", s.cfg.MinInitialBalance)
	}
	if utf8.RuneCountInString(req.Devise) > maxCurrencyLength {
		fields["devise"] = "La devise ne doit pas dépasser 10 caractères"
	}
	switch {
	case req.ClientID != nil:
	case req.Client == nil:
		fields["client"] = "Le client est requis"
	case utf8.RuneCountInString(req.Client.Adresse) > maxAddressLength:
		fields["client.adresse"] = "L'adresse ne doit pas dépasser 500 caractères"
	}
	if len(fields) > 0 {
		return domain.NewValidationError(fields)
	}
	return nil
}

// Open creates an account with its initial valide deposit, provisioning
// the client first when needed. A provisioned client receives its
// generated password by e-mail and its NCI by SMS once the transaction is
// committed; delivery failures are only logged.
func (s *Service) Open(ctx context.Context, req OpenRequest) (out *Opened, err error) {
	log := s.logger.With("operation", "open_account", "type", req.Type)
	if err = s.validateOpen(req); err != nil {
		return nil, err
	}
	devise := req.Devise
	if devise == "" {
		devise = s.cfg.DefaultCurrency
	}

	var password string
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		clients, err := uow.ClientRepository()
		if err != nil {
			return err
		}
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		txs, err := uow.TransactionRepository()
		if err != nil {
			return err
		}

		out = &Opened{}
		if req.ClientID != nil {
			if out.Client, err = clients.Get(ctx, *req.ClientID); err != nil {
				return err
			}
		} else {
			password = client.GeneratePassword()
			if out.Client, err = provisionClient(ctx, uow, *req.Client, password); err != nil {
				return err
			}
			out.Provisioned = true
		}

		number, err := uniqueNumber(ctx, accounts)
		if err != nil {
			return err
		}
		a, err := account.New().
			WithNumber(number).
			WithType(req.Type).
			WithCurrency(devise).
			WithClientID(out.Client.ID).
			Build()
		if err != nil {
			return err
		}
		a.Holder = out.Client.FullName()
		if err := accounts.Create(ctx, a); err != nil {
			return err
		}

		deposit, err := account.NewTransaction(a.ID, account.Depot, req.SoldeInitial, account.Valide, time.Time{})
		if err != nil {
			return err
		}
		if err := txs.Create(ctx, deposit); err != nil {
			return err
		}
		if err := accounts.AdjustBalance(ctx, a.ID, account.Effect(deposit)); err != nil {
			return err
		}
		a.CachedBalance = account.Effect(deposit)
		out.Account = a
		return nil
	})
	if err != nil {
		log.Error("Account opening failed", "error", err)
		return nil, err
	}
	log.Info("Account opened",
		"numero_compte", out.Account.Number,
		"client_id", out.Client.ID,
		"provisioned", out.Provisioned,
	)

	if out.Provisioned {
		c := out.Client
		msgs := []notification.Message{
			notification.Welcome(c.Email, c.FullName(), out.Account.Number, password),
			notification.VerificationCode(c.Telephone, c.NCI),
		}
		if err := s.notifier.Notify(ctx, msgs...); err != nil {
			log.Warn("Failed to send client notifications", "client_id", c.ID, "error", err)
		}
	}
	return out, nil
}

func provisionClient(ctx context.Context, uow repository.UnitOfWork, p NewClient, password string) (*client.Client, error) {
	clients, err := uow.ClientRepository()
	if err != nil {
		return nil, err
	}
	if taken, err := clients.EmailTaken(ctx, p.Email, uuid.Nil); err != nil {
		return nil, err
	} else if taken {
		return nil, client.ErrEmailTaken.WithDetails(map[string]any{"email": p.Email})
	}
	if taken, err := clients.PhoneTaken(ctx, p.Telephone, uuid.Nil); err != nil {
		return nil, err
	} else if taken {
		return nil, client.ErrPhoneTaken.WithDetails(map[string]any{"telephone": p.Telephone})
	}

	var nci string
	for range maxNumberAttempts {
		candidate := client.GenerateNCI()
		taken, err := clients.NCITaken(ctx, candidate, uuid.Nil)
		if err != nil {
			return nil, err
		}
		if !taken {
			nci = candidate
			break
		}
	}
	if nci == "" {
		return nil, errors.New("could not generate a unique NCI")
	}

	c, err := client.New(client.Profile{
		Titulaire: p.Titulaire,
		Email:     p.Email,
		Telephone: p.Telephone,
		Adresse:   p.Adresse,
	}, password, nci)
	if err != nil {
		return nil, err
	}
	if err := clients.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func uniqueNumber(ctx context.Context, accounts repoaccount.Repository) (string, error) {
	for range maxNumberAttempts {
		n := account.GenerateNumber()
		exists, err := accounts.ExistsByNumber(ctx, n)
		if err != nil {
			return "", err
		}
		if !exists {
			return n, nil
		}
	}
	return "", errors.New("could not generate a unique account number")
}

// View is an account as shown to API callers. Exactly one of Account and
// Archived is set.
type View struct {
	Account  *account.Account
	Balance  decimal.Decimal
	Archived *archive.Record
}

// Get returns the live account with its derived balance, or the archived
// record when the account is not held locally.
func (s *Service) Get(ctx context.Context, number string) (v *View, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		a, err := accounts.GetByNumber(ctx, number, repoaccount.Scope{})
		if err != nil {
			return err
		}
		balance, err := derivedBalance(ctx, uow, a.ID)
		if err != nil {
			return err
		}
		v = &View{Account: a, Balance: balance}
		return nil
	})
	if err == nil {
		return v, nil
	}
	if !errors.Is(err, account.ErrAccountNotFound) {
		return nil, err
	}
	if rec, ok := s.archive.Lookup(ctx, number); ok {
		s.logger.Debug("Account served from archive", "numero_compte", number)
		return &View{Archived: rec, Balance: rec.Solde}, nil
	}
	return nil, err
}

// List returns one page of accounts.
func (s *Service) List(ctx context.Context, filter dto.AccountFilter) (page dto.Page[*account.Account], err error) {
	filter.PageRequest = filter.PageRequest.Normalize()
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		items, total, err := accounts.List(ctx, filter)
		if err != nil {
			return err
		}
		page = dto.Page[*account.Account]{
			Items:      items,
			Pagination: dto.NewPagination(filter.PageRequest, total),
		}
		return nil
	})
	return
}

// ListArchived returns one page of archived savings accounts.
func (s *Service) ListArchived(ctx context.Context, page dto.PageRequest) dto.Page[archive.Record] {
	return s.archive.ListArchived(ctx, page)
}

// UpdateRequest lists the holder fields an update may change. Nil means
// unchanged.
type UpdateRequest struct {
	Titulaire *string
	Telephone *string
	Email     *string
	Password  *string
	NCI       *string
}

func (r UpdateRequest) empty() bool {
	return r.Titulaire == nil && r.Telephone == nil && r.Email == nil && r.Password == nil && r.NCI == nil
}

// Update changes the holder of an account. The client and the account both
// get a version bump.
func (s *Service) Update(ctx context.Context, number string, req UpdateRequest) (v *View, err error) {
	if req.empty() {
		return nil, domain.NewValidationError(map[string]string{
			"titulaire": "Au moins un champ doit être fourni",
		})
	}
	log := s.logger.With("operation", "update_account", "numero_compte", number)
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		clients, err := uow.ClientRepository()
		if err != nil {
			return err
		}
		a, err := accounts.GetByNumber(ctx, number, repoaccount.Scope{ForUpdate: true})
		if err != nil {
			return err
		}
		c, err := clients.Get(ctx, a.ClientID)
		if err != nil {
			return err
		}
		if err := applyClientUpdate(ctx, uow, c, req); err != nil {
			return err
		}
		if err := clients.Update(ctx, c); err != nil {
			return err
		}
		a.Holder = c.FullName()
		if err := accounts.Update(ctx, a); err != nil {
			return err
		}
		balance, err := derivedBalance(ctx, uow, a.ID)
		if err != nil {
			return err
		}
		v = &View{Account: a, Balance: balance}
		return nil
	})
	if err != nil {
		log.Error("Account update failed", "error", err)
		return nil, err
	}
	log.Info("Account updated", "version", v.Account.Version)
	return v, nil
}

func applyClientUpdate(ctx context.Context, uow repository.UnitOfWork, c *client.Client, req UpdateRequest) error {
	clients, err := uow.ClientRepository()
	if err != nil {
		return err
	}
	if req.Titulaire != nil {
		if err := c.Rename(*req.Titulaire); err != nil {
			return err
		}
	}
	if req.Telephone != nil {
		if !client.ValidPhone(*req.Telephone) {
			return domain.NewValidationError(map[string]string{
				"informationsClient.telephone": "Le téléphone doit être au format +221XXXXXXXXX",
			})
		}
		taken, err := clients.PhoneTaken(ctx, *req.Telephone, c.ID)
		if err != nil {
			return err
		}
		if taken {
			return client.ErrPhoneTaken.WithDetails(map[string]any{"telephone": *req.Telephone})
		}
		c.Telephone = *req.Telephone
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		taken, err := clients.EmailTaken(ctx, email, c.ID)
		if err != nil {
			return err
		}
		if taken {
			return client.ErrEmailTaken.WithDetails(map[string]any{"email": email})
		}
		c.Email = email
	}
	if req.NCI != nil {
		taken, err := clients.NCITaken(ctx, *req.NCI, c.ID)
		if err != nil {
			return err
		}
		if taken {
			return client.ErrNCITaken.WithDetails(map[string]any{"nci": *req.NCI})
		}
		c.NCI = *req.NCI
	}
	if req.Password != nil {
		if err := c.SetPassword(*req.Password); err != nil {
			return err
		}
	}
	return nil
}

// Block moves an active savings account to bloque.
func (s *Service) Block(ctx context.Context, number string, req account.BlockRequest) (*View, error) {
	return s.transition(ctx, "block_account", number, repoaccount.Scope{}, func(a *account.Account) error {
		return a.Block(req, s.now())
	})
}

// Unblock returns a blocked account to actif.
func (s *Service) Unblock(ctx context.Context, number, reason string) (*View, error) {
	return s.transition(ctx, "unblock_account", number, repoaccount.Scope{}, func(a *account.Account) error {
		return a.Unblock(reason)
	})
}

// Close moves an active account to ferme and soft-deletes it. Closed rows
// are still read so that a second close reports ACCOUNT_ALREADY_CLOSED.
func (s *Service) Close(ctx context.Context, number string) (*View, error) {
	return s.transition(ctx, "close_account", number, repoaccount.Scope{IncludeDeleted: true}, func(a *account.Account) error {
		if err := a.Close(s.now()); err != nil {
			return err
		}
		a.DeletedAt = a.ClosedAt
		return nil
	})
}

// transition applies fn to the locked account row and persists the result
// in the same transaction. The returned view carries the derived balance.
func (s *Service) transition(
	ctx context.Context,
	operation, number string,
	scope repoaccount.Scope,
	fn func(a *account.Account) error,
) (v *View, err error) {
	log := s.logger.With("operation", operation, "numero_compte", number)
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		scope.ForUpdate = true
		a, err := accounts.GetByNumber(ctx, number, scope)
		if err != nil {
			return err
		}
		if err := fn(a); err != nil {
			return err
		}
		if err := accounts.Update(ctx, a); err != nil {
			return err
		}
		balance, err := derivedBalance(ctx, uow, a.ID)
		if err != nil {
			return err
		}
		v = &View{Account: a, Balance: balance}
		return nil
	})
	if err != nil {
		log.Warn("Account transition rejected", "error", err)
		return nil, err
	}
	log.Info("Account transition applied", "statut", v.Account.Status, "version", v.Account.Version)
	return v, nil
}

// Balance returns the balance derived from the account's transactions.
func (s *Service) Balance(ctx context.Context, number string) (balance decimal.Decimal, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		a, err := accounts.GetByNumber(ctx, number, repoaccount.Scope{})
		if err != nil {
			return err
		}
		balance, err = derivedBalance(ctx, uow, a.ID)
		return err
	})
	return
}

// Transactions returns one page of the account's transactions, newest
// first.
func (s *Service) Transactions(
	ctx context.Context,
	number string,
	page dto.PageRequest,
) (out dto.Page[*account.Transaction], err error) {
	page = page.Normalize()
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		txs, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		a, err := accounts.GetByNumber(ctx, number, repoaccount.Scope{})
		if err != nil {
			return err
		}
		items, total, err := txs.List(ctx, dto.TransactionFilter{PageRequest: page, AccountID: &a.ID})
		if err != nil {
			return err
		}
		out = dto.Page[*account.Transaction]{Items: items, Pagination: dto.NewPagination(page, total)}
		return nil
	})
	return
}

func derivedBalance(ctx context.Context, uow repository.UnitOfWork, accountID uuid.UUID) (decimal.Decimal, error) {
	txs, err := uow.TransactionRepository()
	if err != nil {
		return decimal.Zero, err
	}
	list, err := txs.ListByAccount(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	return account.Balance(list), nil
}
