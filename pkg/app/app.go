// Package app assembles the services of the application from its
// infrastructure dependencies.
package app

import (
	"errors"
	"log/slog"

	"github.com/amirasaad/bankmanager/pkg/archive"
	"github.com/amirasaad/bankmanager/pkg/config"
	"github.com/amirasaad/bankmanager/pkg/notification"
	"github.com/amirasaad/bankmanager/pkg/repository"
	"github.com/amirasaad/bankmanager/pkg/scheduler"
	"github.com/amirasaad/bankmanager/pkg/service/account"
	"github.com/amirasaad/bankmanager/pkg/service/admin"
	"github.com/amirasaad/bankmanager/pkg/service/auth"
	"github.com/amirasaad/bankmanager/pkg/service/client"
	"github.com/amirasaad/bankmanager/pkg/service/transaction"
)

// Deps contains the infrastructure the services are built on.
type Deps struct {
	Uow          repository.UnitOfWork
	ArchiveStore archive.Store
	Locker       scheduler.Locker
	Notifier     notification.Notifier
	Logger       *slog.Logger

	// Closers release connections opened by the initializer.
	Closers []func() error
}

// Close releases every dependency that holds a connection.
func (d *Deps) Close() error {
	var errs []error
	for i := len(d.Closers) - 1; i >= 0; i-- {
		errs = append(errs, d.Closers[i]())
	}
	return errors.Join(errs...)
}

type App struct {
	Deps               *Deps
	Config             *config.App
	AuthService        *auth.Service
	AdminService       *admin.Service
	ClientService      *client.Service
	AccountService     *account.Service
	TransactionService *transaction.Service
	Synchronizer       *archive.Synchronizer
	Jobs               *scheduler.Jobs
}

func New(deps *Deps, cfg *config.App) *App {
	app := &App{
		Deps:   deps,
		Config: cfg,
	}
	app.Synchronizer = archive.NewSynchronizer(deps.Uow, deps.ArchiveStore, deps.Logger, cfg.Archive.Timeout)
	app.Jobs = scheduler.NewJobs(deps.Uow, app.Synchronizer, deps.Logger)
	app.AuthService = auth.NewWithJWT(deps.Uow, cfg.Auth.Jwt, deps.Logger)
	app.AdminService = admin.New(deps.Uow, deps.Logger)
	app.ClientService = client.New(deps.Uow, deps.Logger)
	app.AccountService = account.New(deps.Uow, app.Synchronizer, deps.Notifier, cfg.Account, deps.Logger)
	app.TransactionService = transaction.New(deps.Uow, deps.Logger)
	return app
}
