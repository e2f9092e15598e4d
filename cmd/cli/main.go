package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/amirasaad/bankmanager/infra"
	"github.com/amirasaad/bankmanager/infra/initializer"
	infrarepo "github.com/amirasaad/bankmanager/infra/repository"
	"github.com/amirasaad/bankmanager/pkg/app"
	"github.com/amirasaad/bankmanager/pkg/config"
	"github.com/amirasaad/bankmanager/pkg/scheduler"
	adminsvc "github.com/amirasaad/bankmanager/pkg/service/admin"
	"github.com/fatih/color"
	"golang.org/x/term"
)

const usage = `Usage: cli <command>
Commands:
  archive-expired     archive every savings account whose block has expired
  unarchive-expired   restore archived accounts whose block has expired
  setup-database      apply migrations and seed the default admin
  recompute-balances  rebuild every balance from its transactions`

var (
	okColor  = color.New(color.FgGreen)
	errColor = color.New(color.FgRed, color.Bold)
)

func main() {
	color.NoColor = !term.IsTerminal(int(os.Stdout.Fd()))
	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(2)
	}
	if err := run(context.Background(), os.Args[1], os.Stdout); err != nil {
		errColor.Fprintln(os.Stderr, "Error:", err) //nolint:errcheck
		os.Exit(1)
	}
}

var commands = map[string]bool{
	scheduler.JobArchive:   true,
	scheduler.JobUnarchive: true,
	"setup-database":       true,
	"recompute-balances":   true,
}

func run(ctx context.Context, cmd string, out io.Writer) error {
	if !commands[cmd] {
		return fmt.Errorf("unknown command %q\n%s", cmd, usage)
	}
	cfg, err := config.Load(config.EnvFiles()...)
	if err != nil {
		return fmt.Errorf("failed to load application configuration: %w", err)
	}
	if cmd == "setup-database" {
		return setupDatabase(ctx, cfg, out)
	}

	deps, err := initializer.InitializeDependencies(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	defer deps.Close() //nolint:errcheck
	a := app.New(deps, cfg)

	switch cmd {
	case scheduler.JobArchive:
		var report scheduler.Report
		err = scheduler.RunLocked(ctx, deps.Locker, cmd, cfg.Scheduler.LockTTL, deps.Logger,
			func(ctx context.Context) (err error) {
				report, err = a.Jobs.ArchiveExpired(ctx)
				return err
			})
		if err != nil {
			return err
		}
		okColor.Fprintf(out, "Archived: %d, partial: %d, skipped: %d, failed: %d\n",
			report.Archived, report.Partial, report.Skipped, report.Failed)
	case scheduler.JobUnarchive:
		var restored, skipped, failed int
		err = scheduler.RunLocked(ctx, deps.Locker, cmd, cfg.Scheduler.LockTTL, deps.Logger,
			func(ctx context.Context) error {
				report, err := a.Jobs.UnarchiveExpired(ctx)
				restored, skipped, failed = report.Restored, report.Skipped, report.Failed
				return err
			})
		if err != nil {
			return err
		}
		okColor.Fprintf(out, "Restored: %d, skipped: %d, failed: %d\n", restored, skipped, failed)
	case "recompute-balances":
		n, err := a.TransactionService.RecomputeAll(ctx)
		if err != nil {
			return err
		}
		okColor.Fprintf(out, "Recomputed %d balances\n", n)
	}
	return nil
}

func setupDatabase(ctx context.Context, cfg *config.App, out io.Writer) error {
	logger := initializer.SetupLogger(cfg.Log)
	db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close() //nolint:errcheck
	}
	if err := infra.Migrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	okColor.Fprintln(out, "Migrations applied")

	svc := adminsvc.New(infrarepo.NewUoW(db), logger)
	email := config.GetEnv("ADMIN_EMAIL", "admin@bankmanager.sn")
	created, err := svc.EnsureDefault(ctx,
		config.GetEnv("ADMIN_NOM", "Administrateur"),
		email,
		config.GetEnv("ADMIN_PASSWORD", "password123"),
	)
	if err != nil {
		return fmt.Errorf("failed to seed default admin: %w", err)
	}
	if created {
		okColor.Fprintln(out, "Default admin created:", email)
	} else {
		fmt.Fprintln(out, "Default admin already present:", email)
	}
	return nil
}
