// Command scheduler runs the daily archive and unarchive sweeps as a
// detached process.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/amirasaad/bankmanager/infra/initializer"
	"github.com/amirasaad/bankmanager/pkg/app"
	"github.com/amirasaad/bankmanager/pkg/config"
	"github.com/amirasaad/bankmanager/pkg/scheduler"
	log "github.com/charmbracelet/log"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load(config.EnvFiles()...)
	if err != nil {
		return fmt.Errorf("failed to load application configuration: %w", err)
	}
	deps, err := initializer.InitializeDependencies(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	defer func() {
		if err := deps.Close(); err != nil {
			deps.Logger.Error("failed to release dependencies", "error", err)
		}
	}()

	application := app.New(deps, cfg)
	s, err := scheduler.New(application.Jobs, deps.Locker, cfg.Scheduler, deps.Logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s.Start()
	deps.Logger.Info("Scheduler started", "env", cfg.Env)
	<-ctx.Done()

	deps.Logger.Info("Stopping scheduler, waiting for running jobs")
	<-s.Stop().Done()
	return nil
}
