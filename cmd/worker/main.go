package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	log "github.com/charmbracelet/log"

	"github.com/ksoliman/banksim/infra/initializer"
	"github.com/ksoliman/banksim/pkg/config"
	"github.com/ksoliman/banksim/pkg/worker"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load(".env")
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	deps, err := initializer.Initialize(cfg)
	if err != nil {
		return fmt.Errorf("initialize dependencies: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w := worker.New(deps.Consumer(), deps.Ledger, deps.Uow, cfg.Worker, deps.Logger)
	deps.Logger.Info("starting worker",
		"env", cfg.Env, "stream", cfg.Queue.Stream, "group", cfg.Queue.Group)
	if err := w.Run(ctx); err != nil && ctx.Err() == nil {
		return fmt.Errorf("worker stopped: %w", err)
	}
	deps.Logger.Info("worker stopped")
	return nil
}
