package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/charmbracelet/log"

	"github.com/ksoliman/banksim/infra/initializer"
	"github.com/ksoliman/banksim/pkg/config"
	"github.com/ksoliman/banksim/webapi"
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

	app := webapi.SetupApp(deps)
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)

	// Drain in-flight requests on SIGINT/SIGTERM before exiting.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-stop
		deps.Logger.Info("shutting down", "signal", sig.String())
		if err := app.Shutdown(); err != nil {
			deps.Logger.Error("shutdown failed", "error", err)
		}
	}()

	deps.Logger.Info("starting server", "env", cfg.Env, "address", addr)
	return app.Listen(addr)
}
