package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Kesomannen/gale/internal/api"
	"github.com/Kesomannen/gale/internal/backend"
	"github.com/Kesomannen/gale/internal/bridge"
	"github.com/Kesomannen/gale/internal/cli"
	"github.com/Kesomannen/gale/internal/config"
	"github.com/Kesomannen/gale/internal/events"
	"github.com/Kesomannen/gale/internal/state"
	"github.com/Kesomannen/gale/internal/thunderstore"
	"github.com/Kesomannen/gale/internal/toast"
	"github.com/Kesomannen/gale/pkg/logger"
)

// version is overridden at build time via
// -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.LogLevel != "" {
		level, err := logger.ParseLevel(cfg.LogLevel)
		if err != nil {
			return err
		}
		logger.SetLevel(level)
	} else if cfg.Debug {
		logger.SetLevel(logger.LevelDebug)
	}

	args := os.Args[1:]
	if len(args) > 0 {
		switch args[0] {
		case "help", "--help", "-h":
			printUsage()
			return nil
		case "version", "--version", "-v":
			fmt.Println("gale " + version)
			return nil
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := backend.NewClient(cfg.BackendPath, cfg.Debug)
	toasts := toast.NewBuffer(toast.Options{
		Capacity:      cfg.ToastCapacity,
		ErrorDuration: cfg.ErrorToastDuration,
		InfoDuration:  cfg.InfoToastDuration,
	})
	br := bridge.New(client, toasts)

	categories := thunderstore.NewClient(cfg.ThunderstoreURL)
	defer func() { _ = categories.Close() }()

	app := state.New(br, categories, cfg.GaleHome)

	router := events.NewRouter(app, toasts)
	client.SetEventHandler(router.Handle)
	router.Start()
	defer router.Stop()

	if err := client.Start(ctx); err != nil {
		return fmt.Errorf("failed to start backend: %w", err)
	}
	defer func() { _ = client.Close() }()

	if err := app.RefreshAll(ctx); err != nil {
		return fmt.Errorf("initial refresh failed: %w", err)
	}

	if len(args) > 0 {
		switch args[0] {
		case "auth":
			return cli.AuthCommand(ctx, app)
		case "logout":
			return cli.LogoutCommand(ctx, app)
		case "open-log":
			return api.OpenAppLog(ctx, br)
		default:
			printUsage()
			return fmt.Errorf("unknown command %q", args[0])
		}
	}

	logger.Infof("Gale home: %s", cfg.GaleHome)
	if game := app.Games.Active(); game != nil {
		logger.Infof("Active game: %s", game.Name)
	}

	// Run until interrupted or the backend dies.
	exited := make(chan error, 1)
	go func() { exited <- client.Wait() }()

	select {
	case <-ctx.Done():
		return nil
	case err := <-exited:
		if tail := client.StderrTail(); len(tail) > 0 {
			logger.Errorf("backend stderr tail:\n%s", tail)
		}
		if err != nil {
			return fmt.Errorf("backend exited unexpectedly: %w", err)
		}
		return fmt.Errorf("backend exited unexpectedly")
	}
}

func printUsage() {
	fmt.Println(`Usage: gale [command]

Commands:
  auth       Sign in to the profile sync service
  logout     Sign out of the profile sync service
  open-log   Open the backend log file
  version    Print the version
  help       Show this help`)
}
