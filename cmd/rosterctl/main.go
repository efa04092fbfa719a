// rosterctl drives the roster data-access layer from the command line. Every
// command prints JSON on stdout; logs go to stderr.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/riskibarqy/hockey-roster/internal/app"
	"github.com/riskibarqy/hockey-roster/internal/config"
	"github.com/riskibarqy/hockey-roster/internal/observability"
	"github.com/riskibarqy/hockey-roster/internal/platform/logging"
)

func main() {
	if err := run(); err != nil {
		if errors.Is(err, errUsage) {
			printUsage()
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: load .env: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.NewJSON(os.Stderr, cfg.LogLevel).With("service", cfg.ServiceName)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("shutdown tracing failed", "error", err)
		}
	}()

	client, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Close(); err != nil {
			logger.Warn("close client failed", "error", err)
		}
	}()

	cmd := &command{
		client: client,
		cfg:    cfg,
		logger: logger,
		out:    os.Stdout,
	}
	return cmd.execute(ctx, os.Args[1:])
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: rosterctl <group> <command> [flags]")
	fmt.Fprintln(os.Stderr, "  teams   list | get | create | update | delete")
	fmt.Fprintln(os.Stderr, "  players list | by-team | get | create | update | delete")
	fmt.Fprintln(os.Stderr, "  events  list | upcoming | get | create | update | delete | register")
	fmt.Fprintln(os.Stderr, "  auth    signup | signin | signout | whoami | reset")
	fmt.Fprintln(os.Stderr, "  sync    [--watch] [--interval 5m]")
}
