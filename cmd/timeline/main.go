package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
)

func run(ctx context.Context, getenv func(string) string, getwd func() (string, error), args []string) error {
	// Defaults, then .env file, then environment, then flags
	cfg := NewConfig()
	if err := cfg.LoadDotEnv(getwd); err != nil {
		return err
	}
	if err := cfg.LoadEnv(getenv); err != nil {
		return err
	}
	if err := cfg.ParseFlags(args); err != nil {
		return err
	}

	srv, err := NewServerApp(ctx, cfg)
	if err != nil {
		return err
	}

	if err := srv.Run(ctx); err != http.ErrServerClosed {
		return err
	}
	return nil
}

func main() {
	// Context that cancelled on SIGTERM or interrupt
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Getenv, os.Getwd, os.Args[1:]); err != nil {
		slog.Error("service stopped with error", "error", err.Error())
		os.Exit(1)
	}
}
