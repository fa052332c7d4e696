package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/tegarrramadhaaan/timeline/internal/db"
	"github.com/tegarrramadhaaan/timeline/internal/handlers"
	"github.com/tegarrramadhaaan/timeline/internal/logger"
	"github.com/tegarrramadhaaan/timeline/internal/repository/postgres"
	"github.com/tegarrramadhaaan/timeline/internal/service/auth"
	"github.com/tegarrramadhaaan/timeline/internal/service/timeline"
)

type ServerApp struct {
	ListenAddr string
	Handler    http.Handler
}

func NewServerApp(ctx context.Context, c *Config) (*ServerApp, error) {
	// Initialize logger
	log, err := logger.New(c.Environment, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("error while initializing logger: %w", err)
	}

	// Connect to the database and run migrations
	pool, err := db.ConnectAndMigrate(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("error while connecting to db. Err: %w", err)
	}

	// Initialize repositories
	storage := postgres.NewStorage(pool)

	// Initialize services
	authService, err := auth.NewService(auth.Config{
		SecretKey:     c.SecretKey,
		SessionTTL:    c.SessionTTL,
		SecureCookies: c.Environment == logger.EnvProduction,
	}, storage.User())
	if err != nil {
		return nil, fmt.Errorf("error while creating auth service. Err: %w", err)
	}
	timelineService := timeline.NewService(storage.Entry(), log)

	renderer, err := handlers.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("error while loading page templates. Err: %w", err)
	}

	mux := handlers.NewRouter(
		authService,
		timelineService,
		storage,
		renderer,
		log,
		handlers.Config{DemoMode: c.DemoMode},
	)

	return &ServerApp{
		ListenAddr: c.ListenAddr,
		Handler:    mux,
	}, nil
}

// Run starts http server and closes gracefully on context cancellation
func (s *ServerApp) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    s.ListenAddr,
		Handler: s.Handler,
	}

	idleConnsClosed := make(chan struct{})
	srvCtx, srvCtxCancel := context.WithCancel(ctx)
	defer srvCtxCancel()

	go func() {
		<-srvCtx.Done()

		timeoutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(timeoutCtx); err == context.DeadlineExceeded {
			slog.Error("HTTP server shutdown timeout exceeded, forcing shutdown...")
		}
		slog.Info("HTTP server stopped")
		close(idleConnsClosed)
	}()

	// Listen and serve until context is cancelled; then close gracefully connections
	slog.Info("Starting server", "address", s.ListenAddr)
	err := httpServer.ListenAndServe()
	srvCtxCancel()
	<-idleConnsClosed

	return err
}
