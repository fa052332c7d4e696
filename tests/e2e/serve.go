package e2e

import (
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stretchr/testify/require"

	"github.com/tegarrramadhaaan/timeline/internal/handlers"
	"github.com/tegarrramadhaaan/timeline/internal/logger"
	"github.com/tegarrramadhaaan/timeline/internal/repository"
	"github.com/tegarrramadhaaan/timeline/internal/repository/postgres"
	"github.com/tegarrramadhaaan/timeline/internal/service/auth"
	"github.com/tegarrramadhaaan/timeline/internal/service/timeline"
	"github.com/tegarrramadhaaan/timeline/internal/testutil"
)

type Services struct {
	AuthService     *auth.AuthService
	TimelineService *timeline.TimelineService
	Storage         repository.Storage
}

// Create db transaction and run server with that connection (one connection cause one transaction)
// The created transaction passed to inner function: so, you can safely use testutil.WithTx with it
func ServeWithTx(dbpool *pgxpool.Pool, t *testing.T, cfg handlers.Config, fn func(tx pgx.Tx, srvURL string, services Services)) {
	testutil.WithTx(dbpool, t, func(tx pgx.Tx) {
		storage := postgres.NewStorage(tx)

		as, err := auth.NewService(auth.Config{SecretKey: "test-secret"}, storage.User())
		require.NoError(t, err, "auth service starting error")

		ts := timeline.NewService(storage.Entry(), logger.NewNoOpLogger())

		renderer, err := handlers.NewRenderer()
		require.NoError(t, err, "page templates should parse")

		router := handlers.NewRouter(as, ts, storage, renderer, logger.NewNoOpLogger(), cfg)

		// Run http server with the router in transaction
		srv := httptest.NewServer(router)
		defer srv.Close()

		fn(tx, srv.URL, Services{
			AuthService:     as,
			TimelineService: ts,
			Storage:         storage,
		})
	})
}

// Browser returns a cookie-aware client, close to what a real browser does.
// Redirects are followed, so page flows read naturally in tests.
func Browser(t *testing.T) *http.Client {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &http.Client{Jar: jar}
}
