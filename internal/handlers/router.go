package handlers

import (
	"context"
	"net/http"

	"github.com/tegarrramadhaaan/timeline/internal/handlers/middleware"
	"github.com/tegarrramadhaaan/timeline/internal/handlers/render"
	"github.com/tegarrramadhaaan/timeline/internal/logger"
	"github.com/tegarrramadhaaan/timeline/internal/models"
	"github.com/tegarrramadhaaan/timeline/internal/repository"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

type Config struct {
	// Register the demo-only /init route.
	// Must stay off outside demo deployments.
	DemoMode bool
}

func NewRouter(
	authService authService,
	timelineService timelineService,
	storage seeder,
	renderer *render.Renderer,
	logger logger.Logger,
	cfg Config,
) http.Handler {
	withUser := middleware.RequireUser(authService)

	mux := http.NewServeMux()

	mux.Handle("GET /{$}", withUser(handleIndex(timelineService, renderer, logger)))
	mux.Handle("GET /login", handleLoginPage(authService, renderer))
	mux.Handle("POST /login", handleLogin(authService, renderer, logger))
	mux.Handle("POST /register", handleRegister(authService, renderer, logger))
	mux.Handle("GET /logout", handleLogout(authService))
	mux.Handle("POST /create", withUser(handleCreateEntry(timelineService, renderer, logger)))
	mux.Handle("POST /delete/{id}", withUser(handleDeleteEntry(timelineService, renderer, logger)))
	mux.Handle("GET /search", handleSearch(timelineService, renderer, logger))

	if cfg.DemoMode {
		mux.Handle("GET /init", handleSeedDemo(authService, storage, renderer, logger))
	}

	return chain(mux,
		middleware.LoggerMiddleware(logger),
	)
}

type authService interface {
	// Login with username and password
	// Has to return apperrors.ErrInvalidCredentials on any credential
	// mismatch, the same value for unknown user and wrong password
	Login(ctx context.Context, username string, password string) (models.Session, error)

	// Register user with username and password
	// Has to return apperrors.ErrUserAlreadyExists if user already exists
	Register(ctx context.Context, username string, password string) (models.User, error)

	// Resolve the session cookie to the current user
	SessionFromRequest(ctx context.Context, r *http.Request) (models.SessionUser, error)

	// Session cookie lifecycle on responses
	SetSession(w http.ResponseWriter, session models.Session)
	ClearSession(w http.ResponseWriter)

	// Hash a password the same way login verifies it
	HashPassword(password string) (string, error)
}

type timelineService interface {
	AddEntry(ctx context.Context, user *models.SessionUser, content string) (models.Entry, error)
	ListFeed(ctx context.Context) ([]models.FeedEntry, error)
	RemoveEntry(ctx context.Context, user *models.SessionUser, entryID int64) error
	Search(ctx context.Context, keyword string) ([]models.FeedEntry, error)
}

type seeder interface {
	Seed(ctx context.Context, users []repository.SeedUser, entries []repository.SeedEntry) error
}
