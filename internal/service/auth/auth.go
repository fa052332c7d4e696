package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tegarrramadhaaan/timeline/internal/apperrors"
	"github.com/tegarrramadhaaan/timeline/internal/models"
	"github.com/tegarrramadhaaan/timeline/internal/repository"
)

const (
	defaultSessionTTL        = 24 * time.Hour
	defaultSessionCookieName = "session_token"
	defaultSigningMethod     = "HS256"
)

type Config struct {
	// Secret key to sign session tokens
	// Required: must be provided from deploy time configuration,
	// never compiled in
	SecretKey string

	// Session lifetime. If not set than default is used
	SessionTTL time.Duration

	// Cookie the session token travels in. If not set than default is used
	CookieName string

	// Set the Secure flag on session cookies (serve behind HTTPS)
	SecureCookies bool

	// Hasher to use during login or registration
	Hasher PasswordHasher
}

// Auth service: verifies credentials and owns the session lifecycle
type AuthService struct {
	session sessionManager
	hasher  PasswordHasher

	cookieName    string
	secureCookies bool

	// dummy hash compared against when the username is unknown, so the
	// response time doesn't reveal whether the user exists
	dummyHash string

	userRepo repository.UserRepo
}

func NewService(cfg Config, userRepo repository.UserRepo) (*AuthService, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("secret key must not be empty")
	}

	if userRepo == nil {
		return nil, errors.New("user repo must not be nil")
	}

	hasher := cfg.Hasher
	if hasher == nil {
		hasher = DefaultHasher
	}

	if cfg.SessionTTL == 0 {
		cfg.SessionTTL = defaultSessionTTL
	}

	if cfg.CookieName == "" {
		cfg.CookieName = defaultSessionCookieName
	}

	dummyHash, err := hasher.Hash("timeline-dummy-credential")
	if err != nil {
		return nil, fmt.Errorf("error while preparing hasher. Err: %w", err)
	}

	return &AuthService{
		session: sessionManager{
			key: cfg.SecretKey,
			alg: jwt.GetSigningMethod(defaultSigningMethod),
			ttl: cfg.SessionTTL,
		},
		hasher:        hasher,
		cookieName:    cfg.CookieName,
		secureCookies: cfg.SecureCookies,
		dummyHash:     dummyHash,
		userRepo:      userRepo,
	}, nil
}

// Register new user with username and password
// Returns apperrors.ErrUserAlreadyExists if the username is taken
func (s *AuthService) Register(ctx context.Context, username string, password string) (models.User, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return models.User{}, fmt.Errorf("can't use this as password, Err: %w", err)
	}

	user, err := s.userRepo.Create(ctx, username, hash)
	if err != nil {
		return models.User{}, err
	}

	return user, nil
}

// HashPassword exposes the configured hasher, eg. for preparing seed data
func (s *AuthService) HashPassword(password string) (string, error) {
	return s.hasher.Hash(password)
}

// Login verifies the credentials and issues a session.
// Unknown username and wrong password both return
// apperrors.ErrInvalidCredentials: responses never reveal which usernames
// exist. A dummy hash comparison keeps the unknown-user path as slow as
// the wrong-password path.
func (s *AuthService) Login(ctx context.Context, username string, password string) (models.Session, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)

	switch {
	case err == nil:
	case errors.Is(err, apperrors.ErrUserNotFound):
		_ = s.hasher.Compare(s.dummyHash, password)
		return models.Session{}, apperrors.ErrInvalidCredentials
	default:
		return models.Session{}, fmt.Errorf("login failed. Err: %w", err)
	}

	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		return models.Session{}, apperrors.ErrInvalidCredentials
	}

	session, err := s.session.Issue(user)
	if err != nil {
		return models.Session{}, fmt.Errorf("session could not be issued, sorry. %w", err)
	}

	return session, nil
}

// SessionFromRequest resolves the session cookie to the current user.
// Absent, expired or tampered sessions all return
// apperrors.ErrUnauthenticated.
func (s *AuthService) SessionFromRequest(ctx context.Context, r *http.Request) (models.SessionUser, error) {
	cookie, err := r.Cookie(s.cookieName)
	if err != nil {
		return models.SessionUser{}, apperrors.ErrUnauthenticated
	}

	user, err := s.session.Parse(cookie.Value)
	if err != nil {
		return models.SessionUser{}, fmt.Errorf("%w: %w", apperrors.ErrUnauthenticated, err)
	}

	return user, nil
}

// SetSession writes the session cookie to the response
func (s *AuthService) SetSession(w http.ResponseWriter, session models.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSession drops the session cookie
// Idempotent: clearing an absent session is fine
func (s *AuthService) ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// SetSessionToRequest attaches the session cookie to an outgoing request.
// Used by tests to act as an authenticated client.
func (s *AuthService) SetSessionToRequest(r *http.Request, session models.Session) {
	r.AddCookie(&http.Cookie{Name: s.cookieName, Value: session.Token})
}
