package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tegarrramadhaaan/timeline/internal/apperrors"
	"github.com/tegarrramadhaaan/timeline/internal/handlers/userctx"
	"github.com/tegarrramadhaaan/timeline/internal/models"
)

type authServiceFunc func(ctx context.Context, r *http.Request) (models.SessionUser, error)

func (f authServiceFunc) SessionFromRequest(ctx context.Context, r *http.Request) (models.SessionUser, error) {
	return f(ctx, r)
}

func TestRequireUser(t *testing.T) {
	user := models.SessionUser{ID: 1, Username: "alice"}

	t.Run("authenticated request passes with user in context", func(t *testing.T) {
		as := authServiceFunc(func(context.Context, *http.Request) (models.SessionUser, error) {
			return user, nil
		})

		var gotUser models.SessionUser
		var gotOK bool
		h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUser, gotOK = userctx.FromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		})

		w := httptest.NewRecorder()
		RequireUser(as)(h).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		require.Equal(t, http.StatusOK, w.Code)
		require.True(t, gotOK, "user should be stored in request context")
		require.Equal(t, user, gotUser)
	})

	t.Run("anonymous request redirected to login", func(t *testing.T) {
		as := authServiceFunc(func(context.Context, *http.Request) (models.SessionUser, error) {
			return models.SessionUser{}, apperrors.ErrUnauthenticated
		})

		handlerCalled := false
		h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			handlerCalled = true
		})

		w := httptest.NewRecorder()
		RequireUser(as)(h).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		require.False(t, handlerCalled, "handler should not run for anonymous requests")
		require.Equal(t, http.StatusSeeOther, w.Code)
		require.Equal(t, "/login", w.Header().Get("Location"))
		require.Equal(t, "no-store", w.Header().Get("Cache-Control"), "auth-gated pages must not be cached")
	})
}
