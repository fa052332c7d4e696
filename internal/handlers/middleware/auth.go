package middleware

import (
	"context"
	"net/http"

	"github.com/tegarrramadhaaan/timeline/internal/handlers/userctx"
	"github.com/tegarrramadhaaan/timeline/internal/models"
)

type authService interface {
	SessionFromRequest(ctx context.Context, r *http.Request) (models.SessionUser, error)
}

// RequireUser resolves the session cookie before the handler runs.
//
// Anonymous or stale sessions are bounced to the login page; on success the
// session user is placed in the request context.
func RequireUser(as authService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Pages behind auth must not end up in shared caches
			w.Header().Set("Cache-Control", "no-store")

			user, err := as.SessionFromRequest(r.Context(), r)
			if err != nil {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			ctx := userctx.New(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
