package handlers

import (
	"errors"
	"net/http"

	"github.com/tegarrramadhaaan/timeline/internal/apperrors"
	"github.com/tegarrramadhaaan/timeline/internal/handlers/render"
	"github.com/tegarrramadhaaan/timeline/internal/logger"
)

type loginPageData struct {
	Username  string
	Fields    map[string]string
	FormError string
}

func handleLoginPage(as authService, rd *render.Renderer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Already logged in users have nothing to do here
		if _, err := as.SessionFromRequest(r.Context(), r); err == nil {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}

		rd.Page(w, http.StatusOK, "login.html", loginPageData{})
	})
}

func handleLogin(as authService, rd *render.Renderer, l logger.Logger) http.Handler {
	type LoginForm struct {
		Username string `form:"username" validate:"required"`
		Password string `form:"password" validate:"required"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		form := LoginForm{
			Username: r.PostFormValue("username"),
			Password: r.PostFormValue("password"),
		}

		if fields := render.ValidateForm(form); fields != nil {
			rd.Page(w, http.StatusBadRequest, "login.html", loginPageData{
				Username: form.Username,
				Fields:   fields,
			})
			return
		}

		session, err := as.Login(r.Context(), form.Username, form.Password)
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrInvalidCredentials):
				// One generic message for every credential mismatch
				rd.Page(w, http.StatusUnauthorized, "login.html", loginPageData{
					Username:  form.Username,
					FormError: "Invalid username or password.",
				})
			default:
				l.Error("login failed", "error", err.Error())
				rd.ServerError(w)
			}
			return
		}

		as.SetSession(w, session)
		http.Redirect(w, r, "/", http.StatusSeeOther)
	})
}

func handleRegister(as authService, rd *render.Renderer, l logger.Logger) http.Handler {
	type RegisterForm struct {
		Username string `form:"username" validate:"required,min=2,max=50"`
		Password string `form:"password" validate:"required,min=6"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		form := RegisterForm{
			Username: r.PostFormValue("username"),
			Password: r.PostFormValue("password"),
		}

		if fields := render.ValidateForm(form); fields != nil {
			rd.Page(w, http.StatusBadRequest, "login.html", loginPageData{
				Username:  form.Username,
				FormError: "Registration failed: check username (2-50 characters) and password (at least 6).",
			})
			return
		}

		_, err := as.Register(r.Context(), form.Username, form.Password)
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrUserAlreadyExists):
				rd.Page(w, http.StatusConflict, "login.html", loginPageData{
					FormError: "This username is already taken.",
				})
			default:
				l.Error("registration failed", "error", err.Error())
				rd.ServerError(w)
			}
			return
		}

		// Log the fresh user straight in
		session, err := as.Login(r.Context(), form.Username, form.Password)
		if err != nil {
			l.Error("login after registration failed", "error", err.Error())
			rd.ServerError(w)
			return
		}

		as.SetSession(w, session)
		http.Redirect(w, r, "/", http.StatusSeeOther)
	})
}

func handleLogout(as authService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		as.ClearSession(w)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	})
}
