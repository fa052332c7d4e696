package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/tegarrramadhaaan/timeline/internal/apperrors"
	"github.com/tegarrramadhaaan/timeline/internal/handlers/render"
	"github.com/tegarrramadhaaan/timeline/internal/handlers/userctx"
	"github.com/tegarrramadhaaan/timeline/internal/logger"
	"github.com/tegarrramadhaaan/timeline/internal/models"
	"github.com/tegarrramadhaaan/timeline/internal/repository"
)

type indexPageData struct {
	User         models.SessionUser
	Feed         []models.FeedEntry
	ContentError string
}

type searchPageData struct {
	Keyword string
	Results []models.FeedEntry
}

func handleIndex(ts timelineService, rd *render.Renderer, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			rd.ServerError(w)
			return
		}

		feed, err := ts.ListFeed(r.Context())
		if err != nil {
			l.Error("feed listing failed", "error", err.Error())
			rd.ServerError(w)
			return
		}

		rd.Page(w, http.StatusOK, "index.html", indexPageData{User: user, Feed: feed})
	})
}

func handleCreateEntry(ts timelineService, rd *render.Renderer, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			rd.ServerError(w)
			return
		}

		_, err := ts.AddEntry(r.Context(), &user, r.PostFormValue("content"))
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrContentEmpty), errors.Is(err, apperrors.ErrEntryInvalid):
				feed, ferr := ts.ListFeed(r.Context())
				if ferr != nil {
					l.Error("feed listing failed", "error", ferr.Error())
					rd.ServerError(w)
					return
				}
				rd.Page(w, http.StatusBadRequest, "index.html", indexPageData{
					User:         user,
					Feed:         feed,
					ContentError: "Entry content must not be empty.",
				})
			default:
				l.Error("entry creation failed", "error", err.Error())
				rd.ServerError(w)
			}
			return
		}

		http.Redirect(w, r, "/", http.StatusSeeOther)
	})
}

func handleDeleteEntry(ts timelineService, rd *render.Renderer, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			rd.ServerError(w)
			return
		}

		entryID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			rd.ClientError(w, "Invalid entry id.", http.StatusBadRequest)
			return
		}

		// Deleting someone else's entry or a missing one is a no-op by
		// policy: the redirect can't tell the outcomes apart anyway
		if err := ts.RemoveEntry(r.Context(), &user, entryID); err != nil {
			l.Error("entry deletion failed", "error", err.Error())
			rd.ServerError(w)
			return
		}

		http.Redirect(w, r, "/", http.StatusSeeOther)
	})
}

func handleSearch(ts timelineService, rd *render.Renderer, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		keyword := r.URL.Query().Get("keyword")

		results, err := ts.Search(r.Context(), keyword)
		if err != nil {
			l.Error("search failed", "error", err.Error(), "keyword", keyword)
			rd.ServerError(w)
			return
		}

		rd.Page(w, http.StatusOK, "search.html", searchPageData{Keyword: keyword, Results: results})
	})
}

// Demo bootstrap: seed the well known demo users and a couple of entries.
// Registered only in demo mode.
func handleSeedDemo(as authService, storage seeder, rd *render.Renderer, l logger.Logger) http.Handler {
	demoUsers := []struct {
		username string
		password string
	}{
		{"alice", "alicepw"},
		{"bob", "bobpw"},
	}
	demoEntries := []repository.SeedEntry{
		{Username: "alice", Content: "Hello world"},
		{Username: "bob", Content: "Hi there"},
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		users := make([]repository.SeedUser, 0, len(demoUsers))
		for _, u := range demoUsers {
			hash, err := as.HashPassword(u.password)
			if err != nil {
				l.Error("demo seed hashing failed", "error", err.Error())
				rd.ServerError(w)
				return
			}
			users = append(users, repository.SeedUser{Username: u.username, HashedPassword: hash})
		}

		if err := storage.Seed(r.Context(), users, demoEntries); err != nil {
			l.Error("demo seed failed", "error", err.Error())
			rd.ServerError(w)
			return
		}

		http.Redirect(w, r, "/", http.StatusSeeOther)
	})
}
