package handlers

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/tegarrramadhaaan/timeline/internal/logger"
	"github.com/tegarrramadhaaan/timeline/internal/models"
	"github.com/tegarrramadhaaan/timeline/internal/repository"
	"github.com/tegarrramadhaaan/timeline/internal/repository/postgres"
	"github.com/tegarrramadhaaan/timeline/internal/service/auth"
	"github.com/tegarrramadhaaan/timeline/internal/service/timeline"
	"github.com/tegarrramadhaaan/timeline/internal/testutil"
)

type testServer struct {
	*httptest.Server
	tline   *timeline.TimelineService
	storage repository.Storage
}

// client returns a cookie-aware client that never follows redirects,
// so every handler's own status code and Location stay observable
func (s *testServer) client(t *testing.T) *http.Client {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func (s *testServer) postForm(t *testing.T, c *http.Client, path string, form url.Values) *http.Response {
	resp, err := c.Post(s.URL+path, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	require.NoError(t, err)
	return resp
}

func (s *testServer) get(t *testing.T, c *http.Client, path string) *http.Response {
	resp, err := c.Get(s.URL + path)
	require.NoError(t, err)
	return resp
}

func (s *testServer) register(t *testing.T, c *http.Client, username, password string) {
	resp := s.postForm(t, c, "/register", url.Values{"username": {username}, "password": {password}})
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode, "registration should log the user in and redirect")
}

func readBody(t *testing.T, resp *http.Response) string {
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func Test_Router(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	// Run the full production stack over a rolled back transaction
	serve := func(t *testing.T, cfg Config, fn func(srv *testServer)) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			storage := postgres.NewStorage(tx)

			as, err := auth.NewService(auth.Config{SecretKey: "test-secret"}, storage.User())
			require.NoError(t, err)

			ts := timeline.NewService(storage.Entry(), logger.NewNoOpLogger())

			renderer, err := NewRenderer()
			require.NoError(t, err)

			h := NewRouter(as, ts, storage, renderer, logger.NewNoOpLogger(), cfg)
			srv := httptest.NewServer(h)
			defer srv.Close()

			fn(&testServer{Server: srv, tline: ts, storage: storage})
		})
	}

	t.Run("anonymous index redirects to login", func(t *testing.T) {
		serve(t, Config{}, func(srv *testServer) {
			resp := srv.get(t, srv.client(t), "/")
			defer func() { _ = resp.Body.Close() }()

			require.Equal(t, http.StatusSeeOther, resp.StatusCode)
			require.Equal(t, "/login", resp.Header.Get("Location"))
			require.Equal(t, "no-store", resp.Header.Get("Cache-Control"))
		})
	})

	t.Run("register sets session and shows feed", func(t *testing.T) {
		serve(t, Config{}, func(srv *testServer) {
			c := srv.client(t)

			resp := srv.postForm(t, c, "/register", url.Values{
				"username": {"carol"},
				"password": {"secret1"},
			})
			_ = resp.Body.Close()
			require.Equal(t, http.StatusSeeOther, resp.StatusCode)
			require.Equal(t, "/", resp.Header.Get("Location"))

			require.Len(t, resp.Cookies(), 1)
			cookie := resp.Cookies()[0]
			require.Equal(t, "session_token", cookie.Name)
			require.True(t, cookie.HttpOnly, "session cookie must be HttpOnly")
			require.NotEmpty(t, cookie.Value)

			body := readBody(t, srv.get(t, c, "/"))
			require.Contains(t, body, "carol")
		})
	})

	t.Run("register rejects short credentials", func(t *testing.T) {
		serve(t, Config{}, func(srv *testServer) {
			resp := srv.postForm(t, srv.client(t), "/register", url.Values{
				"username": {"x"},
				"password": {"short"},
			})
			body := readBody(t, resp)

			require.Equal(t, http.StatusBadRequest, resp.StatusCode)
			require.Contains(t, body, "Registration failed")
		})
	})

	t.Run("register duplicate username", func(t *testing.T) {
		serve(t, Config{}, func(srv *testServer) {
			srv.register(t, srv.client(t), "carol", "secret1")

			resp := srv.postForm(t, srv.client(t), "/register", url.Values{
				"username": {"carol"},
				"password": {"othersecret"},
			})
			body := readBody(t, resp)

			require.Equal(t, http.StatusConflict, resp.StatusCode)
			require.Contains(t, body, "This username is already taken.")
		})
	})

	t.Run("login with wrong credentials", func(t *testing.T) {
		serve(t, Config{}, func(srv *testServer) {
			srv.register(t, srv.client(t), "carol", "secret1")

			// Wrong password and unknown user read exactly the same
			for _, form := range []url.Values{
				{"username": {"carol"}, "password": {"wrongpass"}},
				{"username": {"nobody"}, "password": {"whatever"}},
			} {
				resp := srv.postForm(t, srv.client(t), "/login", form)
				body := readBody(t, resp)

				require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
				require.Contains(t, body, "Invalid username or password.")
				require.Empty(t, resp.Cookies())
			}
		})
	})

	t.Run("login form validation", func(t *testing.T) {
		serve(t, Config{}, func(srv *testServer) {
			resp := srv.postForm(t, srv.client(t), "/login", url.Values{"username": {"carol"}})
			_ = resp.Body.Close()

			require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	})

	t.Run("created entry appears in feed", func(t *testing.T) {
		serve(t, Config{}, func(srv *testServer) {
			c := srv.client(t)
			srv.register(t, c, "carol", "secret1")

			resp := srv.postForm(t, c, "/create", url.Values{"content": {"Hello from carol"}})
			_ = resp.Body.Close()
			require.Equal(t, http.StatusSeeOther, resp.StatusCode)
			require.Equal(t, "/", resp.Header.Get("Location"))

			body := readBody(t, srv.get(t, c, "/"))
			require.Contains(t, body, "Hello from carol")
		})
	})

	t.Run("blank entry is rejected", func(t *testing.T) {
		serve(t, Config{}, func(srv *testServer) {
			c := srv.client(t)
			srv.register(t, c, "carol", "secret1")

			resp := srv.postForm(t, c, "/create", url.Values{"content": {"   "}})
			body := readBody(t, resp)

			require.Equal(t, http.StatusBadRequest, resp.StatusCode)
			require.Contains(t, body, "Entry content must not be empty.")
		})
	})

	t.Run("entry content renders escaped", func(t *testing.T) {
		serve(t, Config{}, func(srv *testServer) {
			c := srv.client(t)
			srv.register(t, c, "carol", "secret1")

			resp := srv.postForm(t, c, "/create", url.Values{
				"content": {`<script>alert("pwned")</script>`},
			})
			_ = resp.Body.Close()
			require.Equal(t, http.StatusSeeOther, resp.StatusCode)

			body := readBody(t, srv.get(t, c, "/"))
			require.NotContains(t, body, "<script>alert")
			require.Contains(t, body, "&lt;script&gt;")
		})
	})

	t.Run("delete entry", func(t *testing.T) {
		serve(t, Config{}, func(srv *testServer) {
			owner := srv.client(t)
			other := srv.client(t)
			srv.register(t, owner, "carol", "secret1")
			srv.register(t, other, "mallory", "secret2")

			carol, err := srv.storage.User().GetByUsername(t.Context(), "carol")
			require.NoError(t, err)
			entry, err := srv.tline.AddEntry(t.Context(), &models.SessionUser{ID: carol.ID, Username: carol.Username}, "to be deleted")
			require.NoError(t, err)

			path := "/delete/" + strconv.FormatInt(entry.ID, 10)

			// Someone else's delete is a silent no-op
			resp := srv.postForm(t, other, path, nil)
			_ = resp.Body.Close()
			require.Equal(t, http.StatusSeeOther, resp.StatusCode)
			body := readBody(t, srv.get(t, other, "/"))
			require.Contains(t, body, "to be deleted")

			// The owner's delete removes the entry
			resp = srv.postForm(t, owner, path, nil)
			_ = resp.Body.Close()
			require.Equal(t, http.StatusSeeOther, resp.StatusCode)
			body = readBody(t, srv.get(t, owner, "/"))
			require.NotContains(t, body, "to be deleted")
		})
	})

	t.Run("delete with malformed id", func(t *testing.T) {
		serve(t, Config{}, func(srv *testServer) {
			c := srv.client(t)
			srv.register(t, c, "carol", "secret1")

			resp := srv.postForm(t, c, "/delete/notanumber", nil)
			_ = resp.Body.Close()

			require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	})

	t.Run("search matches substring and escapes keyword", func(t *testing.T) {
		serve(t, Config{}, func(srv *testServer) {
			c := srv.client(t)
			srv.register(t, c, "carol", "secret1")

			resp := srv.postForm(t, c, "/create", url.Values{"content": {"Hello world"}})
			_ = resp.Body.Close()
			resp = srv.postForm(t, c, "/create", url.Values{"content": {"Something else"}})
			_ = resp.Body.Close()

			body := readBody(t, srv.get(t, c, "/search?keyword=wor"))
			require.Contains(t, body, "Hello world")
			require.NotContains(t, body, "Something else")

			body = readBody(t, srv.get(t, c, "/search?keyword=nosuchthing"))
			require.Contains(t, body, "No results found.")

			body = readBody(t, srv.get(t, c, "/search?keyword="+url.QueryEscape("<b>bold</b>")))
			require.NotContains(t, body, "<b>bold</b>")
			require.Contains(t, body, "&lt;b&gt;")
		})
	})

	t.Run("logout clears the session", func(t *testing.T) {
		serve(t, Config{}, func(srv *testServer) {
			c := srv.client(t)
			srv.register(t, c, "carol", "secret1")

			resp := srv.get(t, c, "/logout")
			_ = resp.Body.Close()
			require.Equal(t, http.StatusSeeOther, resp.StatusCode)
			require.Equal(t, "/login", resp.Header.Get("Location"))

			require.Len(t, resp.Cookies(), 1)
			require.Negative(t, resp.Cookies()[0].MaxAge, "logout must expire the session cookie")

			resp = srv.get(t, c, "/")
			_ = resp.Body.Close()
			require.Equal(t, http.StatusSeeOther, resp.StatusCode)
			require.Equal(t, "/login", resp.Header.Get("Location"))
		})
	})

	t.Run("init seeds demo data in demo mode", func(t *testing.T) {
		serve(t, Config{DemoMode: true}, func(srv *testServer) {
			c := srv.client(t)

			resp := srv.get(t, c, "/init")
			_ = resp.Body.Close()
			require.Equal(t, http.StatusSeeOther, resp.StatusCode)

			// Seed runs fine more than once
			resp = srv.get(t, c, "/init")
			_ = resp.Body.Close()
			require.Equal(t, http.StatusSeeOther, resp.StatusCode)

			resp = srv.postForm(t, c, "/login", url.Values{"username": {"alice"}, "password": {"alicepw"}})
			_ = resp.Body.Close()
			require.Equal(t, http.StatusSeeOther, resp.StatusCode)

			body := readBody(t, srv.get(t, c, "/"))
			require.Contains(t, body, "Hello world")
			require.Contains(t, body, "Hi there")
		})
	})

	t.Run("init is not routed outside demo mode", func(t *testing.T) {
		serve(t, Config{}, func(srv *testServer) {
			resp := srv.get(t, srv.client(t), "/init")
			_ = resp.Body.Close()

			require.Equal(t, http.StatusNotFound, resp.StatusCode)
		})
	})
}
