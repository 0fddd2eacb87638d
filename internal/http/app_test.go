package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/stretchr/testify/require"

	"bloomadmin/internal/backend"
	"bloomadmin/internal/config"
	"bloomadmin/internal/http/handlers"
	applog "bloomadmin/internal/log"
	"bloomadmin/internal/repos"
)

const hookSecret = "hook-secret"

type testEnv struct {
	app  *fiber.App
	deps *handlers.Deps
	shop *fakeShop
}

// newConsole wires the console the way main does, against a fake shop backend.
func newConsole(t *testing.T) *testEnv {
	t.Helper()
	shop := newFakeShop(t)
	cfg := config.Config{
		DBDSN:          ":memory:",
		SessionSecret:  "test-secret",
		SessionTTL:     time.Hour,
		HookSecret:     hookSecret,
		PageSize:       10,
		SearchDebounce: 10 * time.Millisecond,
		BackendTimeout: 5 * time.Second,
	}
	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	deps := handlers.NewDeps(db, cfg, backend.New(shop.URL(), cfg.BackendTimeout))
	t.Cleanup(deps.Registry.CloseAll)

	app := fiber.New(fiber.Config{
		Views: handlers.NewEngine("../../web/templates"),
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			code := fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
				code = fe.Code
			}
			return c.Status(code).Render("notfound", fiber.Map{
				"Message": "Something went wrong. Please try again.",
			})
		},
	})
	app.Server().MaxRequestBodySize = 8 << 20
	app.Use(requestid.New())
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "form:csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		ContextKey:     "csrf",
		Next:           func(c *fiber.Ctx) bool { return strings.HasPrefix(c.Path(), "/hooks/") },
	}))
	app.Get("/login", deps.AuthHandler.LoginForm)
	app.Post("/login", limiter.New(limiter.Config{Max: 100, Expiration: time.Minute}), deps.AuthHandler.Login)
	handlers.MountAdmin(app, deps)
	return &testEnv{app: app, deps: deps, shop: shop}
}

func cookieValue(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

// session is a signed-in browser: the session cookie plus the CSRF token.
type session struct {
	token string
	csrf  string
}

func (e *testEnv) csrfToken(t *testing.T) string {
	t.Helper()
	resp, err := e.app.Test(httptest.NewRequest("GET", "/login", nil))
	require.NoError(t, err)
	tok := cookieValue(resp, "csrf_")
	require.NotEmpty(t, tok, "csrf token missing")
	return tok
}

func (e *testEnv) postLogin(t *testing.T, csrfTok, email, password string) *http.Response {
	t.Helper()
	form := url.Values{"csrf": {csrfTok}, "email": {email}, "password": {password}}
	req := httptest.NewRequest("POST", "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: "csrf_", Value: csrfTok})
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (e *testEnv) login(t *testing.T) session {
	t.Helper()
	tok := e.csrfToken(t)
	resp := e.postLogin(t, tok, adminEmail, adminPassword)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	s := session{token: cookieValue(resp, handlers.SessionCookie), csrf: tok}
	require.NotEmpty(t, s.token, "session cookie missing")
	return s
}

func (s session) cookies(req *http.Request) {
	req.AddCookie(&http.Cookie{Name: handlers.SessionCookie, Value: s.token})
	req.AddCookie(&http.Cookie{Name: "csrf_", Value: s.csrf})
}

func (e *testEnv) get(t *testing.T, s session, target string) *http.Response {
	t.Helper()
	req := httptest.NewRequest("GET", target, nil)
	s.cookies(req)
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (e *testEnv) post(t *testing.T, s session, target string, form url.Values) *http.Response {
	t.Helper()
	if form == nil {
		form = url.Values{}
	}
	form.Set("csrf", s.csrf)
	req := httptest.NewRequest("POST", target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	s.cookies(req)
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

// flash decodes the one-shot message left for the next page.
func flash(resp *http.Response) string {
	v, err := url.QueryUnescape(cookieValue(resp, "flash"))
	if err != nil {
		return ""
	}
	return v
}

type logEntry struct {
	Level  string                 `json:"level"`
	Action string                 `json:"action"`
	Admin  string                 `json:"admin"`
	Fields map[string]interface{} `json:"fields"`
}

type lockedWriter struct {
	w  *bytes.Buffer
	mu *sync.Mutex
}

func (lw *lockedWriter) Write(p []byte) (int, error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	return lw.w.Write(p)
}

// capture logs by temporarily replacing the standard logger output
func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	var buf bytes.Buffer
	var mu sync.Mutex
	oldW := log.Writer()
	oldFlags := log.Flags()
	log.SetOutput(&lockedWriter{w: &buf, mu: &mu})
	log.SetFlags(0) // remove timestamps to make JSON parseable
	defer func() {
		log.SetOutput(oldW)
		log.SetFlags(oldFlags)
	}()

	fn()

	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var e logEntry
		if err := json.Unmarshal([]byte(line), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries
}

func findLog(entries []logEntry, action string) (logEntry, bool) {
	for _, e := range entries {
		if e.Action == action {
			return e, true
		}
	}
	return logEntry{}, false
}
