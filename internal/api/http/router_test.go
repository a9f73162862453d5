package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	apihttp "github.com/spec-kit/transport-site/internal/api/http"
	"github.com/spec-kit/transport-site/internal/api/http/handlers"
	"github.com/spec-kit/transport-site/internal/auth"
	"github.com/spec-kit/transport-site/internal/events"
	"github.com/spec-kit/transport-site/internal/observability"
	"github.com/spec-kit/transport-site/internal/persistence"
	"github.com/spec-kit/transport-site/internal/service"
	"github.com/spec-kit/transport-site/internal/storage"
)

type tokenSink struct {
	mu     sync.Mutex
	tokens map[string]string
}

func (s *tokenSink) SendPasswordReset(_ context.Context, email, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[email] = token
	return nil
}

func (s *tokenSink) last(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens[email]
}

type testServer struct {
	app    *fiber.App
	sink   *tokenSink
	admins *service.AdminService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()
	logger := zap.NewNop()

	sqlDB, err := persistence.OpenSQLite(ctx, persistence.MemoryDSN)
	require.NoError(t, err)
	db := persistence.NewSQLiteDatabase(sqlDB, logger)
	require.NoError(t, db.Migrate(ctx))
	t.Cleanup(db.Close)

	hasher, err := auth.NewBcryptHasher(bcrypt.MinCost, 4)
	require.NoError(t, err)
	store, err := storage.NewLocalStore(t.TempDir(), "/uploads")
	require.NoError(t, err)

	sink := &tokenSink{tokens: map[string]string{}}
	dispatcher := events.NewInMemoryDispatcher(logger)
	metrics := observability.NewMetrics()

	authSvc, err := service.NewAuthService(service.AuthDependencies{
		AdminRepo:    db.Admins(),
		Hasher:       hasher,
		ResetIssuer:  auth.NewResetTokenIssuer(db.Admins(), nil, nil, time.Hour),
		TokenManager: auth.NewTokenManager("router-test-secret", time.Hour, "transport-site", nil),
		Notifier:     sink,
		Dispatcher:   dispatcher,
		Metrics:      metrics,
		Logger:       logger,
	})
	require.NoError(t, err)
	adminSvc := service.NewAdminService(service.AdminDependencies{
		AdminRepo: db.Admins(), Hasher: hasher, Store: store, Dispatcher: dispatcher, Logger: logger,
	})

	const maxUpload = 1024 * 1024
	app := fiber.New(fiber.Config{BodyLimit: 2 * maxUpload})
	apihttp.RegisterMiddlewares(app, apihttp.MiddlewareConfig{Logger: logger, Metrics: metrics, RequestTimeout: 5 * time.Second})
	apihttp.RegisterRoutes(app, apihttp.RouteConfig{
		APIPrefix:        "/api",
		Health:           handlers.NewHealthHandler("transport-site", "test", db, nil),
		Auth:             handlers.NewAuthHandler(authSvc),
		Admins:           handlers.NewAdminsHandler(adminSvc),
		Settings:         handlers.NewSettingsHandler(service.NewSettingsService(db.Settings(), dispatcher, logger)),
		Uploads:          handlers.NewUploadHandler(service.NewUploadService(store, db.Admins(), maxUpload, logger), maxUpload),
		Posts: handlers.NewPostsHandler(service.NewPostService(service.PostDependencies{
			PostRepo: db.Posts(), Dispatcher: dispatcher, Logger: logger,
		})),
		Pages:            handlers.NewPagesHandler(service.NewPageService(db.Pages(), dispatcher, logger)),
		Messages:         handlers.NewMessagesHandler(service.NewMessageService(db.Messages(), dispatcher, logger)),
		AuthMiddleware:   auth.NewAuthMiddleware(authSvc),
		Metrics:          metrics,
		UploadDir:        store.Dir(),
		UploadPublicPath: store.PublicPath(),
	})

	_, err = adminSvc.EnsureAdmin(ctx, "admin@example.com", "changeme123")
	require.NoError(t, err)

	return &testServer{app: app, sink: sink, admins: adminSvc}
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (int, envelope, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	return s.send(t, req, token)
}

func (s *testServer) send(t *testing.T, req *http.Request, token string) (int, envelope, []byte) {
	t.Helper()
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env envelope
	_ = json.Unmarshal(raw, &env)
	return resp.StatusCode, env, raw
}

func (s *testServer) login(t *testing.T, email, password string) string {
	t.Helper()
	status, env, _ := s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": email, "password": password})
	require.Equal(t, http.StatusOK, status)
	var out struct {
		AccessToken string `json:"access_token"`
		User        struct {
			ID    string `json:"id"`
			Email string `json:"email"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	require.NotEmpty(t, out.AccessToken)
	assert.Equal(t, email, out.User.Email)
	return out.AccessToken
}

func TestRoutes_Health(t *testing.T) {
	s := newTestServer(t)

	status, _, raw := s.do(t, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(raw), "alive")

	status, _, raw = s.do(t, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(raw), `"redis":"disabled"`)
}

func TestRoutes_LoginAndMe(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "admin@example.com", "changeme123")

	status, env, raw := s.do(t, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"email":"admin@example.com"`)
	assert.NotContains(t, string(raw), "password")

	status, env, _ = s.do(t, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)

	status, _, _ = s.do(t, http.MethodGet, "/api/auth/me", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestRoutes_LoginFailures(t *testing.T) {
	s := newTestServer(t)

	status, wrong, _ := s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "admin@example.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, status)
	status2, unknown, _ := s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "ghost@example.com", "password": "nope"})
	assert.Equal(t, status, status2)
	require.NotNil(t, wrong.Error)
	require.NotNil(t, unknown.Error)
	assert.Equal(t, wrong.Error, unknown.Error)

	status, env, _ := s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "not-an-email", "password": "x"})
	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)
	assert.Equal(t, "email", env.Error.Details["field"])
}

func TestRoutes_PasswordResetFlow(t *testing.T) {
	s := newTestServer(t)

	_, _, known := s.do(t, http.MethodPost, "/api/auth/forgot-password", "", map[string]string{"email": "admin@example.com"})
	_, _, unknown := s.do(t, http.MethodPost, "/api/auth/forgot-password", "", map[string]string{"email": "ghost@example.com"})
	assert.JSONEq(t, string(known), string(unknown))

	token := s.sink.last("admin@example.com")
	require.NotEmpty(t, token)

	status, _, _ := s.do(t, http.MethodPost, "/api/auth/reset-password", "", map[string]string{"token": token, "newPassword": "newpass456"})
	require.Equal(t, http.StatusOK, status)

	status, env, _ := s.do(t, http.MethodPost, "/api/auth/reset-password", "", map[string]string{"token": token, "newPassword": "newpass456"})
	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "INVALID_TOKEN", env.Error.Code)

	s.login(t, "admin@example.com", "newpass456")
}

func TestRoutes_ChangePassword(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "admin@example.com", "changeme123")

	status, _, _ := s.do(t, http.MethodPost, "/api/auth/change-password", "", map[string]string{"oldPassword": "changeme123", "newPassword": "newpass456"})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, env, _ := s.do(t, http.MethodPost, "/api/auth/change-password", token, map[string]string{"oldPassword": "changeme123", "newPassword": "abc"})
	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "newPassword", env.Error.Details["field"])

	status, _, _ = s.do(t, http.MethodPost, "/api/auth/change-password", token, map[string]string{"oldPassword": "changeme123", "newPassword": "newpass456"})
	require.Equal(t, http.StatusOK, status)
	s.login(t, "admin@example.com", "newpass456")
}

func TestRoutes_Admins(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "admin@example.com", "changeme123")

	status, _, _ := s.do(t, http.MethodGet, "/api/admins", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, env, raw := s.do(t, http.MethodPost, "/api/admins", token, map[string]string{"email": "ops@example.com", "password": "opspass1"})
	require.Equal(t, http.StatusCreated, status)
	assert.NotContains(t, string(raw), "password_hash")
	assert.NotContains(t, string(raw), "reset_token")
	var created struct {
		ID              string  `json:"id"`
		ProfileImageURL *string `json:"profile_image_url"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Nil(t, created.ProfileImageURL)

	status, _, _ = s.do(t, http.MethodPost, "/api/admins", token, map[string]string{"email": "OPS@example.com", "password": "opspass1"})
	assert.Equal(t, http.StatusConflict, status)

	status, env, _ = s.do(t, http.MethodGet, "/api/admins", token, nil)
	require.Equal(t, http.StatusOK, status)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list, 2)

	status, _, _ = s.do(t, http.MethodGet, "/api/admins/"+created.ID, token, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _, _ = s.do(t, http.MethodDelete, "/api/admins/"+created.ID, token, nil)
	assert.Equal(t, http.StatusOK, status)

	status, env, _ = s.do(t, http.MethodGet, "/api/admins/"+created.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestRoutes_Settings(t *testing.T) {
	s := newTestServer(t)

	status, env, _ := s.do(t, http.MethodGet, "/api/settings", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"site_name":"Dayang Transport"`)
	assert.Contains(t, string(env.Data), `"social_links":{}`)

	patch := map[string]any{"site_name": "Dayang Express", "social_links": map[string]string{"facebook": "https://facebook.com/dayang"}}
	status, _, _ = s.do(t, http.MethodPatch, "/api/settings", "", patch)
	assert.Equal(t, http.StatusUnauthorized, status)

	token := s.login(t, "admin@example.com", "changeme123")
	status, env, _ = s.do(t, http.MethodPatch, "/api/settings", token, patch)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"site_name":"Dayang Express"`)

	status, _, _ = s.do(t, http.MethodPut, "/api/settings", token, map[string]any{"logo": "not a url"})
	assert.Equal(t, http.StatusBadRequest, status)
}

func multipartRequest(t *testing.T, method, path string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", "logo.png")
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	return req
}

func TestRoutes_Upload(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "admin@example.com", "changeme123")
	png := append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 64)...)

	status, _, _ := s.send(t, multipartRequest(t, http.MethodPost, "/api/upload", png), "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, env, _ := s.send(t, multipartRequest(t, http.MethodPost, "/api/upload", png), token)
	require.Equal(t, http.StatusCreated, status)
	var uploaded struct {
		URL      string `json:"url"`
		Filename string `json:"filename"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &uploaded))
	assert.True(t, strings.HasPrefix(uploaded.URL, "/uploads/"))

	status, _, raw := s.do(t, http.MethodGet, uploaded.URL, "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, png, raw)

	status, env, _ = s.send(t, multipartRequest(t, http.MethodPost, "/api/upload", []byte("hello")), token)
	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)

	status, _, _ = s.do(t, http.MethodPost, "/api/upload", token, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestRoutes_ProfileImage(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "admin@example.com", "changeme123")
	png := append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 64)...)

	status, env, _ := s.do(t, http.MethodGet, "/api/upload/profile", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"url":null}`, string(env.Data))

	status, _, _ = s.send(t, multipartRequest(t, http.MethodPut, "/api/upload/profile", png), token)
	require.Equal(t, http.StatusOK, status)

	status, env, _ = s.do(t, http.MethodGet, "/api/upload/profile", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"/uploads/`)

	status, _, _ = s.do(t, http.MethodDelete, "/api/upload/profile", token, nil)
	require.Equal(t, http.StatusOK, status)
}

func TestRoutes_NotFoundAndMetrics(t *testing.T) {
	s := newTestServer(t)

	status, env, _ := s.do(t, http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)

	status, _, raw := s.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(raw), "transport_site_http_requests_total")
	assert.Contains(t, string(raw), "transport_site_http_errors_total")
}
