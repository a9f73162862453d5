package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/transport-site/internal/auth"
	"github.com/spec-kit/transport-site/internal/events"
	"github.com/spec-kit/transport-site/internal/persistence"
	"github.com/spec-kit/transport-site/internal/service"
	"github.com/spec-kit/transport-site/internal/storage"
)

const (
	testSecret = "test-secret"
	resetTTL   = time.Hour
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// recordingNotifier keeps the last token delivered per address.
type recordingNotifier struct {
	mu      sync.Mutex
	tokens  map[string][]string
	changed []string
	err     error
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{tokens: map[string][]string{}}
}

func (n *recordingNotifier) SendPasswordReset(_ context.Context, email, token string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.tokens[email] = append(n.tokens[email], token)
	return n.err
}

func (n *recordingNotifier) SendPasswordChanged(_ context.Context, email string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.changed = append(n.changed, email)
	return nil
}

func (n *recordingNotifier) lastToken(t *testing.T, email string) string {
	t.Helper()
	n.mu.Lock()
	defer n.mu.Unlock()
	tokens := n.tokens[email]
	require.NotEmpty(t, tokens, "no reset token delivered to %s", email)
	return tokens[len(tokens)-1]
}

func (n *recordingNotifier) deliveries(email string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.tokens[email])
}

type testEnv struct {
	db         *persistence.Database
	clock      *fakeClock
	notifier   *recordingNotifier
	dispatcher events.Dispatcher
	store      *storage.LocalStore
	auth       *service.AuthService
	admins     *service.AdminService
	settings   *service.SettingsService
	uploads    *service.UploadService
	posts      *service.PostService
	pages      *service.PageService
	messages   *service.MessageService
}

type envOption func(*envConfig)

type envConfig struct {
	logger  *zap.Logger
	maxSize int64
	cache   service.ListCache
}

func withLogger(logger *zap.Logger) envOption {
	return func(c *envConfig) { c.logger = logger }
}

func withMaxUploadSize(n int64) envOption {
	return func(c *envConfig) { c.maxSize = n }
}

func withListCache(cache service.ListCache) envOption {
	return func(c *envConfig) { c.cache = cache }
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()
	cfg := envConfig{logger: zap.NewNop(), maxSize: 5 * 1024 * 1024}
	for _, opt := range opts {
		opt(&cfg)
	}

	ctx := context.Background()
	sqlDB, err := persistence.OpenSQLite(ctx, persistence.MemoryDSN)
	require.NoError(t, err)
	db := persistence.NewSQLiteDatabase(sqlDB, cfg.logger)
	require.NoError(t, db.Migrate(ctx))
	t.Cleanup(db.Close)

	hasher, err := auth.NewBcryptHasher(bcrypt.MinCost, 4)
	require.NoError(t, err)

	store, err := storage.NewLocalStore(t.TempDir(), "/uploads")
	require.NoError(t, err)

	clock := &fakeClock{now: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)}
	notifier := newRecordingNotifier()
	dispatcher := events.NewInMemoryDispatcher(cfg.logger)

	authSvc, err := service.NewAuthService(service.AuthDependencies{
		AdminRepo:    db.Admins(),
		Hasher:       hasher,
		ResetIssuer:  auth.NewResetTokenIssuer(db.Admins(), clock, nil, resetTTL),
		TokenManager: auth.NewTokenManager(testSecret, 24*time.Hour, "transport-site", clock),
		Notifier:     notifier,
		Dispatcher:   dispatcher,
		Logger:       cfg.logger,
	})
	require.NoError(t, err)

	return &testEnv{
		db:         db,
		clock:      clock,
		notifier:   notifier,
		dispatcher: dispatcher,
		store:      store,
		auth:       authSvc,
		admins: service.NewAdminService(service.AdminDependencies{
			AdminRepo:  db.Admins(),
			Hasher:     hasher,
			Store:      store,
			Dispatcher: dispatcher,
			Logger:     cfg.logger,
		}),
		settings: service.NewSettingsService(db.Settings(), dispatcher, cfg.logger),
		uploads:  service.NewUploadService(store, db.Admins(), cfg.maxSize, cfg.logger),
		posts: service.NewPostService(service.PostDependencies{
			PostRepo:   db.Posts(),
			Cache:      cfg.cache,
			Dispatcher: dispatcher,
			Logger:     cfg.logger,
		}),
		pages:    service.NewPageService(db.Pages(), dispatcher, cfg.logger),
		messages: service.NewMessageService(db.Messages(), dispatcher, cfg.logger),
	}
}

func (e *testEnv) seedAdmin(t *testing.T, email, password string) string {
	t.Helper()
	admin, err := e.admins.Create(context.Background(), nil, email, password)
	require.NoError(t, err)
	return admin.ID
}

var errSMTPDown = errors.New("smtp: connection refused")
