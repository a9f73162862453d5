package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/transport-site/internal/api/http"
	"github.com/spec-kit/transport-site/internal/api/http/handlers"
	"github.com/spec-kit/transport-site/internal/auth"
	"github.com/spec-kit/transport-site/internal/config"
	"github.com/spec-kit/transport-site/internal/events"
	"github.com/spec-kit/transport-site/internal/mail"
	"github.com/spec-kit/transport-site/internal/observability"
	"github.com/spec-kit/transport-site/internal/persistence"
	"github.com/spec-kit/transport-site/internal/service"
	"github.com/spec-kit/transport-site/internal/storage"
	"github.com/spec-kit/transport-site/internal/worker"
)

const (
	shutdownTimeout = 10 * time.Second
	eventBuffer     = 256
)

func newServeCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadRuntime()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck
			if cfg.App.Version == "dev" {
				cfg.App.Version = version
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, logger)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	db, err := openDatabase(ctx, cfg, logger, cfg.Database.RunMigrations)
	if err != nil {
		return err
	}
	defer db.Close()

	redis := persistence.NewRedis(ctx, cfg.Redis, cfg.App.Name, logger)
	defer redis.Close()

	hasher, err := auth.NewBcryptHasher(cfg.Auth.BcryptCost, cfg.Auth.HashConcurrency)
	if err != nil {
		return err
	}

	store, err := storage.New(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("init upload store: %w", err)
	}

	mailer, err := newMailer(cfg, logger)
	if err != nil {
		return err
	}
	queue := worker.NewMailQueue(mailer, worker.MailQueueConfig{
		FrontendURL: cfg.App.FrontendURL,
		ResetTTL:    cfg.Auth.PasswordResetTTL(),
		Size:        cfg.SMTP.QueueSize,
		Workers:     cfg.SMTP.Workers,
		Timeout:     cfg.SMTP.Timeout(),
	}, logger)

	dispatcher := events.NewAsyncDispatcher(logger, eventBuffer)
	metrics := observability.NewMetrics()
	admins := db.Admins()

	authService, err := service.NewAuthService(service.AuthDependencies{
		AdminRepo:    admins,
		Hasher:       hasher,
		ResetIssuer:  auth.NewResetTokenIssuer(admins, auth.SystemClock, nil, cfg.Auth.PasswordResetTTL()),
		TokenManager: auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL(), cfg.Auth.JWTIssuer, auth.SystemClock),
		Notifier:     queue,
		Dispatcher:   dispatcher,
		Metrics:      metrics,
		Logger:       logger,
	})
	if err != nil {
		return err
	}
	adminService := service.NewAdminService(service.AdminDependencies{
		AdminRepo:  admins,
		Hasher:     hasher,
		Store:      store,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	settingsService := service.NewSettingsService(db.Settings(), dispatcher, logger)
	uploadService := service.NewUploadService(store, admins, cfg.Upload.MaxFileSize, logger)

	var listCache service.ListCache
	if redis != nil {
		listCache = redis
	}
	postService := service.NewPostService(service.PostDependencies{
		PostRepo:   db.Posts(),
		Cache:      listCache,
		CacheTTL:   cfg.Redis.CacheTTL(),
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	pageService := service.NewPageService(db.Pages(), dispatcher, logger)
	messageService := service.NewMessageService(db.Messages(), dispatcher, logger)

	notifications := service.NewNotificationService(dispatcher, queue, logger)
	stopWorkers := worker.StartNotificationWorker(notifications, queue)
	defer func() {
		// events drain into the queue before the queue itself drains
		dispatcher.Close()
		stopWorkers()
	}()

	if cfg.Admin.Email != "" && cfg.Admin.Password != "" {
		if _, err := adminService.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password); err != nil {
			return fmt.Errorf("bootstrap admin: %w", err)
		}
	}

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		BodyLimit:             int(cfg.Upload.MaxFileSize) + 1024*1024,
		DisableStartupMessage: true,
	})
	httptransport.RegisterMiddlewares(app, httptransport.MiddlewareConfig{
		Logger:         logger,
		Metrics:        metrics,
		RequestTimeout: cfg.App.RequestTimeout(),
		AllowOrigins:   cfg.App.FrontendURL,
	})

	routes := httptransport.RouteConfig{
		APIPrefix:      cfg.App.APIPrefix,
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, db, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Admins:         handlers.NewAdminsHandler(adminService),
		Settings:       handlers.NewSettingsHandler(settingsService),
		Uploads:        handlers.NewUploadHandler(uploadService, cfg.Upload.MaxFileSize),
		Posts:          handlers.NewPostsHandler(postService),
		Pages:          handlers.NewPagesHandler(pageService),
		Messages:       handlers.NewMessagesHandler(messageService),
		AuthMiddleware: auth.NewAuthMiddleware(authService),
		Metrics:        metrics,
	}
	if local, ok := store.(*storage.LocalStore); ok {
		routes.UploadDir = local.Dir()
		routes.UploadPublicPath = local.PublicPath()
	}
	httptransport.RegisterRoutes(app, routes)

	listenErr := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.App.Addr()), zap.String("db", cfg.Database.Driver))
		listenErr <- app.Listen(cfg.App.Addr())
	}()

	select {
	case err := <-listenErr:
		if err != nil {
			return fmt.Errorf("fiber listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		logger.Warn("http shutdown", zap.Error(err))
	}
	return nil
}

func newMailer(cfg *config.Config, logger *zap.Logger) (mail.Mailer, error) {
	if !cfg.SMTP.Enabled() {
		logger.Warn("SMTP not configured; password reset emails will be dropped")
		return mail.DisabledMailer{Logger: logger}, nil
	}
	mailer, err := mail.NewSMTPMailer(cfg.SMTP)
	if err != nil {
		return nil, fmt.Errorf("init smtp mailer: %w", err)
	}
	return mailer, nil
}
