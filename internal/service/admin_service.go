package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/transport-site/internal/auth"
	"github.com/spec-kit/transport-site/internal/domain"
	"github.com/spec-kit/transport-site/internal/events"
	"github.com/spec-kit/transport-site/internal/repository"
	"github.com/spec-kit/transport-site/internal/storage"
	apperrors "github.com/spec-kit/transport-site/pkg/util"
)

// AdminService manages administrator accounts.
type AdminService struct {
	admins     repository.AdminRepository
	hasher     auth.PasswordHasher
	store      storage.ObjectStore
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// AdminDependencies encapsulates collaborators for admin management.
type AdminDependencies struct {
	AdminRepo  repository.AdminRepository
	Hasher     auth.PasswordHasher
	Store      storage.ObjectStore
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewAdminService constructs the service.
func NewAdminService(deps AdminDependencies) *AdminService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminService{
		admins:     deps.AdminRepo,
		hasher:     deps.Hasher,
		store:      deps.Store,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// Create registers a new admin. actorID is the admin performing the call, if any.
func (s *AdminService) Create(ctx context.Context, actorID *string, email, password string) (*domain.Admin, error) {
	email = domain.NormalizeEmail(email)

	if _, err := s.admins.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("an admin with this email already exists", map[string]any{"field": "email"})
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewInternalError(fmt.Errorf("load admin: %w", err))
	}

	hash, err := hashPassword(ctx, s.hasher, password)
	if err != nil {
		return nil, err
	}

	admin := &domain.Admin{Email: email, PasswordHash: hash}
	if err := s.admins.Create(ctx, admin); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperrors.NewConflict("an admin with this email already exists", map[string]any{"field": "email"})
		}
		return nil, apperrors.NewInternalError(fmt.Errorf("create admin: %w", err))
	}

	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:    events.EventAdminCreated,
		AdminID: admin.ID,
		Email:   admin.Email,
		Actor:   events.Actor{AdminID: actorID},
	})
	return admin, nil
}

// List returns every admin, newest first.
func (s *AdminService) List(ctx context.Context) ([]domain.Admin, error) {
	admins, err := s.admins.List(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(fmt.Errorf("list admins: %w", err))
	}
	if admins == nil {
		admins = []domain.Admin{}
	}
	return admins, nil
}

// Get returns one admin.
func (s *AdminService) Get(ctx context.Context, id string) (*domain.Admin, error) {
	admin, err := s.admins.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("admin", map[string]any{"id": id})
		}
		return nil, apperrors.NewInternalError(fmt.Errorf("load admin: %w", err))
	}
	return admin, nil
}

// Delete removes an admin, its outstanding reset state and its managed profile image.
func (s *AdminService) Delete(ctx context.Context, actorID *string, id string) error {
	admin, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.admins.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFound("admin", map[string]any{"id": id})
		}
		return apperrors.NewInternalError(fmt.Errorf("delete admin: %w", err))
	}

	removeManagedObject(ctx, s.store, s.logger, admin.ProfileImageURL)

	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:    events.EventAdminRemoved,
		AdminID: admin.ID,
		Email:   admin.Email,
		Actor:   events.Actor{AdminID: actorID},
	})
	return nil
}

// EnsureAdmin creates the bootstrap admin unless one with email already exists.
func (s *AdminService) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	if email == "" || password == "" {
		return false, apperrors.NewValidationError("bootstrap admin email and password are required", nil)
	}
	_, err := s.admins.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return false, apperrors.NewInternalError(fmt.Errorf("load admin: %w", err))
	}

	if _, err := s.Create(ctx, nil, email, password); err != nil {
		// a concurrent seed won the race
		if apperrors.HasCode(err, apperrors.CodeConflict) {
			return false, nil
		}
		return false, err
	}
	s.logger.Info("bootstrap admin created", zap.String("email", domain.NormalizeEmail(email)))
	return true, nil
}

// removeManagedObject deletes the object behind url when this deployment's
// store owns it. Failures are logged; the database change already happened.
func removeManagedObject(ctx context.Context, store storage.ObjectStore, logger *zap.Logger, url *string) {
	if store == nil || url == nil {
		return
	}
	key, ok := store.KeyFromURL(*url)
	if !ok {
		return
	}
	if err := store.Delete(ctx, key); err != nil {
		logger.Warn("failed to remove stored object", zap.String("key", key), zap.Error(err))
	}
}
