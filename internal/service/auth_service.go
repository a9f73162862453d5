package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/transport-site/internal/auth"
	"github.com/spec-kit/transport-site/internal/domain"
	"github.com/spec-kit/transport-site/internal/events"
	"github.com/spec-kit/transport-site/internal/observability"
	"github.com/spec-kit/transport-site/internal/repository"
	apperrors "github.com/spec-kit/transport-site/pkg/util"
)

// User-facing messages. Failure messages never say which check failed.
const (
	MsgInvalidCredentials  = "invalid credentials"
	MsgIncorrectPassword   = "current password is incorrect"
	ForgotPasswordMessage  = "If this email exists, a password reset link has been sent"
	MsgPasswordReset       = "password has been reset"
	MsgPasswordChanged     = "password has been changed"
	msgInvalidSessionToken = "invalid or expired token"
)

// ResetNotifier delivers a reset token to the owner of email.
type ResetNotifier interface {
	SendPasswordReset(ctx context.Context, email, token string) error
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Admin     domain.Identity
}

// AuthService coordinates login and the credential lifecycle of admins.
type AuthService struct {
	admins     repository.AdminRepository
	hasher     auth.PasswordHasher
	resets     *auth.ResetTokenIssuer
	tokens     *auth.TokenManager
	notifier   ResetNotifier
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	AdminRepo    repository.AdminRepository
	Hasher       auth.PasswordHasher
	ResetIssuer  *auth.ResetTokenIssuer
	TokenManager *auth.TokenManager
	Notifier     ResetNotifier
	Dispatcher   events.Dispatcher
	Metrics      *observability.Metrics
	Logger       *zap.Logger
}

// NewAuthService builds the service. Dispatcher, Metrics and Logger are optional.
func NewAuthService(deps AuthDependencies) (*AuthService, error) {
	switch {
	case deps.AdminRepo == nil:
		return nil, errors.New("auth service: admin repository is required")
	case deps.Hasher == nil:
		return nil, errors.New("auth service: password hasher is required")
	case deps.ResetIssuer == nil:
		return nil, errors.New("auth service: reset token issuer is required")
	case deps.TokenManager == nil:
		return nil, errors.New("auth service: token manager is required")
	case deps.Notifier == nil:
		return nil, errors.New("auth service: reset notifier is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		admins:     deps.AdminRepo,
		hasher:     deps.Hasher,
		resets:     deps.ResetIssuer,
		tokens:     deps.TokenManager,
		notifier:   deps.Notifier,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     logger,
	}, nil
}

// Login verifies credentials and issues a session token. Unknown emails and
// wrong passwords fail identically, and both pay for one hash comparison.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	admin, err := s.admins.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewInternalError(fmt.Errorf("load admin: %w", err))
		}
		s.hasher.Verify(ctx, password, s.hasher.DummyHash())
		s.rejected("login", "unknown_email")
		return nil, apperrors.NewUnauthorized(MsgInvalidCredentials)
	}

	if !s.hasher.Verify(ctx, password, admin.PasswordHash) {
		s.rejected("login", "bad_password", zap.String("admin_id", admin.ID))
		return nil, apperrors.NewUnauthorized(MsgInvalidCredentials)
	}

	session, err := s.tokens.IssueFor(admin)
	if err != nil {
		return nil, apperrors.NewInternalError(fmt.Errorf("issue session: %w", err))
	}
	s.metrics.RecordAuth("login", "success")
	return &LoginResult{Token: session.Token, ExpiresAt: session.ExpiresAt, Admin: session.Identity}, nil
}

// ForgotPassword starts a reset for email if it belongs to an admin. The
// result never reveals whether it did.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (string, error) {
	admin, err := s.admins.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.metrics.RecordAuth("forgot_password", "unknown_email")
			return ForgotPasswordMessage, nil
		}
		return "", apperrors.NewInternalError(fmt.Errorf("load admin: %w", err))
	}

	token, err := s.resets.Issue(ctx, admin)
	if err != nil {
		return "", err
	}

	if err := s.notifier.SendPasswordReset(ctx, admin.Email, token); err != nil {
		s.logger.Error("password reset email not queued",
			zap.String("admin_id", admin.ID),
			zap.String("email", admin.Email),
			zap.Error(err))
	}

	s.publish(ctx, events.EventPasswordResetRequested, admin, nil)
	s.metrics.RecordAuth("forgot_password", "issued")
	return ForgotPasswordMessage, nil
}

// ResetPassword replaces the password of the admin holding token. The token
// is consumed atomically, so concurrent resets with one token succeed once.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) (string, error) {
	admin, err := s.resets.Consume(ctx, token)
	if err != nil {
		if reason := resetRejection(err); reason != "" {
			s.rejected("reset_password", reason)
		}
		return "", err
	}

	hash, err := s.hashPassword(ctx, newPassword)
	if err != nil {
		return "", err
	}

	err = s.admins.CompletePasswordReset(ctx, admin.ID, token, s.resets.Now(), hash)
	if err != nil {
		if errors.Is(err, repository.ErrResetTokenMismatch) {
			s.rejected("reset_password", "token_consumed", zap.String("admin_id", admin.ID))
			return "", apperrors.NewInvalidToken(auth.MsgInvalidResetToken)
		}
		return "", apperrors.NewInternalError(fmt.Errorf("complete reset: %w", err))
	}

	s.publish(ctx, events.EventPasswordReset, admin, nil)
	s.metrics.RecordAuth("reset_password", "success")
	return MsgPasswordReset, nil
}

// ChangePassword replaces the password of adminID after checking the current one.
func (s *AuthService) ChangePassword(ctx context.Context, adminID, currentPassword, newPassword string) (string, error) {
	admin, err := s.admins.GetByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", apperrors.NewUnauthorized(MsgInvalidCredentials)
		}
		return "", apperrors.NewInternalError(fmt.Errorf("load admin: %w", err))
	}

	if !s.hasher.Verify(ctx, currentPassword, admin.PasswordHash) {
		s.rejected("change_password", "bad_password", zap.String("admin_id", admin.ID))
		return "", apperrors.NewUnauthorized(MsgIncorrectPassword)
	}

	hash, err := s.hashPassword(ctx, newPassword)
	if err != nil {
		return "", err
	}

	if err := s.admins.UpdatePassword(ctx, admin.ID, hash); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", apperrors.NewUnauthorized(MsgInvalidCredentials)
		}
		return "", apperrors.NewInternalError(fmt.Errorf("update password: %w", err))
	}

	s.publish(ctx, events.EventPasswordChanged, admin, &admin.ID)
	s.metrics.RecordAuth("change_password", "success")
	return MsgPasswordChanged, nil
}

// Authenticate resolves a session token to its admin.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.Admin, error) {
	claims, err := s.tokens.ParseToken(token)
	if err != nil {
		return nil, apperrors.NewUnauthorized(msgInvalidSessionToken)
	}

	admin, err := s.admins.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewUnauthorized(msgInvalidSessionToken)
		}
		return nil, apperrors.NewInternalError(fmt.Errorf("load admin: %w", err))
	}
	return admin, nil
}

// rejected records a refused credential check. Fields never include the
// submitted password or token.
func (s *AuthService) rejected(action, reason string, fields ...zap.Field) {
	s.metrics.RecordAuth(action, "rejected")
	s.logger.Info("auth rejected",
		append([]zap.Field{zap.String("action", action), zap.String("reason", reason)}, fields...)...)
}

func resetRejection(err error) string {
	domainErr := apperrors.ToDomainError(err)
	if domainErr.Code != apperrors.CodeInvalidToken {
		return ""
	}
	if domainErr.Message == auth.MsgExpiredResetToken {
		return "expired_token"
	}
	return "invalid_token"
}

func (s *AuthService) hashPassword(ctx context.Context, password string) (string, error) {
	return hashPassword(ctx, s.hasher, password)
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, admin *domain.Admin, actor *string) {
	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:    eventType,
		AdminID: admin.ID,
		Email:   admin.Email,
		Actor:   events.Actor{AdminID: actor},
	})
}

func hashPassword(ctx context.Context, hasher auth.PasswordHasher, password string) (string, error) {
	hash, err := hasher.Hash(ctx, password)
	switch {
	case err == nil:
		return hash, nil
	case errors.Is(err, auth.ErrEmptyPassword), errors.Is(err, auth.ErrPasswordTooLong):
		return "", apperrors.NewValidationError(err.Error(), map[string]any{"field": "password"})
	default:
		return "", apperrors.NewInternalError(fmt.Errorf("hash password: %w", err))
	}
}

func publishEvent(ctx context.Context, dispatcher events.Dispatcher, logger *zap.Logger, event events.Event) {
	if dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now().UTC()
	if err := dispatcher.Publish(ctx, event); err != nil {
		logger.Warn("event not published", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}
