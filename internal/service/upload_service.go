package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/transport-site/internal/repository"
	"github.com/spec-kit/transport-site/internal/storage"
	apperrors "github.com/spec-kit/transport-site/pkg/util"
)

// Accepted image types, matched against the sniffed content rather than the
// client-supplied header.
var allowedImageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// UploadResult describes a stored upload.
type UploadResult struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

// UploadService validates and stores images.
type UploadService struct {
	store   storage.ObjectStore
	admins  repository.AdminRepository
	maxSize int64
	now     func() time.Time
	logger  *zap.Logger
}

// NewUploadService constructs the service.
func NewUploadService(store storage.ObjectStore, admins repository.AdminRepository, maxSize int64, logger *zap.Logger) *UploadService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UploadService{store: store, admins: admins, maxSize: maxSize, now: time.Now, logger: logger}
}

// SaveImage stores data under a generated name and returns its public URL.
func (s *UploadService) SaveImage(ctx context.Context, data []byte) (*UploadResult, error) {
	if len(data) == 0 {
		return nil, apperrors.NewValidationError("no file provided", map[string]any{"field": "file"})
	}
	if s.maxSize > 0 && int64(len(data)) > s.maxSize {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("file too large, max size is %s", humanBytes(s.maxSize)),
			map[string]any{"field": "file", "max_bytes": s.maxSize},
		)
	}

	mt := mimetype.Detect(data)
	if !mimetype.EqualsAny(mt.String(), allowedImageTypes...) {
		return nil, apperrors.NewValidationError(
			"file type not allowed, accepted formats: JPEG, PNG, GIF, WEBP",
			map[string]any{"field": "file", "detected": mt.String()},
		)
	}

	filename := fmt.Sprintf("%d-%s%s", s.now().UnixMilli(), strings.ReplaceAll(uuid.NewString(), "-", "")[:13], mt.Extension())
	url, err := s.store.Put(ctx, filename, data, mt.String())
	if err != nil {
		return nil, apperrors.NewInternalError(fmt.Errorf("store upload: %w", err))
	}
	return &UploadResult{URL: url, Filename: filename}, nil
}

// SetProfileImage stores a new avatar for adminID and removes the previous one.
func (s *UploadService) SetProfileImage(ctx context.Context, adminID string, data []byte) (*UploadResult, error) {
	admin, err := s.admins.GetByID(ctx, adminID)
	if err != nil {
		return nil, s.adminLookupError(adminID, err)
	}

	result, err := s.SaveImage(ctx, data)
	if err != nil {
		return nil, err
	}

	if err := s.admins.UpdateProfileImage(ctx, admin.ID, &result.URL); err != nil {
		removeManagedObject(ctx, s.store, s.logger, &result.URL)
		return nil, s.adminLookupError(adminID, err)
	}

	if admin.ProfileImageURL != nil && *admin.ProfileImageURL != result.URL {
		removeManagedObject(ctx, s.store, s.logger, admin.ProfileImageURL)
	}
	return result, nil
}

// GetProfileImage returns the avatar URL of adminID, or nil when none is set.
func (s *UploadService) GetProfileImage(ctx context.Context, adminID string) (*string, error) {
	admin, err := s.admins.GetByID(ctx, adminID)
	if err != nil {
		return nil, s.adminLookupError(adminID, err)
	}
	return admin.ProfileImageURL, nil
}

// DeleteProfileImage clears the avatar of adminID.
func (s *UploadService) DeleteProfileImage(ctx context.Context, adminID string) error {
	admin, err := s.admins.GetByID(ctx, adminID)
	if err != nil {
		return s.adminLookupError(adminID, err)
	}
	if admin.ProfileImageURL == nil {
		return nil
	}
	if err := s.admins.UpdateProfileImage(ctx, admin.ID, nil); err != nil {
		return s.adminLookupError(adminID, err)
	}
	removeManagedObject(ctx, s.store, s.logger, admin.ProfileImageURL)
	return nil
}

func (s *UploadService) adminLookupError(adminID string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound("admin", map[string]any{"id": adminID})
	}
	return apperrors.NewInternalError(err)
}

func humanBytes(n int64) string {
	const mib = 1024 * 1024
	if n%mib == 0 {
		return fmt.Sprintf("%dMB", n/mib)
	}
	return fmt.Sprintf("%d bytes", n)
}
