package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/transport-site/internal/api/dto"
	"github.com/spec-kit/transport-site/internal/service"
	apperrors "github.com/spec-kit/transport-site/pkg/util"
)

const (
	uploadField         = "file"
	msgProfileImageGone = "profile image deleted"
)

// UploadHandler accepts image uploads.
type UploadHandler struct {
	uploads *service.UploadService
	maxSize int64
}

// NewUploadHandler constructs handler. maxSize bounds how much of a part is read.
func NewUploadHandler(uploads *service.UploadService, maxSize int64) *UploadHandler {
	return &UploadHandler{uploads: uploads, maxSize: maxSize}
}

// Upload handles POST /upload.
func (h *UploadHandler) Upload(c *fiber.Ctx) error {
	content, err := h.readFile(c)
	if err != nil {
		return err
	}
	result, err := h.uploads.SaveImage(c.UserContext(), content)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(data(result))
}

// SetProfile handles POST, PUT and PATCH /upload/profile.
func (h *UploadHandler) SetProfile(c *fiber.Ctx) error {
	admin, err := currentAdmin(c)
	if err != nil {
		return err
	}
	content, err := h.readFile(c)
	if err != nil {
		return err
	}
	result, err := h.uploads.SetProfileImage(c.UserContext(), admin.ID, content)
	if err != nil {
		return err
	}

	status := http.StatusOK
	if c.Method() == fiber.MethodPost {
		status = http.StatusCreated
	}
	return c.Status(status).JSON(data(dto.ProfileImageResponse{URL: &result.URL}))
}

// GetProfile handles GET /upload/profile.
func (h *UploadHandler) GetProfile(c *fiber.Ctx) error {
	admin, err := currentAdmin(c)
	if err != nil {
		return err
	}
	url, err := h.uploads.GetProfileImage(c.UserContext(), admin.ID)
	if err != nil {
		return err
	}
	return c.JSON(data(dto.ProfileImageResponse{URL: url}))
}

// DeleteProfile handles DELETE /upload/profile.
func (h *UploadHandler) DeleteProfile(c *fiber.Ctx) error {
	admin, err := currentAdmin(c)
	if err != nil {
		return err
	}
	if err := h.uploads.DeleteProfileImage(c.UserContext(), admin.ID); err != nil {
		return err
	}
	return c.JSON(data(dto.MessageResponse{Message: msgProfileImageGone}))
}

func (h *UploadHandler) readFile(c *fiber.Ctx) ([]byte, error) {
	header, err := c.FormFile(uploadField)
	if err != nil {
		return nil, apperrors.NewValidationError("no file provided", map[string]any{"field": uploadField})
	}
	if h.maxSize > 0 && header.Size > h.maxSize {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("file too large, max size is %d bytes", h.maxSize),
			map[string]any{"field": uploadField, "max_bytes": h.maxSize},
		)
	}

	f, err := header.Open()
	if err != nil {
		return nil, apperrors.NewInternalError(fmt.Errorf("open upload: %w", err))
	}
	defer f.Close()

	var r io.Reader = f
	if h.maxSize > 0 {
		r = io.LimitReader(f, h.maxSize+1)
	}
	content, err := io.ReadAll(r)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, apperrors.NewInternalError(fmt.Errorf("read upload: %w", err))
	}
	return content, nil
}
