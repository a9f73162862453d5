package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/transport-site/internal/api/dto"
	"github.com/spec-kit/transport-site/internal/service"
)

// SettingsHandler serves the site settings.
type SettingsHandler struct {
	settings *service.SettingsService
}

// NewSettingsHandler constructs handler.
func NewSettingsHandler(settings *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// Get handles GET /settings.
func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	settings, err := h.settings.GetOrCreateDefault(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(data(dto.NewSettingsResponse(settings)))
}

// Update handles PATCH and PUT /settings.
func (h *SettingsHandler) Update(c *fiber.Ctx) error {
	actor, err := currentAdmin(c)
	if err != nil {
		return err
	}

	var req dto.UpdateSettingsRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	settings, err := h.settings.Update(c.UserContext(), &actor.ID, req.Patch())
	if err != nil {
		return err
	}
	return c.JSON(data(dto.NewSettingsResponse(settings)))
}
