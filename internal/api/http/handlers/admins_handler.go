package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/transport-site/internal/api/dto"
	"github.com/spec-kit/transport-site/internal/service"
)

const msgAdminDeleted = "admin deleted"

// AdminsHandler manages administrator accounts.
type AdminsHandler struct {
	admins *service.AdminService
}

// NewAdminsHandler constructs handler.
func NewAdminsHandler(admins *service.AdminService) *AdminsHandler {
	return &AdminsHandler{admins: admins}
}

// Create handles POST /admins.
func (h *AdminsHandler) Create(c *fiber.Ctx) error {
	actor, err := currentAdmin(c)
	if err != nil {
		return err
	}

	var req dto.CreateAdminRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	admin, err := h.admins.Create(c.UserContext(), &actor.ID, req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(data(dto.NewAdminResponse(admin)))
}

// List handles GET /admins.
func (h *AdminsHandler) List(c *fiber.Ctx) error {
	admins, err := h.admins.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(data(dto.NewAdminListResponse(admins)))
}

// Get handles GET /admins/:id.
func (h *AdminsHandler) Get(c *fiber.Ctx) error {
	admin, err := h.admins.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(data(dto.NewAdminResponse(admin)))
}

// Delete handles DELETE /admins/:id.
func (h *AdminsHandler) Delete(c *fiber.Ctx) error {
	actor, err := currentAdmin(c)
	if err != nil {
		return err
	}
	if err := h.admins.Delete(c.UserContext(), &actor.ID, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(data(dto.MessageResponse{Message: msgAdminDeleted}))
}
