package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/transport-site/internal/api/dto"
	"github.com/spec-kit/transport-site/internal/service"
)

const msgPageDeleted = "page deleted"

// PagesHandler serves the fixed site pages.
type PagesHandler struct {
	pages *service.PageService
}

// NewPagesHandler constructs handler.
func NewPagesHandler(pages *service.PageService) *PagesHandler {
	return &PagesHandler{pages: pages}
}

// List handles GET /pages.
func (h *PagesHandler) List(c *fiber.Ctx) error {
	pages, err := h.pages.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(data(dto.NewPageListResponse(pages)))
}

// Get handles GET /pages/:slug.
func (h *PagesHandler) Get(c *fiber.Ctx) error {
	page, err := h.pages.GetOrCreate(c.UserContext(), c.Params("slug"))
	if err != nil {
		return err
	}
	return c.JSON(data(dto.NewPageResponse(page)))
}

// Create handles POST /pages.
func (h *PagesHandler) Create(c *fiber.Ctx) error {
	actor, err := currentAdmin(c)
	if err != nil {
		return err
	}

	var req dto.CreatePageRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	page, err := h.pages.Create(c.UserContext(), &actor.ID, req.Slug, req.Patch())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(data(dto.NewPageResponse(page)))
}

// Update handles PUT and PATCH /pages/:slug.
func (h *PagesHandler) Update(c *fiber.Ctx) error {
	actor, err := currentAdmin(c)
	if err != nil {
		return err
	}

	var req dto.UpdatePageRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	page, err := h.pages.Update(c.UserContext(), &actor.ID, c.Params("slug"), req.Patch())
	if err != nil {
		return err
	}
	return c.JSON(data(dto.NewPageResponse(page)))
}

// Delete handles DELETE /pages/:slug.
func (h *PagesHandler) Delete(c *fiber.Ctx) error {
	actor, err := currentAdmin(c)
	if err != nil {
		return err
	}
	if err := h.pages.Delete(c.UserContext(), &actor.ID, c.Params("slug")); err != nil {
		return err
	}
	return c.JSON(data(dto.MessageResponse{Message: msgPageDeleted}))
}
