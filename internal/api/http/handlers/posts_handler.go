package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/transport-site/internal/api/dto"
	"github.com/spec-kit/transport-site/internal/service"
)

const msgPostDeleted = "post deleted"

// PostsHandler serves news posts.
type PostsHandler struct {
	posts *service.PostService
}

// NewPostsHandler constructs handler.
func NewPostsHandler(posts *service.PostService) *PostsHandler {
	return &PostsHandler{posts: posts}
}

// List handles GET /posts?status=.
func (h *PostsHandler) List(c *fiber.Ctx) error {
	status, err := dto.ParsePostStatus(c.Query("status"))
	if err != nil {
		return err
	}
	posts, err := h.posts.List(c.UserContext(), status)
	if err != nil {
		return err
	}
	return c.JSON(data(dto.NewPostListResponse(posts)))
}

// Carousel handles GET /posts/carousel.
func (h *PostsHandler) Carousel(c *fiber.Ctx) error {
	posts, err := h.posts.Carousel(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(data(dto.NewPostListResponse(posts)))
}

// Get handles GET /posts/:id.
func (h *PostsHandler) Get(c *fiber.Ctx) error {
	post, err := h.posts.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(data(dto.NewPostResponse(post)))
}

// Create handles POST /posts.
func (h *PostsHandler) Create(c *fiber.Ctx) error {
	actor, err := currentAdmin(c)
	if err != nil {
		return err
	}

	var req dto.CreatePostRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	post, err := h.posts.Create(c.UserContext(), &actor.ID, req.Post())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(data(dto.NewPostResponse(post)))
}

// Update handles PATCH /posts/:id.
func (h *PostsHandler) Update(c *fiber.Ctx) error {
	actor, err := currentAdmin(c)
	if err != nil {
		return err
	}

	var req dto.UpdatePostRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	post, err := h.posts.Update(c.UserContext(), &actor.ID, c.Params("id"), req.Patch())
	if err != nil {
		return err
	}
	return c.JSON(data(dto.NewPostResponse(post)))
}

// Delete handles DELETE /posts/:id.
func (h *PostsHandler) Delete(c *fiber.Ctx) error {
	actor, err := currentAdmin(c)
	if err != nil {
		return err
	}
	if err := h.posts.Delete(c.UserContext(), &actor.ID, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(data(dto.MessageResponse{Message: msgPostDeleted}))
}
