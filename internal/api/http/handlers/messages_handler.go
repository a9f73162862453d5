package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/transport-site/internal/api/dto"
	"github.com/spec-kit/transport-site/internal/service"
)

const msgContactReceived = "message sent"

// MessagesHandler accepts contact form messages and serves the admin inbox.
type MessagesHandler struct {
	messages *service.MessageService
}

// NewMessagesHandler constructs handler.
func NewMessagesHandler(messages *service.MessageService) *MessagesHandler {
	return &MessagesHandler{messages: messages}
}

// Submit handles POST /contact.
func (h *MessagesHandler) Submit(c *fiber.Ctx) error {
	var req dto.CreateMessageRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if _, err := h.messages.Submit(c.UserContext(), req.Name, req.Email, req.Message); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(data(dto.MessageResponse{Message: msgContactReceived}))
}

// List handles GET /messages.
func (h *MessagesHandler) List(c *fiber.Ctx) error {
	messages, err := h.messages.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(data(dto.NewContactMessageListResponse(messages)))
}

// Get handles GET /messages/:id.
func (h *MessagesHandler) Get(c *fiber.Ctx) error {
	msg, err := h.messages.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(data(dto.NewContactMessageResponse(msg)))
}

// MarkRead handles PATCH /messages/:id/read.
func (h *MessagesHandler) MarkRead(c *fiber.Ctx) error {
	msg, err := h.messages.MarkRead(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(data(dto.NewContactMessageResponse(msg)))
}
