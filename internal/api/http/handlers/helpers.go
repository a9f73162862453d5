package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/transport-site/internal/auth"
	"github.com/spec-kit/transport-site/internal/domain"
	apperrors "github.com/spec-kit/transport-site/pkg/util"
)

type validatable interface {
	Validate() error
}

// parseBody decodes the request body into req and validates it.
func parseBody[T validatable](c *fiber.Ctx, req T) error {
	if err := c.BodyParser(req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	return req.Validate()
}

func currentAdmin(c *fiber.Ctx) (*domain.Admin, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	return principal.Admin, nil
}

func data(v any) fiber.Map {
	return fiber.Map{"data": v}
}
