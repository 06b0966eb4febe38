package handler

import (
	"errors"

	"go-retail-pos/internal/model"
	"go-retail-pos/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// getActor returns the Actor set by the auth middleware
func getActor(c *fiber.Ctx) model.Actor {
	if actor, ok := c.Locals("actor").(model.Actor); ok {
		return actor
	}
	return model.Actor{ID: "system"}
}

func parseUUID(id string) (uuid.UUID, error) {
	return uuid.Parse(id)
}

// statusForError maps service failures onto HTTP status codes without
// leaking storage internals to the caller.
func statusForError(err error) int {
	switch {
	case errors.Is(err, service.ErrForbidden):
		return 403
	case errors.Is(err, service.ErrSaleNotFound),
		errors.Is(err, service.ErrLineNotFound),
		errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrCustomerNotFound),
		errors.Is(err, service.ErrCategoryNotFound),
		errors.Is(err, service.ErrSupplierNotFound),
		errors.Is(err, service.ErrUserNotFound):
		return 404
	case errors.Is(err, service.ErrInsufficientStock),
		errors.Is(err, service.ErrDuplicateCategory),
		errors.Is(err, service.ErrDuplicateSupplier),
		errors.Is(err, service.ErrDuplicateProductName),
		errors.Is(err, service.ErrDuplicateCustomerEmail),
		errors.Is(err, service.ErrEmailExists):
		return 409
	default:
		return 400
	}
}
