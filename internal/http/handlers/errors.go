package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"

	"pdvlocal/internal/services"
)

// statusFor maps a session error to the status and message shown to the
// operator. Internal details never reach the response.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrInvalidCode):
		return fiber.StatusBadRequest, "Invalid product code"
	case errors.Is(err, services.ErrProductNotFound):
		return fiber.StatusNotFound, "Product not found"
	case errors.Is(err, services.ErrNoOpenSale):
		return fiber.StatusConflict, "There is no open sale"
	case errors.Is(err, services.ErrCheckoutPersist):
		return fiber.StatusServiceUnavailable, "The sale could not be saved. Please try again."
	case errors.Is(err, services.ErrStoreUnavailable), errors.Is(err, services.ErrSnapshotExport):
		return fiber.StatusServiceUnavailable, "The database is unavailable. Please try again."
	default:
		return fiber.StatusInternalServerError, "Something went wrong. Please try again."
	}
}

func jsonError(c *fiber.Ctx, err error) error {
	status, msg := statusFor(err)
	return c.Status(status).JSON(fiber.Map{"error": msg})
}
