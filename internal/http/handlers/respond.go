package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"craftmarket/internal/domain"
	applog "craftmarket/internal/log"
)

// fail maps business errors to HTTP statuses in one place. Sentinel error
// messages are stable and safe to show; anything unrecognized is a 500 with
// a generic body.
func fail(c *fiber.Ctx, action string, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrMissingField),
		errors.Is(err, domain.ErrMixedSellerOrder),
		errors.Is(err, domain.ErrInvalidStatus):
		applog.Security(c, action, map[string]any{"error": err.Error()})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})

	case errors.Is(err, domain.ErrItemNotFound),
		errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrPaymentNotFound),
		errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})

	case errors.Is(err, domain.ErrDuplicatePayment),
		errors.Is(err, domain.ErrEmailTaken),
		errors.Is(err, domain.ErrDuplicateReview),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})

	case errors.Is(err, domain.ErrReconciliationInconsistency):
		// Already logged durably where it was detected.
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "order records are inconsistent; support has been notified"})
	}

	applog.Error(c, action, err, nil)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "something went wrong, please try again"})
}
