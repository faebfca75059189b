package handlers

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"craftmarket/internal/domain"
)

var bodyValidator = validator.New()

// parseBody decodes the JSON body into dst and validates it once against its
// struct tags; handlers never re-validate downstream.
func parseBody(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return fmt.Errorf("%w: malformed JSON body", domain.ErrMissingField)
	}
	if err := bodyValidator.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			f := verrs[0]
			switch {
			case f.Tag() == "required":
				return fmt.Errorf("%w: %s", domain.ErrMissingField, f.Field())
			case f.Field() == "Quantity" || f.Field() == "Rating":
				return fmt.Errorf("%w: %s", domain.ErrInvalidQuantity, f.Field())
			default:
				return fmt.Errorf("%w: invalid %s", domain.ErrMissingField, f.Field())
			}
		}
		return fmt.Errorf("%w: invalid body", domain.ErrMissingField)
	}
	return nil
}
