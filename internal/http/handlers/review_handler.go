package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "craftmarket/internal/log"
	"craftmarket/internal/services"
	"craftmarket/internal/validate"
)

type ReviewHandler struct {
	Reviews *services.ReviewService
}

// List is public: ?productId= is required.
func (h *ReviewHandler) List(c *fiber.Ctx) error {
	productID, ok := validate.ID(c.Query("productId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "productId is required"})
	}
	reviews, err := h.Reviews.ListByProduct(productID)
	if err != nil {
		return fail(c, "reviews.list", err)
	}
	return c.JSON(fiber.Map{"count": len(reviews), "reviews": reviews})
}

type createReviewRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Rating    int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment   string `json:"comment"`
}

// Create adds one review per buyer per product; the product's rating
// aggregate moves in the same transaction.
func (h *ReviewHandler) Create(c *fiber.Ctx) error {
	u := currentUser(c)
	var req createReviewRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, "reviews.create", err)
	}
	r, err := h.Reviews.Add(req.ProductID, u.ID, u.Name, req.Rating, req.Comment)
	if err != nil {
		return fail(c, "reviews.create", err)
	}
	applog.Audit(c, "reviews.create", map[string]any{"product_id": r.ProductID, "rating": r.Rating})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "review added", "review": r})
}
