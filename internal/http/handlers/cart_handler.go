package handlers

import (
	"github.com/gofiber/fiber/v2"

	"craftmarket/internal/domain"
	"craftmarket/internal/services"
	"craftmarket/internal/validate"
)

type CartHandler struct {
	Cart *services.CartService
}

func (h *CartHandler) Get(c *fiber.Ctx) error {
	u := currentUser(c)
	cart, err := h.Cart.Get(u.ID)
	if err != nil {
		return fail(c, "cart.get", err)
	}
	return c.JSON(cart)
}

type upsertItemRequest struct {
	ProductID   string  `json:"productId" validate:"required"`
	ProductName string  `json:"productName" validate:"required"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Quantity    int     `json:"quantity" validate:"required,gte=1"`
	Image       string  `json:"image"`
	SellerID    string  `json:"sellerId"`
}

// Upsert adds the product or replaces its quantity; repeating the call with
// the same body is a no-op, not a double-add.
func (h *CartHandler) Upsert(c *fiber.Ctx) error {
	u := currentUser(c)
	var req upsertItemRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, "cart.upsert", err)
	}
	cart, err := h.Cart.UpsertItem(u.ID, domain.CartItem{
		ProductID:   req.ProductID,
		ProductName: req.ProductName,
		Price:       req.Price,
		Quantity:    req.Quantity,
		Image:       req.Image,
		SellerID:    req.SellerID,
	})
	if err != nil {
		return fail(c, "cart.upsert", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "item added to cart", "cart": cart})
}

type setQuantityRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity"`
}

// SetQuantity sets the exact quantity; zero or below removes the item.
func (h *CartHandler) SetQuantity(c *fiber.Ctx) error {
	u := currentUser(c)
	var req setQuantityRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, "cart.update", err)
	}
	cart, err := h.Cart.SetItemQuantity(u.ID, req.ProductID, req.Quantity)
	if err != nil {
		return fail(c, "cart.update", err)
	}
	return c.JSON(fiber.Map{"message": "cart updated", "cart": cart})
}

// Delete removes one product (?productId=) or everything (?clearAll=true).
func (h *CartHandler) Delete(c *fiber.Ctx) error {
	u := currentUser(c)

	if c.Query("clearAll") == "true" {
		cart, err := h.Cart.Clear(u.ID)
		if err != nil {
			return fail(c, "cart.clear", err)
		}
		return c.JSON(fiber.Map{"message": "cart cleared", "cart": cart})
	}

	productID, ok := validate.ID(c.Query("productId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "productId or clearAll=true is required"})
	}
	cart, err := h.Cart.RemoveItem(u.ID, productID)
	if err != nil {
		return fail(c, "cart.remove", err)
	}
	return c.JSON(fiber.Map{"message": "cart updated", "cart": cart})
}
