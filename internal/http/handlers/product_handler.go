package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"craftmarket/internal/domain"
	applog "craftmarket/internal/log"
	"craftmarket/internal/services"
	"craftmarket/internal/validate"
)

type ProductHandler struct {
	Catalog *services.CatalogService
}

// List is public. Filters: ?sellerId=, ?category=, ?limit=, ?offset=.
func (h *ProductHandler) List(c *fiber.Ctx) error {
	sellerID := c.Query("sellerId")
	if sellerID != "" {
		var ok bool
		if sellerID, ok = validate.ID(sellerID); !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid sellerId"})
		}
	}
	limit, ok := validate.Qty(c.Query("limit", "50"))
	if !ok || limit < 1 || limit > 200 {
		limit = 50
	}
	offset, ok := validate.Qty(c.Query("offset", "0"))
	if !ok || offset < 0 {
		offset = 0
	}

	prods, err := h.Catalog.List(sellerID, c.Query("category"), limit, offset)
	if err != nil {
		return fail(c, "products.list", err)
	}
	return c.JSON(fiber.Map{"count": len(prods), "products": prods})
}

func (h *ProductHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid product id"})
	}
	p, err := h.Catalog.Get(id)
	if err != nil {
		return fail(c, "products.get", err)
	}
	return c.JSON(fiber.Map{"product": p})
}

type productRequest struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	Price       float64  `json:"price" validate:"gte=0"`
	Category    string   `json:"category" validate:"required,oneof=Furniture Crafts Custom Accessories"`
	Stock       int      `json:"stock" validate:"gte=0"`
	Images      []string `json:"images"`
}

func (req productRequest) product(id, sellerID string) domain.Product {
	images := "[]"
	if len(req.Images) > 0 {
		if b, err := json.Marshal(req.Images); err == nil {
			images = string(b)
		}
	}
	return domain.Product{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		SellerID:    sellerID,
		ImagesJSON:  images,
		Stock:       req.Stock,
	}
}

// Create adds a product to the authenticated seller's catalog.
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	u := currentUser(c)
	var req productRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, "products.create", err)
	}
	p, err := h.Catalog.Create(req.product("", u.ID))
	if err != nil {
		return fail(c, "products.create", err)
	}
	applog.Audit(c, "products.create", map[string]any{"product_id": p.ID, "stock": p.Stock})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "product created", "product": p})
}

// Update rewrites a product the caller owns. A product belonging to another
// seller reads as not found.
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	u := currentUser(c)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid product id"})
	}
	var req productRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, "products.update", err)
	}
	p, err := h.Catalog.Update(req.product(id, u.ID))
	if err != nil {
		return fail(c, "products.update", err)
	}
	applog.Audit(c, "products.update", map[string]any{"product_id": p.ID})
	return c.JSON(fiber.Map{"message": "product updated", "product": p})
}

func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	u := currentUser(c)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid product id"})
	}
	if err := h.Catalog.Delete(id, u.ID); err != nil {
		return fail(c, "products.delete", err)
	}
	applog.Audit(c, "products.delete", map[string]any{"product_id": id})
	return c.JSON(fiber.Map{"message": "product deleted"})
}
