package handlers

import (
	"github.com/gofiber/fiber/v2"

	"craftmarket/internal/domain"
	applog "craftmarket/internal/log"
	"craftmarket/internal/repos"
	"craftmarket/internal/services"
	"craftmarket/internal/validate"
)

type OrderHandler struct {
	Orders *services.OrderService
}

// List queries orders scoped to the caller: buyers see their own orders,
// sellers the orders placed against them.
func (h *OrderHandler) List(c *fiber.Ctx) error {
	u := currentUser(c)

	f := repos.OrderFilter{
		OrderID: c.Query("orderId"),
		Status:  c.Query("status"),
	}
	if u.Role == "SELLER" {
		f.SellerID = u.ID
	} else {
		f.BuyerID = u.ID
	}
	if f.Status != "" && !domain.ValidOrderStatus(f.Status) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid status filter"})
	}

	orders, err := h.Orders.List(f)
	if err != nil {
		return fail(c, "orders.list", err)
	}
	return c.JSON(fiber.Map{"count": len(orders), "orders": orders})
}

func (h *OrderHandler) Get(c *fiber.Ctx) error {
	u := currentUser(c)
	orderID, ok := validate.Reference(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid order id"})
	}
	o, err := h.Orders.Get(orderID)
	if err != nil {
		return fail(c, "orders.get", err)
	}
	if o.BuyerID != u.ID && o.SellerID != u.ID {
		applog.Security(c, "access.denied.order", map[string]any{"order_id": orderID})
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": domain.ErrOrderNotFound.Error()})
	}
	return c.JSON(fiber.Map{"order": o})
}

type orderItemBody struct {
	ProductID     string  `json:"productId" validate:"required"`
	ProductName   string  `json:"productName" validate:"required"`
	Price         float64 `json:"price" validate:"gte=0"`
	Quantity      int     `json:"quantity" validate:"required,gte=1"`
	Image         string  `json:"image"`
	Customization string  `json:"customizationDetails"`
}

type shippingAddressBody struct {
	FullName   string `json:"fullName" validate:"required"`
	Phone      string `json:"phone" validate:"required"`
	Address    string `json:"address" validate:"required"`
	City       string `json:"city" validate:"required"`
	Province   string `json:"province" validate:"required"`
	PostalCode string `json:"postalCode" validate:"required"`
}

type createOrderRequest struct {
	SellerID        string              `json:"sellerId" validate:"required"`
	Items           []orderItemBody     `json:"items" validate:"required,min=1,dive"`
	TotalPrice      float64             `json:"totalPrice" validate:"required,gt=0"`
	ShippingAddress shippingAddressBody `json:"shippingAddress" validate:"required"`
	PaymentMethod   string              `json:"paymentMethod" validate:"required"`
	Notes           string              `json:"notes"`
}

func (req createOrderRequest) items() []domain.OrderItem {
	items := make([]domain.OrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, domain.OrderItem{
			ProductID:     it.ProductID,
			ProductName:   it.ProductName,
			Price:         it.Price,
			Quantity:      it.Quantity,
			Image:         it.Image,
			Customization: it.Customization,
		})
	}
	return items
}

func (req createOrderRequest) shipping() domain.ShippingAddress {
	return domain.ShippingAddress{
		FullName:   req.ShippingAddress.FullName,
		Phone:      req.ShippingAddress.Phone,
		Address:    req.ShippingAddress.Address,
		City:       req.ShippingAddress.City,
		Province:   req.ShippingAddress.Province,
		PostalCode: req.ShippingAddress.PostalCode,
	}
}

// Create places a pending order for the authenticated buyer. Buyer name and
// email are denormalized from the account at this point.
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	u := currentUser(c)
	var req createOrderRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, "orders.create", err)
	}

	o, err := h.Orders.Create(services.CreateOrderInput{
		BuyerID:       u.ID,
		BuyerName:     u.Name,
		BuyerEmail:    u.Email,
		SellerID:      req.SellerID,
		Items:         req.items(),
		TotalPrice:    req.TotalPrice,
		Shipping:      req.shipping(),
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
	})
	if err != nil {
		return fail(c, "orders.create", err)
	}
	applog.Audit(c, "orders.create", map[string]any{"order_id": o.OrderID, "total": o.TotalPrice})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "order created", "order": o})
}

type updateOrderRequest struct {
	OrderID        string `json:"orderId" validate:"required"`
	Status         string `json:"status" validate:"required"`
	TrackingNumber string `json:"trackingNumber"`
	Notes          string `json:"notes"`
}

// UpdateStatus walks the order along its status graph; sellers drive
// processing->shipped->delivered for their own orders.
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	u := currentUser(c)
	var req updateOrderRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, "orders.update", err)
	}

	cur, err := h.Orders.Get(req.OrderID)
	if err != nil {
		return fail(c, "orders.update", err)
	}
	if cur.SellerID != u.ID {
		applog.Security(c, "access.denied.order.update", map[string]any{"order_id": req.OrderID})
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": domain.ErrOrderNotFound.Error()})
	}

	o, err := h.Orders.UpdateStatus(req.OrderID, req.Status, req.TrackingNumber, req.Notes)
	if err != nil {
		return fail(c, "orders.update", err)
	}
	applog.Audit(c, "orders.update", map[string]any{"order_id": o.OrderID, "status": o.Status})
	return c.JSON(fiber.Map{"message": "order updated", "order": o})
}

// Cancel moves the order to cancelled (buyers for their own orders, sellers
// for theirs); terminal orders reject the transition.
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	u := currentUser(c)
	orderID, ok := validate.Reference(c.Query("orderId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "orderId is required"})
	}

	cur, err := h.Orders.Get(orderID)
	if err != nil {
		return fail(c, "orders.cancel", err)
	}
	if cur.BuyerID != u.ID && cur.SellerID != u.ID {
		applog.Security(c, "access.denied.order.cancel", map[string]any{"order_id": orderID})
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": domain.ErrOrderNotFound.Error()})
	}

	o, err := h.Orders.Cancel(orderID)
	if err != nil {
		return fail(c, "orders.cancel", err)
	}
	applog.Audit(c, "orders.cancel", map[string]any{"order_id": o.OrderID})
	return c.JSON(fiber.Map{"message": "order cancelled", "order": o})
}
