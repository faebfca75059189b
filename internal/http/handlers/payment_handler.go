package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"craftmarket/internal/domain"
	"craftmarket/internal/gateway"
	applog "craftmarket/internal/log"
	"craftmarket/internal/services"
	"craftmarket/internal/validate"
)

type PaymentHandler struct {
	Checkout *services.CheckoutService
	Payments *services.PaymentService
	Recon    *services.ReconcileService

	// ServerKey is the shared secret webhook signatures are computed with.
	ServerKey string
}

type payNowRequest struct {
	SellerID        string              `json:"sellerId" validate:"required"`
	Items           []orderItemBody     `json:"items" validate:"required,min=1,dive"`
	TotalPrice      float64             `json:"totalPrice" validate:"required,gt=0"`
	ShippingAddress shippingAddressBody `json:"shippingAddress" validate:"required"`
	PaymentMethod   string              `json:"paymentMethod" validate:"required"`
	Notes           string              `json:"notes"`
}

// PayNow creates an order and settles it in the same request. The response
// carries both the processing order and its completed payment.
func (h *PaymentHandler) PayNow(c *fiber.Ctx) error {
	u := currentUser(c)
	var req payNowRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, "payments.pay", err)
	}

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
	shipping := domain.ShippingAddress{
		FullName:   req.ShippingAddress.FullName,
		Phone:      req.ShippingAddress.Phone,
		Address:    req.ShippingAddress.Address,
		City:       req.ShippingAddress.City,
		Province:   req.ShippingAddress.Province,
		PostalCode: req.ShippingAddress.PostalCode,
	}

	order, payment, err := h.Checkout.PayNow(u.ID, req.SellerID, items, req.TotalPrice, shipping, req.PaymentMethod, req.Notes)
	if err != nil {
		return fail(c, "payments.pay", err)
	}
	applog.Audit(c, "payments.pay", map[string]any{
		"order_id":       order.OrderID,
		"transaction_id": payment.TransactionID,
		"amount":         payment.Amount,
	})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "payment successful",
		"order":   order,
		"payment": payment,
	})
}

// Status looks a payment up by transaction id or order id.
func (h *PaymentHandler) Status(c *fiber.Ctx) error {
	ref, ok := validate.Reference(c.Query("ref"))
	if !ok {
		ref, ok = validate.Reference(c.Query("orderId"))
	}
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "ref or orderId is required"})
	}
	p, err := h.Payments.Get(ref)
	if err != nil {
		return fail(c, "payments.status", err)
	}
	return c.JSON(fiber.Map{"payment": p})
}

type confirmRequest struct {
	OrderID           string `json:"orderId" validate:"required"`
	TransactionStatus string `json:"transactionStatus" validate:"required"`
}

// Confirm is the client-side settlement callback: the browser reports the
// gateway's result, and the reconciler applies it. The webhook remains the
// source of truth; a repeat delivery of the same terminal status is a no-op.
func (h *PaymentHandler) Confirm(c *fiber.Ctx) error {
	var req confirmRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, "payments.confirm", err)
	}

	status, err := gateway.MapStatus(req.TransactionStatus)
	if err != nil {
		return fail(c, "payments.confirm", err)
	}
	p, err := h.Recon.OnPaymentStatusChanged(req.OrderID, status, "")
	if err != nil {
		return fail(c, "payments.confirm", err)
	}
	applog.Audit(c, "payments.confirm", map[string]any{"order_id": req.OrderID, "status": p.Status})
	return c.JSON(fiber.Map{"message": "payment status updated", "payment": p})
}

// Webhook receives the gateway's server-to-server notification. The signature
// is verified before any state is read or written; a bad signature is a 401
// and nothing else happens.
func (h *PaymentHandler) Webhook(c *fiber.Ctx) error {
	var payload gateway.WebhookPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "malformed payload"})
	}

	if !gateway.VerifySignature(payload, h.ServerKey) {
		applog.Security(c, "webhook.signature.mismatch", map[string]any{"order_id": payload.OrderID})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid signature"})
	}

	status, err := gateway.MapStatus(payload.TransactionStatus)
	if err != nil {
		return fail(c, "payments.webhook", err)
	}

	raw, _ := json.Marshal(payload)
	p, err := h.Recon.OnPaymentStatusChanged(payload.OrderID, status, string(raw))
	if err != nil {
		return fail(c, "payments.webhook", err)
	}
	applog.Audit(c, "payments.webhook", map[string]any{
		"order_id":       payload.OrderID,
		"gateway_status": payload.TransactionStatus,
		"status":         p.Status,
	})
	return c.JSON(fiber.Map{"message": "ok", "payment": p})
}
