package domain

import "errors"

// Business errors surfaced by the services. Handlers map these to HTTP
// statuses once; everything else is treated as an internal failure.
var (
	ErrInvalidQuantity   = errors.New("quantity must be a positive number")
	ErrItemNotFound      = errors.New("product not found in cart")
	ErrMissingField      = errors.New("missing required field")
	ErrMixedSellerOrder  = errors.New("order items must belong to one seller")
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidTransition = errors.New("invalid order status transition")
	ErrDuplicatePayment  = errors.New("payment already recorded for order")
	ErrPaymentNotFound   = errors.New("payment not found")
	ErrInvalidStatus     = errors.New("invalid payment status")
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrReconciliationInconsistency means cart/order/payment have diverged
	// (e.g. a payment exists for an order that does not). It cannot be fixed
	// from the client side and must be logged for operator attention.
	ErrReconciliationInconsistency = errors.New("order/payment records are inconsistent")

	ErrProductNotFound = errors.New("product not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailTaken      = errors.New("email already registered")
	ErrDuplicateReview = errors.New("product already reviewed by buyer")
)
