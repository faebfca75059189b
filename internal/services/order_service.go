package services

import (
	"fmt"

	"craftmarket/internal/domain"
	"craftmarket/internal/repos"
)

// CreateOrderInput carries everything an order snapshot needs. TotalPrice is
// taken as given (shipping/tax are the caller's concern) and frozen on the
// order.
type CreateOrderInput struct {
	BuyerID       string
	BuyerName     string
	BuyerEmail    string
	SellerID      string
	Items         []domain.OrderItem
	TotalPrice    float64
	Shipping      domain.ShippingAddress
	PaymentMethod string
	Notes         string
	// Settled marks the auto-settlement flow: the order starts at
	// processing instead of pending.
	Settled bool
}

// OrderService builds immutable order records and walks their status
// machine. It never touches carts or stock beyond the order-build stock
// check; downstream effects belong to the reconciler.
type OrderService struct {
	Orders *repos.OrderRepo
	Prods  *repos.ProductRepo

	// NewID is swappable in tests; it defaults to domain.NewOrderID.
	NewID func() string
}

func NewOrderService(orders *repos.OrderRepo, prods *repos.ProductRepo) *OrderService {
	return &OrderService{Orders: orders, Prods: prods, NewID: domain.NewOrderID}
}

// Create validates the input, re-checks stock, and persists the order with a
// fresh ORD- identifier. An id collision on the unique index is retried once
// with a new random component before failing.
func (s *OrderService) Create(in CreateOrderInput) (domain.Order, error) {
	if err := s.validate(in); err != nil {
		return domain.Order{}, err
	}

	// All items must belong to the one seller this order is for.
	for _, it := range in.Items {
		p, err := s.Prods.Get(it.ProductID)
		if err != nil {
			return domain.Order{}, err
		}
		if p.SellerID != in.SellerID {
			return domain.Order{}, fmt.Errorf("%w: product %s", domain.ErrMixedSellerOrder, it.ProductID)
		}
		if p.Stock < it.Quantity {
			return domain.Order{}, fmt.Errorf("%w: product %s (need %d, have %d)",
				domain.ErrInsufficientStock, it.ProductID, it.Quantity, p.Stock)
		}
	}

	status := domain.OrderPending
	if in.Settled {
		status = domain.OrderProcessing
	}

	o := domain.Order{
		OrderID:       s.NewID(),
		BuyerID:       in.BuyerID,
		BuyerName:     in.BuyerName,
		BuyerEmail:    in.BuyerEmail,
		SellerID:      in.SellerID,
		Items:         in.Items,
		TotalPrice:    in.TotalPrice,
		Status:        status,
		Shipping:      in.Shipping,
		PaymentMethod: in.PaymentMethod,
		Notes:         in.Notes,
	}

	err := s.Orders.Create(o)
	if repos.IsUniqueViolation(err, "orders.order_id") {
		o.OrderID = s.NewID()
		err = s.Orders.Create(o)
	}
	if err != nil {
		return domain.Order{}, err
	}
	return s.Orders.Get(o.OrderID)
}

// Get returns one order by its ORD- identifier.
func (s *OrderService) Get(orderID string) (domain.Order, error) {
	return s.Orders.Get(orderID)
}

// List queries orders by buyer, seller, order id and/or status.
func (s *OrderService) List(f repos.OrderFilter) ([]domain.Order, error) {
	return s.Orders.List(f)
}

// UpdateStatus moves the order along the status graph. The write is a
// compare-and-set against the status we validated, so a racing transition
// cannot sneak through the check.
func (s *OrderService) UpdateStatus(orderID, newStatus, trackingNumber, notes string) (domain.Order, error) {
	if !domain.ValidOrderStatus(newStatus) {
		return domain.Order{}, fmt.Errorf("%w: %q", domain.ErrInvalidTransition, newStatus)
	}
	cur, err := s.Orders.Get(orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if !domain.CanTransitionOrder(cur.Status, newStatus) {
		return domain.Order{}, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, cur.Status, newStatus)
	}
	ok, err := s.Orders.UpdateStatus(orderID, cur.Status, newStatus, trackingNumber, notes)
	if err != nil {
		return domain.Order{}, err
	}
	if !ok {
		return domain.Order{}, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, cur.Status, newStatus)
	}
	return s.Orders.Get(orderID)
}

// Cancel is updateStatus to cancelled; it fails once the order is terminal.
func (s *OrderService) Cancel(orderID string) (domain.Order, error) {
	return s.UpdateStatus(orderID, domain.OrderCancelled, "", "")
}

func (s *OrderService) validate(in CreateOrderInput) error {
	missing := func(field string) error {
		return fmt.Errorf("%w: %s", domain.ErrMissingField, field)
	}
	switch {
	case in.BuyerID == "":
		return missing("buyerId")
	case in.BuyerName == "":
		return missing("buyerName")
	case in.BuyerEmail == "":
		return missing("buyerEmail")
	case in.SellerID == "":
		return missing("sellerId")
	case len(in.Items) == 0:
		return missing("items")
	case in.TotalPrice <= 0:
		return missing("totalPrice")
	case in.Shipping.FullName == "":
		return missing("shippingAddress.fullName")
	case in.Shipping.Phone == "":
		return missing("shippingAddress.phone")
	case in.Shipping.Address == "":
		return missing("shippingAddress.address")
	case in.Shipping.City == "":
		return missing("shippingAddress.city")
	case in.Shipping.Province == "":
		return missing("shippingAddress.province")
	case in.Shipping.PostalCode == "":
		return missing("shippingAddress.postalCode")
	case in.PaymentMethod == "":
		return missing("paymentMethod")
	}
	for _, it := range in.Items {
		if it.Quantity < 1 {
			return domain.ErrInvalidQuantity
		}
	}
	return nil
}
