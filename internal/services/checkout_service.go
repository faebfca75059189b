package services

import (
	"craftmarket/internal/domain"
	"craftmarket/internal/repos"
)

// CheckoutService is the auto-settlement flow: build the order, record its
// payment, then mark the payment paid in-process. The reconciler runs the
// same path a gateway webhook would, so stock, cart and order status end up
// exactly as they do for asynchronous payments.
type CheckoutService struct {
	Users  *repos.UserRepo
	Orders *OrderService
	Ledger *PaymentService
	Recon  *ReconcileService
}

func NewCheckoutService(users *repos.UserRepo, orders *OrderService, ledger *PaymentService, recon *ReconcileService) *CheckoutService {
	return &CheckoutService{Users: users, Orders: orders, Ledger: ledger, Recon: recon}
}

// PayNow creates the order and settles it in one request. Buyer name/email
// are captured from the account at this moment, not re-derived later.
func (s *CheckoutService) PayNow(buyerID, sellerID string, items []domain.OrderItem, totalPrice float64,
	shipping domain.ShippingAddress, paymentMethod, notes string) (domain.Order, domain.Payment, error) {

	buyer, err := s.Users.ByID(buyerID)
	if err != nil {
		return domain.Order{}, domain.Payment{}, err
	}

	order, err := s.Orders.Create(CreateOrderInput{
		BuyerID:       buyer.ID,
		BuyerName:     buyer.Name,
		BuyerEmail:    buyer.Email,
		SellerID:      sellerID,
		Items:         items,
		TotalPrice:    totalPrice,
		Shipping:      shipping,
		PaymentMethod: paymentMethod,
		Notes:         notes,
	})
	if err != nil {
		return domain.Order{}, domain.Payment{}, err
	}

	// Amount is pinned to the order's total at creation time.
	if _, err := s.Ledger.Record(order.OrderID, buyer.ID, order.TotalPrice, "IDR", paymentMethod); err != nil {
		return domain.Order{}, domain.Payment{}, err
	}

	payment, err := s.Recon.OnPaymentStatusChanged(order.OrderID, domain.PaymentCompleted, `{"token":"auto_payment"}`)
	if err != nil {
		return domain.Order{}, domain.Payment{}, err
	}

	order, err = s.Orders.Get(order.OrderID)
	if err != nil {
		return domain.Order{}, domain.Payment{}, err
	}
	return order, payment, nil
}
