package services

import (
	"errors"
	"fmt"

	"craftmarket/internal/domain"
	applog "craftmarket/internal/log"
	"craftmarket/internal/repos"
)

// ReconcileService reacts to payment status changes: on success it advances
// the order, applies stock decrements and clears the buyer's cart; on
// failure/expiry it cancels the order. The signal is at-least-once (gateways
// retry on timeout), so every step must be safe to repeat:
//
//   - the Order.status pending->processing compare-and-set is the
//     applicability guard: once it has moved on, the side effects are known
//     to have been applied and re-entry skips them;
//   - the payment's own status is persisted last, so a crash mid-sequence
//     leaves the payment retriable instead of falsely terminal.
type ReconcileService struct {
	Payments *repos.PaymentRepo
	Orders   *repos.OrderRepo
	Carts    *repos.CartRepo
	Prods    *repos.ProductRepo
}

func NewReconcileService(payments *repos.PaymentRepo, orders *repos.OrderRepo, carts *repos.CartRepo, prods *repos.ProductRepo) *ReconcileService {
	return &ReconcileService{Payments: payments, Orders: orders, Carts: carts, Prods: prods}
}

// OnPaymentStatusChanged applies the consequences of a payment moving to
// newStatus. gatewayPayload, when non-empty, is stored verbatim on the
// payment row.
func (s *ReconcileService) OnPaymentStatusChanged(orderID, newStatus, gatewayPayload string) (domain.Payment, error) {
	if !domain.ValidPaymentStatus(newStatus) {
		return domain.Payment{}, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, newStatus)
	}

	payment, err := s.Payments.ByOrderID(orderID)
	if err != nil {
		return domain.Payment{}, err
	}

	// Idempotent retry: the payment already ended where this call wants it.
	if domain.PaymentTerminal(payment.Status) {
		same := payment.Status == newStatus ||
			(domain.PaymentSucceeded(payment.Status) && domain.PaymentSucceeded(newStatus))
		if same {
			return payment, nil
		}
		return domain.Payment{}, fmt.Errorf("%w: payment already %s", domain.ErrInvalidStatus, payment.Status)
	}

	switch {
	case domain.PaymentSucceeded(newStatus):
		if err := s.applySuccess(orderID); err != nil {
			return domain.Payment{}, err
		}
	case newStatus == domain.PaymentFailed || newStatus == domain.PaymentExpired:
		if err := s.applyFailure(orderID); err != nil {
			return domain.Payment{}, err
		}
	}

	// Persist the payment status last: everything above succeeded.
	if err := s.Payments.UpdateStatus(payment.TransactionID, newStatus, gatewayPayload); err != nil {
		return domain.Payment{}, err
	}
	return s.Payments.ByOrderID(orderID)
}

// applySuccess runs order->processing, stock decrements and cart clear. The
// CAS on pending gates the side effects; an order already past pending means
// a previous attempt got that far and the effects must not run twice.
func (s *ReconcileService) applySuccess(orderID string) error {
	order, err := s.Orders.Get(orderID)
	if errors.Is(err, domain.ErrOrderNotFound) {
		return s.inconsistent(orderID, "payment exists but order does not", err)
	}
	if err != nil {
		return err
	}
	if order.Status == domain.OrderCancelled {
		return s.inconsistent(orderID, "payment succeeded for a cancelled order", nil)
	}

	moved, err := s.Orders.UpdateStatusFrom(orderID, domain.OrderPending, domain.OrderProcessing)
	if err != nil {
		return err
	}
	if !moved {
		// Already processing or later; effects were applied before.
		return nil
	}

	for _, it := range order.Items {
		if err := s.Prods.DecrementStockClamped(it.ProductID, it.Quantity); err != nil {
			if errors.Is(err, domain.ErrProductNotFound) {
				return s.inconsistent(orderID, "ordered product missing from catalog", err)
			}
			return err
		}
	}
	return s.Carts.Clear(order.BuyerID)
}

// applyFailure cancels the order unless it already reached a terminal
// status. Stock and cart are untouched.
func (s *ReconcileService) applyFailure(orderID string) error {
	order, err := s.Orders.Get(orderID)
	if errors.Is(err, domain.ErrOrderNotFound) {
		return s.inconsistent(orderID, "payment exists but order does not", err)
	}
	if err != nil {
		return err
	}
	if domain.OrderTerminal(order.Status) {
		return nil
	}
	_, err = s.Orders.UpdateStatusFrom(orderID, order.Status, domain.OrderCancelled)
	return err
}

// inconsistent logs the divergence for operator attention and returns it;
// reconciliation aborts without partial effects.
func (s *ReconcileService) inconsistent(orderID, detail string, cause error) error {
	err := fmt.Errorf("%w: order %s: %s", domain.ErrReconciliationInconsistency, orderID, detail)
	if cause != nil {
		err = fmt.Errorf("%w: %w", err, cause)
	}
	applog.Error(nil, "reconcile.inconsistency", err, map[string]any{"order_id": orderID})
	return err
}
