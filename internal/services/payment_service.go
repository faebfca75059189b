package services

import (
	"fmt"

	"craftmarket/internal/domain"
	"craftmarket/internal/repos"
)

// PaymentService is the ledger of payment attempts: one row per order,
// status moved only through explicit updates. It never reaches into orders
// or products; the reconciler drives those.
type PaymentService struct {
	Payments *repos.PaymentRepo

	// NewID is swappable in tests; it defaults to domain.NewTransactionID.
	NewID func() string
}

func NewPaymentService(payments *repos.PaymentRepo) *PaymentService {
	return &PaymentService{Payments: payments, NewID: domain.NewTransactionID}
}

// Record creates the payment attempt for an order with a fresh TXN-
// identifier. A second attempt for the same order fails with
// ErrDuplicatePayment; a transaction-id collision is retried once.
func (s *PaymentService) Record(orderID, buyerID string, amount float64, currency, paymentMethod string) (domain.Payment, error) {
	if orderID == "" || buyerID == "" || paymentMethod == "" || amount <= 0 {
		return domain.Payment{}, domain.ErrMissingField
	}
	if currency == "" {
		currency = "IDR"
	}

	p := domain.Payment{
		TransactionID: s.NewID(),
		OrderID:       orderID,
		BuyerID:       buyerID,
		Amount:        amount,
		Currency:      currency,
		PaymentMethod: paymentMethod,
		Status:        domain.PaymentPending,
	}

	err := s.Payments.Create(p)
	if repos.IsUniqueViolation(err, "payments.transaction_id") {
		p.TransactionID = s.NewID()
		err = s.Payments.Create(p)
	}
	if err != nil {
		return domain.Payment{}, err
	}
	return s.Payments.ByOrderID(orderID)
}

// Get resolves a payment by transaction id or order id.
func (s *PaymentService) Get(ref string) (domain.Payment, error) {
	return s.Payments.ByReference(ref)
}

// UpdateStatus sets the payment's status, looked up by either identifier.
// Statuses outside the known set are rejected with ErrInvalidStatus.
func (s *PaymentService) UpdateStatus(ref, newStatus, gatewayPayload string) (domain.Payment, error) {
	if !domain.ValidPaymentStatus(newStatus) {
		return domain.Payment{}, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, newStatus)
	}
	if err := s.Payments.UpdateStatus(ref, newStatus, gatewayPayload); err != nil {
		return domain.Payment{}, err
	}
	return s.Payments.ByReference(ref)
}
