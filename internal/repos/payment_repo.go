package repos

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"craftmarket/internal/domain"
)

type PaymentRepo struct{ db *sqlx.DB }

func NewPaymentRepo(db *sqlx.DB) *PaymentRepo { return &PaymentRepo{db: db} }

// Create inserts the single payment row for an order. The unique index on
// order_id is the duplicate-payment backstop.
func (r *PaymentRepo) Create(p domain.Payment) error {
	_, err := r.db.Exec(`
	  INSERT INTO payments
	    (transaction_id, order_id, buyer_id, amount, currency, payment_method, status, gateway_payload)
	  VALUES (?,?,?,?,?,?,?,?)
	`, p.TransactionID, p.OrderID, p.BuyerID, p.Amount, p.Currency, p.PaymentMethod, p.Status, p.GatewayPayload)
	if IsUniqueViolation(err, "payments.order_id") {
		return domain.ErrDuplicatePayment
	}
	return err
}

// ByReference resolves a payment by transaction id or order id; both point
// at the same row when they both match.
func (r *PaymentRepo) ByReference(ref string) (domain.Payment, error) {
	var p domain.Payment
	err := r.db.Get(&p, `
	  SELECT transaction_id, order_id, buyer_id, amount, currency, payment_method, status,
	         gateway_payload, created_at, COALESCE(updated_at,'') AS updated_at
	  FROM payments
	  WHERE transaction_id = ? OR order_id = ?
	`, ref, ref)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Payment{}, domain.ErrPaymentNotFound
	}
	return p, err
}

// ByOrderID resolves the payment for an order.
func (r *PaymentRepo) ByOrderID(orderID string) (domain.Payment, error) {
	var p domain.Payment
	err := r.db.Get(&p, `
	  SELECT transaction_id, order_id, buyer_id, amount, currency, payment_method, status,
	         gateway_payload, created_at, COALESCE(updated_at,'') AS updated_at
	  FROM payments
	  WHERE order_id = ?
	`, orderID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Payment{}, domain.ErrPaymentNotFound
	}
	return p, err
}

// UpdateStatus persists the new status (and the raw gateway payload when one
// was delivered) against the row matching either identifier.
func (r *PaymentRepo) UpdateStatus(ref, status, gatewayPayload string) error {
	res, err := r.db.Exec(`
		UPDATE payments
		SET status = ?,
		    gateway_payload = COALESCE(NULLIF(?,''), gateway_payload),
		    updated_at = CURRENT_TIMESTAMP
		WHERE transaction_id = ? OR order_id = ?
	`, status, gatewayPayload, ref, ref)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrPaymentNotFound
	}
	return nil
}
