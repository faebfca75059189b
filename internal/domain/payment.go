package domain

// Payment statuses. completed and settlement are the equivalent success
// terminals; failed and expired are failure terminals.
const (
	PaymentPending    = "pending"
	PaymentCompleted  = "completed"
	PaymentSettlement = "settlement"
	PaymentFailed     = "failed"
	PaymentExpired    = "expired"
)

// ValidPaymentStatus reports whether s is one of the known statuses.
func ValidPaymentStatus(s string) bool {
	switch s {
	case PaymentPending, PaymentCompleted, PaymentSettlement, PaymentFailed, PaymentExpired:
		return true
	}
	return false
}

// PaymentTerminal reports whether s ends the payment's lifecycle.
func PaymentTerminal(s string) bool {
	return s != "" && s != PaymentPending && ValidPaymentStatus(s)
}

// PaymentSucceeded treats completed and settlement as the same outcome.
func PaymentSucceeded(s string) bool {
	return s == PaymentCompleted || s == PaymentSettlement
}

// Payment records the single payment attempt for an order. GatewayPayload
// holds the raw gateway response verbatim; it is never interpreted after
// the status has been mapped at the boundary.
type Payment struct {
	TransactionID  string  `db:"transaction_id" json:"transactionId"`
	OrderID        string  `db:"order_id" json:"orderId"`
	BuyerID        string  `db:"buyer_id" json:"buyerId"`
	Amount         float64 `db:"amount" json:"amount"`
	Currency       string  `db:"currency" json:"currency"`
	PaymentMethod  string  `db:"payment_method" json:"paymentMethod"`
	Status         string  `db:"status" json:"status"`
	GatewayPayload string  `db:"gateway_payload" json:"gatewayResponse,omitempty"`
	CreatedAt      string  `db:"created_at" json:"createdAt"`
	UpdatedAt      string  `db:"updated_at" json:"updatedAt,omitempty"`
}
