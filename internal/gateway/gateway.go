// Package gateway is the boundary to the external payment gateway: the raw
// status vocabulary is mapped to our payment statuses here and nowhere else,
// and webhook signatures are verified here before any state is touched.
package gateway

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"

	"craftmarket/internal/domain"
)

// WebhookPayload is the gateway's callback body. GrossAmount arrives as a
// string ("200000.00"); it is part of the signature input and is otherwise
// kept opaque.
type WebhookPayload struct {
	OrderID           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	TransactionStatus string `json:"transaction_status"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
}

// MapStatus translates the gateway's transaction status into our status set.
// Unknown values are rejected with ErrInvalidStatus rather than defaulted.
func MapStatus(transactionStatus string) (string, error) {
	switch transactionStatus {
	case "capture", "settlement":
		return domain.PaymentCompleted, nil
	case "cancel", "deny":
		return domain.PaymentFailed, nil
	case "expire":
		return domain.PaymentExpired, nil
	case "pending":
		return domain.PaymentPending, nil
	}
	return "", domain.ErrInvalidStatus
}

// Signature computes the expected webhook signature:
// SHA-512 hex of order_id + status_code + gross_amount + serverKey.
func Signature(orderID, statusCode, grossAmount, serverKey string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}

// VerifySignature checks the payload's signature in constant time.
func VerifySignature(p WebhookPayload, serverKey string) bool {
	want := Signature(p.OrderID, p.StatusCode, p.GrossAmount, serverKey)
	return subtle.ConstantTimeCompare([]byte(want), []byte(p.SignatureKey)) == 1
}
