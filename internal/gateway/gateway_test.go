package gateway_test

import (
	"errors"
	"testing"

	"craftmarket/internal/domain"
	"craftmarket/internal/gateway"
)

func TestMapStatus(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"capture", domain.PaymentCompleted},
		{"settlement", domain.PaymentCompleted},
		{"cancel", domain.PaymentFailed},
		{"deny", domain.PaymentFailed},
		{"expire", domain.PaymentExpired},
		{"pending", domain.PaymentPending},
	}
	for _, tc := range cases {
		got, err := gateway.MapStatus(tc.in)
		if err != nil {
			t.Fatalf("%s: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("%s: want %s, got %s", tc.in, tc.want, got)
		}
	}
}

func TestMapStatusRejectsUnknown(t *testing.T) {
	for _, in := range []string{"", "refund", "SETTLEMENT", "authorize"} {
		if _, err := gateway.MapStatus(in); !errors.Is(err, domain.ErrInvalidStatus) {
			t.Fatalf("%q: want ErrInvalidStatus, got %v", in, err)
		}
	}
}

func TestVerifySignature(t *testing.T) {
	const serverKey = "test-server-key"

	p := gateway.WebhookPayload{
		OrderID:           "ORD-1",
		StatusCode:        "200",
		TransactionStatus: "settlement",
		GrossAmount:       "900000.00",
	}
	p.SignatureKey = gateway.Signature(p.OrderID, p.StatusCode, p.GrossAmount, serverKey)

	if !gateway.VerifySignature(p, serverKey) {
		t.Fatal("valid signature rejected")
	}

	tampered := p
	tampered.GrossAmount = "1.00"
	if gateway.VerifySignature(tampered, serverKey) {
		t.Fatal("tampered amount accepted")
	}

	if gateway.VerifySignature(p, "other-key") {
		t.Fatal("wrong server key accepted")
	}

	empty := p
	empty.SignatureKey = ""
	if gateway.VerifySignature(empty, serverKey) {
		t.Fatal("missing signature accepted")
	}
}
