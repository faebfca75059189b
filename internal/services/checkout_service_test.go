package services_test

import (
	"errors"
	"testing"

	"craftmarket/internal/domain"
	"craftmarket/internal/repos"
	"craftmarket/internal/services"
)

func checkoutFixture(t *testing.T) (*services.CheckoutService, *reconcileFixture) {
	t.Helper()
	f := newReconcileFixture(t)
	svc := services.NewCheckoutService(repos.NewUserRepo(f.db), f.orders, f.pays, f.recon)
	return svc, f
}

// PayNow runs order creation and settlement in one request; the result must
// be indistinguishable from a webhook-settled order.
func TestPayNow(t *testing.T) {
	svc, f := checkoutFixture(t)
	if _, err := f.carts.UpsertItem("u-dewi", stool(2)); err != nil {
		t.Fatal(err)
	}

	in := validOrderInput()
	order, payment, err := svc.PayNow(in.BuyerID, in.SellerID, in.Items, in.TotalPrice, in.Shipping, in.PaymentMethod, "")
	if err != nil {
		t.Fatal(err)
	}

	if order.Status != domain.OrderProcessing {
		t.Fatalf("settled order should be processing, got %s", order.Status)
	}
	if payment.Status != domain.PaymentCompleted {
		t.Fatalf("payment should be completed, got %s", payment.Status)
	}
	if payment.Amount != order.TotalPrice {
		t.Fatalf("payment amount %v != order total %v", payment.Amount, order.TotalPrice)
	}
	if got := stockOf(t, f.db, "prd-teak-stool"); got != 10 {
		t.Fatalf("stock should drop 12 -> 10, got %d", got)
	}
	cart, err := f.carts.Get("u-dewi")
	if err != nil {
		t.Fatal(err)
	}
	if len(cart.Items) != 0 {
		t.Fatalf("cart should be cleared, got %+v", cart.Items)
	}
}

func TestPayNowUnknownBuyer(t *testing.T) {
	svc, _ := checkoutFixture(t)

	in := validOrderInput()
	_, _, err := svc.PayNow("u-ghost", in.SellerID, in.Items, in.TotalPrice, in.Shipping, in.PaymentMethod, "")
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("want ErrUserNotFound, got %v", err)
	}
}

func TestPayNowInsufficientStock(t *testing.T) {
	svc, f := checkoutFixture(t)

	in := validOrderInput()
	in.Items[0].Quantity = 13
	_, _, err := svc.PayNow(in.BuyerID, in.SellerID, in.Items, in.TotalPrice, in.Shipping, in.PaymentMethod, "")
	if !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("want ErrInsufficientStock, got %v", err)
	}
	if got := stockOf(t, f.db, "prd-teak-stool"); got != 12 {
		t.Fatalf("stock changed on rejected checkout: %d", got)
	}
}
