package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"

	"craftmarket/internal/config"
	"craftmarket/internal/http/handlers"
	"craftmarket/internal/repos"
)

const testServerKey = "test-server-key"

// newTestApp wires the real handlers against an in-memory store, with the
// same route layout the server binary uses.
func newTestApp(t *testing.T) (*fiber.App, *sqlx.DB) {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)

	cfg := config.Config{JWTSecret: "test-secret", GatewayServerKey: testServerKey}
	deps := handlers.NewDeps(db, cfg)
	user := handlers.RequireUser(deps.Auth)
	seller := handlers.RequireSeller(deps.Auth)

	app := fiber.New()
	api := app.Group("/api/v1")

	api.Post("/auth/register", deps.AuthHandler.Register)
	api.Post("/auth/login", deps.AuthHandler.Login)

	api.Get("/products", deps.ProductHandler.List)
	api.Get("/products/:id", deps.ProductHandler.Get)
	api.Post("/products", seller, deps.ProductHandler.Create)
	api.Put("/products/:id", seller, deps.ProductHandler.Update)
	api.Delete("/products/:id", seller, deps.ProductHandler.Delete)

	api.Get("/cart", user, deps.CartHandler.Get)
	api.Post("/cart", user, deps.CartHandler.Upsert)
	api.Put("/cart", user, deps.CartHandler.SetQuantity)
	api.Delete("/cart", user, deps.CartHandler.Delete)

	api.Get("/orders", user, deps.OrderHandler.List)
	api.Get("/orders/:id", user, deps.OrderHandler.Get)
	api.Post("/orders", user, deps.OrderHandler.Create)
	api.Put("/orders", seller, deps.OrderHandler.UpdateStatus)
	api.Delete("/orders", user, deps.OrderHandler.Cancel)

	api.Post("/payments", user, deps.PaymentHandler.PayNow)
	api.Get("/payments/status", user, deps.PaymentHandler.Status)
	api.Post("/payments/status", user, deps.PaymentHandler.Confirm)
	api.Post("/payments/webhook", deps.PaymentHandler.Webhook)

	api.Get("/reviews", deps.ReviewHandler.List)
	api.Post("/reviews", user, deps.ReviewHandler.Create)

	return app, db
}

func jsonReq(method, target, token string, body any) *http.Request {
	var rd io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

// login signs in a seeded account and returns its bearer token.
func login(t *testing.T, app *fiber.App, email string) string {
	t.Helper()
	resp, err := app.Test(jsonReq("POST", "/api/v1/auth/login", "", map[string]string{
		"email":    email,
		"password": "Passw0rd!",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login %s failed with %d", email, resp.StatusCode)
	}
	token, _ := decode(t, resp)["token"].(string)
	if token == "" {
		t.Fatal("no token in login response")
	}
	return token
}

func orderBody() map[string]any {
	return map[string]any{
		"sellerId": "u-sari-crafts",
		"items": []map[string]any{
			{"productId": "prd-teak-stool", "productName": "Teak Stool", "price": 450000, "quantity": 2},
		},
		"totalPrice": 900000,
		"shippingAddress": map[string]any{
			"fullName":   "Dewi",
			"phone":      "+62-812-0000-0000",
			"address":    "Jl. Kenanga 5",
			"city":       "Yogyakarta",
			"province":   "DIY",
			"postalCode": "55281",
		},
		"paymentMethod": "bank_transfer",
	}
}

// placeOrder creates a pending order over HTTP and returns its id.
func placeOrder(t *testing.T, app *fiber.App, token string) string {
	t.Helper()
	resp, err := app.Test(jsonReq("POST", "/api/v1/orders", token, orderBody()))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("order create failed with %d", resp.StatusCode)
	}
	order, _ := decode(t, resp)["order"].(map[string]any)
	id, _ := order["orderId"].(string)
	if id == "" {
		t.Fatal("no order id in response")
	}
	return id
}

func TestAuthRequired(t *testing.T) {
	app, _ := newTestApp(t)

	for _, target := range []string{"/api/v1/cart", "/api/v1/orders"} {
		resp, err := app.Test(httptest.NewRequest("GET", target, nil))
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("%s: want 401 without a token, got %d", target, resp.StatusCode)
		}
	}
}

func TestCartUpsertOverHTTP(t *testing.T) {
	app, _ := newTestApp(t)
	token := login(t, app, "dewi@craftmarket.test")

	item := map[string]any{
		"productId": "prd-teak-stool", "productName": "Teak Stool",
		"price": 450000, "quantity": 2, "sellerId": "u-sari-crafts",
	}
	resp, err := app.Test(jsonReq("POST", "/api/v1/cart", token, item))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("want 201, got %d", resp.StatusCode)
	}

	// Repeating with a new quantity replaces, not adds.
	item["quantity"] = 5
	resp, err = app.Test(jsonReq("POST", "/api/v1/cart", token, item))
	if err != nil {
		t.Fatal(err)
	}
	body := decode(t, resp)
	cart, _ := body["cart"].(map[string]any)
	items, _ := cart["items"].([]any)
	if len(items) != 1 {
		t.Fatalf("want 1 line item, got %d", len(items))
	}
	if qty := items[0].(map[string]any)["quantity"].(float64); qty != 5 {
		t.Fatalf("want quantity 5, got %v", qty)
	}
	if total := cart["totalPrice"].(float64); total != 5*450000 {
		t.Fatalf("want total %v, got %v", 5*450000, total)
	}
}

func TestCartRejectsZeroQuantityAdd(t *testing.T) {
	app, _ := newTestApp(t)
	token := login(t, app, "dewi@craftmarket.test")

	resp, err := app.Test(jsonReq("POST", "/api/v1/cart", token, map[string]any{
		"productId": "prd-teak-stool", "productName": "Teak Stool",
		"price": 450000, "quantity": 0,
	}))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", resp.StatusCode)
	}
}

func TestOrderCreateMissingFieldOverHTTP(t *testing.T) {
	app, _ := newTestApp(t)
	token := login(t, app, "dewi@craftmarket.test")

	body := orderBody()
	delete(body, "sellerId")
	resp, err := app.Test(jsonReq("POST", "/api/v1/orders", token, body))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", resp.StatusCode)
	}
}

func TestOrderStatusConflictOverHTTP(t *testing.T) {
	app, _ := newTestApp(t)
	buyer := login(t, app, "dewi@craftmarket.test")
	seller := login(t, app, "sari@craftmarket.test")
	orderID := placeOrder(t, app, buyer)

	// pending -> shipped skips processing.
	resp, err := app.Test(jsonReq("PUT", "/api/v1/orders", seller, map[string]any{
		"orderId": orderID, "status": "shipped",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("want 409 for an invalid transition, got %d", resp.StatusCode)
	}
}

func TestOrderVisibilityScopedToParticipants(t *testing.T) {
	app, _ := newTestApp(t)
	dewi := login(t, app, "dewi@craftmarket.test")
	adi := login(t, app, "adi@craftmarket.test")
	orderID := placeOrder(t, app, dewi)

	resp, err := app.Test(jsonReq("GET", "/api/v1/orders/"+orderID, adi, nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("another buyer should not see the order, got %d", resp.StatusCode)
	}

	resp, err = app.Test(jsonReq("GET", "/api/v1/orders/"+orderID, dewi, nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("owner should see the order, got %d", resp.StatusCode)
	}
}

func TestProductRoutesSellerOnly(t *testing.T) {
	app, _ := newTestApp(t)
	buyer := login(t, app, "dewi@craftmarket.test")

	resp, err := app.Test(jsonReq("POST", "/api/v1/products", buyer, map[string]any{
		"name": "Clay Vase", "price": 60000, "category": "Crafts", "stock": 4,
	}))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("buyer creating a product should 403, got %d", resp.StatusCode)
	}

	// Public listing stays open.
	resp, err = app.Test(httptest.NewRequest("GET", "/api/v1/products", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("product list should be public, got %d", resp.StatusCode)
	}
	if n := decode(t, resp)["count"].(float64); n != 3 {
		t.Fatalf("want the 3 seeded products, got %v", n)
	}
}

func TestPayNowOverHTTP(t *testing.T) {
	app, db := newTestApp(t)
	token := login(t, app, "dewi@craftmarket.test")

	resp, err := app.Test(jsonReq("POST", "/api/v1/payments", token, orderBody()))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("want 201, got %d", resp.StatusCode)
	}
	body := decode(t, resp)
	order, _ := body["order"].(map[string]any)
	payment, _ := body["payment"].(map[string]any)
	if order["status"] != "processing" {
		t.Fatalf("order should be processing, got %v", order["status"])
	}
	if payment["status"] != "completed" {
		t.Fatalf("payment should be completed, got %v", payment["status"])
	}

	var stock int
	if err := db.Get(&stock, `SELECT stock FROM products WHERE id = 'prd-teak-stool'`); err != nil {
		t.Fatal(err)
	}
	if stock != 10 {
		t.Fatalf("stock should drop 12 -> 10, got %d", stock)
	}
}
