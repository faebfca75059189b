package main

import (
	"io"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"craftmarket/internal/config"
	"craftmarket/internal/http/handlers"
	applog "craftmarket/internal/log"
	"craftmarket/internal/repos"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			// Avoid leaking internals
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "something went wrong, please try again",
			})
		},
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			// The gateway retries webhooks on its own schedule; never
			// throttle it into dropping a notification.
			return c.Path() == "/api/v1/payments/webhook"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.global.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	}))

	// ---------- App handlers ----------
	deps := handlers.NewDeps(db, cfg)
	user := handlers.RequireUser(deps.Auth)
	seller := handlers.RequireSeller(deps.Auth)

	api := app.Group("/api/v1")

	// Auth (login throttled)
	api.Post("/auth/register", deps.AuthHandler.Register)
	api.Post("/auth/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "too many attempts, try again later"})
		},
	}), deps.AuthHandler.Login)

	// Catalog
	api.Get("/products", deps.ProductHandler.List)
	api.Get("/products/:id", deps.ProductHandler.Get)
	api.Post("/products", seller, deps.ProductHandler.Create)
	api.Put("/products/:id", seller, deps.ProductHandler.Update)
	api.Delete("/products/:id", seller, deps.ProductHandler.Delete)

	// Cart
	api.Get("/cart", user, deps.CartHandler.Get)
	api.Post("/cart", user, deps.CartHandler.Upsert)
	api.Put("/cart", user, deps.CartHandler.SetQuantity)
	api.Delete("/cart", user, deps.CartHandler.Delete)

	// Orders
	api.Get("/orders", user, deps.OrderHandler.List)
	api.Get("/orders/:id", user, deps.OrderHandler.Get)
	api.Post("/orders", user, deps.OrderHandler.Create)
	api.Put("/orders", seller, deps.OrderHandler.UpdateStatus)
	api.Delete("/orders", user, deps.OrderHandler.Cancel)

	// Payments
	api.Post("/payments", user, deps.PaymentHandler.PayNow)
	api.Get("/payments/status", user, deps.PaymentHandler.Status)
	api.Post("/payments/status", user, deps.PaymentHandler.Confirm)
	api.Post("/payments/webhook", deps.PaymentHandler.Webhook)

	// Reviews
	api.Get("/reviews", deps.ReviewHandler.List)
	api.Post("/reviews", user, deps.ReviewHandler.Create)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
