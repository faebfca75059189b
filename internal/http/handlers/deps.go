package handlers

import (
	"github.com/jmoiron/sqlx"

	"craftmarket/internal/config"
	"craftmarket/internal/repos"
	"craftmarket/internal/services"
)

type Deps struct {
	AuthHandler    *AuthHandler
	ProductHandler *ProductHandler
	CartHandler    *CartHandler
	OrderHandler   *OrderHandler
	PaymentHandler *PaymentHandler
	ReviewHandler  *ReviewHandler

	Auth *services.AuthService
}

func NewDeps(db *sqlx.DB, cfg config.Config) *Deps {
	userRepo := repos.NewUserRepo(db)
	prodRepo := repos.NewProductRepo(db)
	cartRepo := repos.NewCartRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	payRepo := repos.NewPaymentRepo(db)
	reviewRepo := repos.NewReviewRepo(db)

	authSvc := services.NewAuthService(userRepo, cfg.JWTSecret)
	catalogSvc := services.NewCatalogService(prodRepo)
	cartSvc := services.NewCartService(cartRepo)
	orderSvc := services.NewOrderService(orderRepo, prodRepo)
	paySvc := services.NewPaymentService(payRepo)
	reconSvc := services.NewReconcileService(payRepo, orderRepo, cartRepo, prodRepo)
	checkoutSvc := services.NewCheckoutService(userRepo, orderSvc, paySvc, reconSvc)
	reviewSvc := services.NewReviewService(reviewRepo, prodRepo)

	return &Deps{
		AuthHandler:    &AuthHandler{Auth: authSvc},
		ProductHandler: &ProductHandler{Catalog: catalogSvc},
		CartHandler:    &CartHandler{Cart: cartSvc},
		OrderHandler:   &OrderHandler{Orders: orderSvc},
		PaymentHandler: &PaymentHandler{
			Checkout:  checkoutSvc,
			Payments:  paySvc,
			Recon:     reconSvc,
			ServerKey: cfg.GatewayServerKey,
		},
		ReviewHandler: &ReviewHandler{Reviews: reviewSvc},
		Auth:          authSvc,
	}
}
