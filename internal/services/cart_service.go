package services

import (
	"craftmarket/internal/domain"
	"craftmarket/internal/repos"
)

// CartService owns the one-cart-per-buyer mapping. Every mutation ends with
// the persisted total recomputed; racing calls for the same product are
// last-write-wins by contract.
type CartService struct {
	Carts *repos.CartRepo
}

func NewCartService(carts *repos.CartRepo) *CartService {
	return &CartService{Carts: carts}
}

// Get returns the buyer's cart, lazily creating an empty one.
func (s *CartService) Get(buyerID string) (domain.Cart, error) {
	return s.Carts.Get(buyerID)
}

// UpsertItem appends a new line item or replaces the quantity of an existing
// one. Replace, not add: a retried call lands on the same final quantity
// instead of double-counting.
func (s *CartService) UpsertItem(buyerID string, item domain.CartItem) (domain.Cart, error) {
	if item.Quantity < 1 {
		return domain.Cart{}, domain.ErrInvalidQuantity
	}
	if err := s.Carts.SetItem(buyerID, item); err != nil {
		return domain.Cart{}, err
	}
	return s.Carts.Get(buyerID)
}

// SetItemQuantity sets the exact quantity of an item already in the cart.
// Zero or below removes the line item entirely. Stock is not checked here;
// order-build time is where quantities are validated against stock.
func (s *CartService) SetItemQuantity(buyerID, productID string, qty int) (domain.Cart, error) {
	var err error
	if qty <= 0 {
		err = s.Carts.RemoveItem(buyerID, productID)
	} else {
		err = s.Carts.SetQuantity(buyerID, productID, qty)
	}
	if err != nil {
		return domain.Cart{}, err
	}
	return s.Carts.Get(buyerID)
}

// RemoveItem drops the line item; removing an absent item succeeds.
func (s *CartService) RemoveItem(buyerID, productID string) (domain.Cart, error) {
	if err := s.Carts.RemoveItem(buyerID, productID); err != nil {
		return domain.Cart{}, err
	}
	return s.Carts.Get(buyerID)
}

// Clear empties the cart; idempotent.
func (s *CartService) Clear(buyerID string) (domain.Cart, error) {
	if err := s.Carts.Clear(buyerID); err != nil {
		return domain.Cart{}, err
	}
	return s.Carts.Get(buyerID)
}
