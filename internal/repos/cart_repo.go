package repos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"craftmarket/internal/domain"
)

type CartRepo struct{ db *sqlx.DB }

func NewCartRepo(db *sqlx.DB) *CartRepo { return &CartRepo{db: db} }

// Get returns the buyer's cart, creating an empty one on first contact.
func (r *CartRepo) Get(buyerID string) (domain.Cart, error) {
	if err := r.ensure(r.db, buyerID); err != nil {
		return domain.Cart{}, err
	}

	cart := domain.Cart{BuyerID: buyerID, Items: []domain.CartItem{}}
	row := struct {
		TotalPrice float64        `db:"total_price"`
		UpdatedAt  sql.NullString `db:"updated_at"`
	}{}
	if err := r.db.Get(&row, `SELECT total_price, updated_at FROM carts WHERE buyer_id = ?`, buyerID); err != nil {
		return domain.Cart{}, err
	}
	cart.TotalPrice = row.TotalPrice
	cart.UpdatedAt = row.UpdatedAt.String

	if err := r.db.Select(&cart.Items, `
	  SELECT product_id, product_name, price, quantity, image, seller_id
	  FROM cart_items
	  WHERE buyer_id = ?
	  ORDER BY created_at, rowid
	`, buyerID); err != nil {
		return domain.Cart{}, err
	}
	return cart, nil
}

// SetItem appends the line item or replaces the quantity of an existing one
// (set semantics), then recomputes the total, all in one transaction.
func (r *CartRepo) SetItem(buyerID string, item domain.CartItem) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := r.ensure(tx, buyerID); err != nil {
		return err
	}
	if _, err := tx.Exec(`
		INSERT INTO cart_items(buyer_id,product_id,product_name,price,quantity,image,seller_id)
		VALUES(?,?,?,?,?,?,?)
		ON CONFLICT(buyer_id,product_id) DO UPDATE
		SET quantity = excluded.quantity, updated_at = CURRENT_TIMESTAMP
	`, buyerID, item.ProductID, item.ProductName, item.Price, item.Quantity, item.Image, item.SellerID); err != nil {
		return err
	}
	if err := recomputeTotal(tx, buyerID); err != nil {
		return err
	}
	return tx.Commit()
}

// SetQuantity replaces the quantity of an existing line item. The caller
// removes instead when the new quantity is zero or below.
func (r *CartRepo) SetQuantity(buyerID, productID string, qty int) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec(`
		UPDATE cart_items SET quantity = ?, updated_at = CURRENT_TIMESTAMP
		WHERE buyer_id = ? AND product_id = ?
	`, qty, buyerID, productID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrItemNotFound
	}
	if err := recomputeTotal(tx, buyerID); err != nil {
		return err
	}
	return tx.Commit()
}

// RemoveItem drops the line item if present; absence is not an error.
func (r *CartRepo) RemoveItem(buyerID, productID string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := r.ensure(tx, buyerID); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM cart_items WHERE buyer_id = ? AND product_id = ?`, buyerID, productID); err != nil {
		return err
	}
	if err := recomputeTotal(tx, buyerID); err != nil {
		return err
	}
	return tx.Commit()
}

// Clear empties all line items; the cart record itself stays.
func (r *CartRepo) Clear(buyerID string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := r.ensure(tx, buyerID); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM cart_items WHERE buyer_id = ?`, buyerID); err != nil {
		return err
	}
	if err := recomputeTotal(tx, buyerID); err != nil {
		return err
	}
	return tx.Commit()
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// ensure lazily creates the buyer's cart record.
func (r *CartRepo) ensure(e execer, buyerID string) error {
	_, err := e.Exec(`INSERT INTO carts(buyer_id) VALUES(?) ON CONFLICT(buyer_id) DO NOTHING`, buyerID)
	return err
}

// recomputeTotal persists total = sum(price*quantity) as the last step of
// every cart mutation.
func recomputeTotal(e execer, buyerID string) error {
	_, err := e.Exec(`
		UPDATE carts
		SET total_price = (SELECT COALESCE(SUM(price*quantity),0) FROM cart_items WHERE buyer_id = ?),
		    updated_at = CURRENT_TIMESTAMP
		WHERE buyer_id = ?
	`, buyerID, buyerID)
	return err
}
