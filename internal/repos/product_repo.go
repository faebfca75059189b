package repos

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"craftmarket/internal/domain"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productColumns = `
  id, name, description, price, category, seller_id, images_json,
  stock, rating, reviews, created_at, COALESCE(updated_at,'') AS updated_at`

func (r *ProductRepo) Get(id string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `SELECT`+productColumns+` FROM products WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return p, err
}

func (r *ProductRepo) List(sellerID, category string, limit, offset int) ([]domain.Product, error) {
	if limit <= 0 {
		limit = 50
	}
	where := `1=1`
	args := []any{}
	if sellerID != "" {
		where += ` AND seller_id = ?`
		args = append(args, sellerID)
	}
	if category != "" {
		where += ` AND category = ?`
		args = append(args, category)
	}
	args = append(args, limit, offset)

	out := []domain.Product{}
	err := r.db.Select(&out, `
	  SELECT`+productColumns+` FROM products
	  WHERE `+where+`
	  ORDER BY datetime(created_at) DESC, id
	  LIMIT ? OFFSET ?
	`, args...)
	return out, err
}

func (r *ProductRepo) Create(p domain.Product) error {
	_, err := r.db.Exec(`
	  INSERT INTO products(id, name, description, price, category, seller_id, images_json, stock)
	  VALUES (?,?,?,?,?,?,?,?)
	`, p.ID, p.Name, p.Description, p.Price, p.Category, p.SellerID, p.ImagesJSON, p.Stock)
	return err
}

func (r *ProductRepo) Update(p domain.Product) error {
	res, err := r.db.Exec(`
		UPDATE products
		SET name = ?, description = ?, price = ?, category = ?, images_json = ?,
		    stock = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND seller_id = ?
	`, p.Name, p.Description, p.Price, p.Category, p.ImagesJSON, p.Stock, p.ID, p.SellerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *ProductRepo) Delete(id, sellerID string) error {
	res, err := r.db.Exec(`DELETE FROM products WHERE id = ? AND seller_id = ?`, id, sellerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// Stock reads the current stock for a product.
func (r *ProductRepo) Stock(id string) (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT stock FROM products WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.ErrProductNotFound
	}
	return n, err
}

// DecrementStockClamped subtracts `by` units, clamping at zero, as one
// atomic delta against the stored value. Concurrent orders against the same
// product may clamp; oversell beyond the clamp is accepted.
func (r *ProductRepo) DecrementStockClamped(id string, by int) error {
	res, err := r.db.Exec(`
		UPDATE products
		SET stock = CASE WHEN stock >= ? THEN stock - ? ELSE 0 END,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, by, by, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}
