package repos

import (
	"github.com/jmoiron/sqlx"

	"craftmarket/internal/domain"
)

type ReviewRepo struct{ db *sqlx.DB }

func NewReviewRepo(db *sqlx.DB) *ReviewRepo { return &ReviewRepo{db: db} }

// Create inserts the review and refreshes the product's rating aggregates in
// the same transaction. One review per buyer per product.
func (r *ReviewRepo) Create(rev domain.Review) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`
	  INSERT INTO reviews(id, product_id, buyer_id, buyer_name, rating, comment)
	  VALUES (?,?,?,?,?,?)
	`, rev.ID, rev.ProductID, rev.BuyerID, rev.BuyerName, rev.Rating, rev.Comment); err != nil {
		if IsUniqueViolation(err, "") {
			return domain.ErrDuplicateReview
		}
		return err
	}

	if _, err := tx.Exec(`
		UPDATE products
		SET rating = (SELECT AVG(rating) FROM reviews WHERE product_id = ?),
		    reviews = (SELECT COUNT(*) FROM reviews WHERE product_id = ?),
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, rev.ProductID, rev.ProductID, rev.ProductID); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *ReviewRepo) ListByProduct(productID string) ([]domain.Review, error) {
	out := []domain.Review{}
	err := r.db.Select(&out, `
	  SELECT id, product_id, buyer_id, buyer_name, rating, comment, created_at
	  FROM reviews
	  WHERE product_id = ?
	  ORDER BY datetime(created_at) DESC, id
	`, productID)
	return out, err
}
