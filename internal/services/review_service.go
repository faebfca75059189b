package services

import (
	"github.com/google/uuid"

	"craftmarket/internal/domain"
	"craftmarket/internal/repos"
)

type ReviewService struct {
	Reviews *repos.ReviewRepo
	Prods   *repos.ProductRepo
}

func NewReviewService(reviews *repos.ReviewRepo, prods *repos.ProductRepo) *ReviewService {
	return &ReviewService{Reviews: reviews, Prods: prods}
}

// Add records one review per buyer per product and refreshes the product's
// rating aggregates.
func (s *ReviewService) Add(productID, buyerID, buyerName string, rating int, comment string) (domain.Review, error) {
	if productID == "" || buyerID == "" || buyerName == "" {
		return domain.Review{}, domain.ErrMissingField
	}
	if rating < 1 || rating > 5 {
		return domain.Review{}, domain.ErrInvalidQuantity
	}
	if _, err := s.Prods.Get(productID); err != nil {
		return domain.Review{}, err
	}

	rev := domain.Review{
		ID:        "rev-" + uuid.NewString(),
		ProductID: productID,
		BuyerID:   buyerID,
		BuyerName: buyerName,
		Rating:    rating,
		Comment:   comment,
	}
	if err := s.Reviews.Create(rev); err != nil {
		return domain.Review{}, err
	}
	return rev, nil
}

func (s *ReviewService) ListByProduct(productID string) ([]domain.Review, error) {
	return s.Reviews.ListByProduct(productID)
}
