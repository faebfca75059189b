package services_test

import (
	"errors"
	"testing"

	"craftmarket/internal/domain"
	"craftmarket/internal/repos"
	"craftmarket/internal/services"
)

func reviewFixture(t *testing.T) (*services.ReviewService, *services.CatalogService) {
	t.Helper()
	db := memdb(t)
	prodRepo := repos.NewProductRepo(db)
	return services.NewReviewService(repos.NewReviewRepo(db), prodRepo), services.NewCatalogService(prodRepo)
}

func TestReviewUpdatesAggregates(t *testing.T) {
	reviews, catalog := reviewFixture(t)

	if _, err := reviews.Add("prd-teak-stool", "u-dewi", "Dewi", 5, "beautiful finish"); err != nil {
		t.Fatal(err)
	}
	if _, err := reviews.Add("prd-teak-stool", "u-adi", "Adi", 4, ""); err != nil {
		t.Fatal(err)
	}

	p, err := catalog.Get("prd-teak-stool")
	if err != nil {
		t.Fatal(err)
	}
	if p.Reviews != 2 {
		t.Fatalf("want 2 reviews, got %d", p.Reviews)
	}
	if p.Rating != 4.5 {
		t.Fatalf("want rating 4.5, got %v", p.Rating)
	}

	list, err := reviews.ListByProduct("prd-teak-stool")
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("want 2 reviews listed, got %d", len(list))
	}
}

func TestReviewOnePerBuyer(t *testing.T) {
	reviews, _ := reviewFixture(t)

	if _, err := reviews.Add("prd-teak-stool", "u-dewi", "Dewi", 5, ""); err != nil {
		t.Fatal(err)
	}
	_, err := reviews.Add("prd-teak-stool", "u-dewi", "Dewi", 1, "changed my mind")
	if !errors.Is(err, domain.ErrDuplicateReview) {
		t.Fatalf("want ErrDuplicateReview, got %v", err)
	}
}

func TestReviewRatingBounds(t *testing.T) {
	reviews, _ := reviewFixture(t)

	for _, rating := range []int{0, 6, -1} {
		if _, err := reviews.Add("prd-teak-stool", "u-dewi", "Dewi", rating, ""); !errors.Is(err, domain.ErrInvalidQuantity) {
			t.Fatalf("rating %d: want ErrInvalidQuantity, got %v", rating, err)
		}
	}
}

func TestReviewUnknownProduct(t *testing.T) {
	reviews, _ := reviewFixture(t)

	_, err := reviews.Add("prd-ghost", "u-dewi", "Dewi", 4, "")
	if !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("want ErrProductNotFound, got %v", err)
	}
}
