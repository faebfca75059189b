package services_test

import (
	"errors"
	"testing"

	"craftmarket/internal/domain"
	"craftmarket/internal/repos"
	"craftmarket/internal/services"
)

func catalogFixture(t *testing.T) *services.CatalogService {
	t.Helper()
	db := memdb(t)
	return services.NewCatalogService(repos.NewProductRepo(db))
}

func TestCatalogCreateAndGet(t *testing.T) {
	svc := catalogFixture(t)

	p, err := svc.Create(domain.Product{
		Name: "Clay Vase", Price: 60000, Category: "Crafts",
		SellerID: "u-sari-crafts", Stock: 4,
	})
	if err != nil {
		t.Fatal(err)
	}
	if p.ID == "" || p.ImagesJSON != "[]" {
		t.Fatalf("defaults not applied: %+v", p)
	}

	got, err := svc.Get(p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Clay Vase" || got.Stock != 4 {
		t.Fatalf("round-trip mismatch: %+v", got)
	}
}

func TestCatalogListFilters(t *testing.T) {
	svc := catalogFixture(t)

	crafts, err := svc.List("", "Crafts", 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(crafts) != 1 || crafts[0].ID != "prd-rattan-basket" {
		t.Fatalf("category filter wrong: %+v", crafts)
	}

	bySeller, err := svc.List("u-sari-crafts", "", 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(bySeller) != 3 {
		t.Fatalf("want the 3 seeded products, got %d", len(bySeller))
	}
}

// Updates and deletes are scoped to the owning seller; another seller's id
// behaves like a missing product.
func TestCatalogOwnershipScoped(t *testing.T) {
	svc := catalogFixture(t)

	p, err := svc.Get("prd-teak-stool")
	if err != nil {
		t.Fatal(err)
	}
	p.SellerID = "u-someone-else"
	if _, err := svc.Update(p); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("want ErrProductNotFound, got %v", err)
	}
	if err := svc.Delete("prd-teak-stool", "u-someone-else"); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("want ErrProductNotFound, got %v", err)
	}

	p.SellerID = "u-sari-crafts"
	p.Stock = 7
	got, err := svc.Update(p)
	if err != nil {
		t.Fatal(err)
	}
	if got.Stock != 7 {
		t.Fatalf("update not persisted: %+v", got)
	}
}
