package services

import (
	"github.com/google/uuid"

	"craftmarket/internal/domain"
	"craftmarket/internal/repos"
)

// CatalogService is the seller-facing product surface. The core only ever
// mutates stock through atomic deltas; seller edits replace the stored
// value in a single update.
type CatalogService struct {
	Prods *repos.ProductRepo
}

func NewCatalogService(prods *repos.ProductRepo) *CatalogService {
	return &CatalogService{Prods: prods}
}

func (s *CatalogService) Get(id string) (domain.Product, error) {
	return s.Prods.Get(id)
}

func (s *CatalogService) List(sellerID, category string, limit, offset int) ([]domain.Product, error) {
	return s.Prods.List(sellerID, category, limit, offset)
}

func (s *CatalogService) Create(p domain.Product) (domain.Product, error) {
	if p.Name == "" || p.SellerID == "" || p.Category == "" {
		return domain.Product{}, domain.ErrMissingField
	}
	if p.Price < 0 || p.Stock < 0 {
		return domain.Product{}, domain.ErrMissingField
	}
	if p.ID == "" {
		p.ID = "prd-" + uuid.NewString()
	}
	if p.ImagesJSON == "" {
		p.ImagesJSON = "[]"
	}
	if err := s.Prods.Create(p); err != nil {
		return domain.Product{}, err
	}
	return s.Prods.Get(p.ID)
}

// Update rewrites a product the seller owns; a mismatched seller id behaves
// like a missing product.
func (s *CatalogService) Update(p domain.Product) (domain.Product, error) {
	if p.ID == "" || p.SellerID == "" {
		return domain.Product{}, domain.ErrMissingField
	}
	if err := s.Prods.Update(p); err != nil {
		return domain.Product{}, err
	}
	return s.Prods.Get(p.ID)
}

func (s *CatalogService) Delete(id, sellerID string) error {
	return s.Prods.Delete(id, sellerID)
}
