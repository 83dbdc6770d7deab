package services

import (
	"context"

	"pdvlocal/internal/domain"
	"pdvlocal/internal/repos"
	"pdvlocal/internal/validate"
)

// CatalogService answers item lookups without touching the open sale.
type CatalogService struct {
	Prods *repos.ProductRepo
}

func NewCatalogService(prods *repos.ProductRepo) *CatalogService {
	return &CatalogService{Prods: prods}
}

func (s *CatalogService) Lookup(ctx context.Context, code string) (domain.Product, error) {
	code, ok := validate.Code(code)
	if !ok {
		return domain.Product{}, ErrInvalidCode
	}
	p, found, err := s.Prods.ByCode(ctx, code)
	if err != nil {
		return domain.Product{}, err
	}
	if !found {
		return domain.Product{}, ErrProductNotFound
	}
	return p, nil
}

func (s *CatalogService) Search(ctx context.Context, q string, limit int) ([]domain.Product, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.Prods.Search(ctx, q, limit)
}
