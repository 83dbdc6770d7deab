package handlers

import (
	"context"

	"pdvlocal/internal/domain"
	"pdvlocal/internal/services"
)

// Catalog answers item lookups. The sale session implements it, serialized
// with its scans.
type Catalog interface {
	Lookup(ctx context.Context, code string) (domain.Product, error)
	Search(ctx context.Context, q string, limit int) ([]domain.Product, error)
}

type Deps struct {
	SaleHandler    *SaleHandler
	ProductHandler *ProductHandler
	SearchHandler  *SearchHandler
}

func NewDeps(session *services.SaleSession) *Deps {
	return &Deps{
		SaleHandler:    &SaleHandler{Session: session},
		ProductHandler: &ProductHandler{Catalog: session},
		SearchHandler:  &SearchHandler{Catalog: session},
	}
}
