package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"

	"pdvlocal/internal/domain"
	"pdvlocal/internal/log"
	"pdvlocal/internal/money"
	"pdvlocal/internal/services"
)

type ProductHandler struct {
	Catalog Catalog
}

type productView struct {
	domain.Product
	PriceDisplay string `json:"price_display"`
}

// Lookup shows a catalog item without adding it to the sale.
func (h *ProductHandler) Lookup(c *fiber.Ctx) error {
	p, err := h.Catalog.Lookup(c.UserContext(), c.Params("code"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCode):
			log.Security(c, "validation.fail", map[string]any{"field": "code"})
		case errors.Is(err, services.ErrProductNotFound):
			log.Info(c, "product.lookup.notfound", nil)
		default:
			log.Error(c, "product.lookup.fail", err, nil)
		}
		return jsonError(c, err)
	}
	return c.JSON(productView{Product: p, PriceDisplay: money.Format(p.UnitPrice)})
}
