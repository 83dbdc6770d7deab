package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"pdvlocal/internal/log"
	"pdvlocal/internal/money"
	"pdvlocal/internal/validate"
)

type SearchHandler struct {
	Catalog Catalog
}

func (h *SearchHandler) Search(c *fiber.Ctx) error {
	q := ""
	if rawQ := c.Query("q"); strings.TrimSpace(rawQ) != "" {
		v, ok := validate.Q(rawQ)
		if !ok {
			log.Security(c, "validation.fail", map[string]any{"field": "q"})
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Enter a valid keyword (letters/numbers only)",
			})
		}
		q = strings.ToLower(v)
	}

	products, err := h.Catalog.Search(c.UserContext(), q, 50)
	if err != nil {
		log.Error(c, "search.error", err, nil)
		return jsonError(c, err)
	}
	out := make([]productView, 0, len(products))
	for _, p := range products {
		out = append(out, productView{Product: p, PriceDisplay: money.Format(p.UnitPrice)})
	}
	return c.JSON(fiber.Map{"q": q, "products": out, "count": len(out)})
}
