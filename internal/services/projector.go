package services

import (
	"context"

	"github.com/pkg/errors"

	"pdvlocal/internal/domain"
	"pdvlocal/internal/money"
	"pdvlocal/internal/repos"
)

// Project reads the grid of saleID and sums its subtotals in decimal. saleID
// 0 means no sale is open: the grid is empty and the total 0, without querying
// the engine.
func Project(ctx context.Context, sales *repos.SaleRepo, saleID int64) (domain.Screen, error) {
	if saleID == 0 {
		return domain.Screen{Lines: []domain.LineView{}}, nil
	}
	lines, err := sales.Lines(ctx, saleID)
	if err != nil {
		return domain.Screen{}, errors.Wrap(err, "grid rows")
	}
	subtotals := make([]float64, len(lines))
	for i, l := range lines {
		subtotals[i] = l.Subtotal
	}
	total := money.Sum(subtotals...)
	return domain.Screen{SaleID: saleID, Open: true, Lines: lines, Total: total}, nil
}
