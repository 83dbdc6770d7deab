package repos

import (
	"context"
	"database/sql"
	"strings"

	"github.com/jmoiron/sqlx"

	"pdvlocal/internal/domain"
)

type ProductRepo struct{ db sqlx.ExtContext }

func NewProductRepo(e *Engine) *ProductRepo { return &ProductRepo{db: e.DB} }

// ByCode returns the product with exactly this code. ok is false when the
// catalog has no such product.
func (r *ProductRepo) ByCode(ctx context.Context, code string) (p domain.Product, ok bool, err error) {
	err = sqlx.GetContext(ctx, r.db, &p, `
	  SELECT code, description, unit_price, COALESCE(image,'') AS image
	  FROM products
	  WHERE code = ?
	`, code)
	if err == sql.ErrNoRows {
		return domain.Product{}, false, nil
	}
	if err != nil {
		return domain.Product{}, false, err
	}
	return p, true, nil
}

// likeEscaper makes LIKE wildcards in user input match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Search lists catalog products, optionally filtered by a case-insensitive
// match on description or code prefix.
func (r *ProductRepo) Search(ctx context.Context, q string, limit int) ([]domain.Product, error) {
	if limit <= 0 {
		limit = 50
	}
	where := `1 = 1`
	args := []any{}
	if q != "" {
		where += ` AND (LOWER(description) LIKE ? ESCAPE '\' OR code LIKE ? ESCAPE '\')`
		lit := likeEscaper.Replace(q)
		args = append(args, "%"+lit+"%", lit+"%")
	}
	query := `
	  SELECT code, description, unit_price, COALESCE(image,'') AS image
	  FROM products
	  WHERE ` + where + `
	  ORDER BY code
	  LIMIT ?`
	args = append(args, limit)

	out := []domain.Product{}
	err := sqlx.SelectContext(ctx, r.db, &out, query, args...)
	return out, err
}
