package repos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"pdvlocal/internal/domain"
)

type SaleRepo struct{ db sqlx.ExtContext }

func NewSaleRepo(e *Engine) *SaleRepo { return &SaleRepo{db: e.DB} }

// WithTx returns a SaleRepo issuing its statements on tx.
func (r *SaleRepo) WithTx(tx *sqlx.Tx) *SaleRepo { return &SaleRepo{db: tx} }

// ---------- Sale headers ----------

// Create inserts an open sale header and returns its generated id.
func (r *SaleRepo) Create(ctx context.Context, createdAt string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
	  INSERT INTO sales(created_at, total) VALUES(?, 0)
	`, createdAt)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *SaleRepo) Get(ctx context.Context, saleID int64) (domain.Sale, error) {
	var s domain.Sale
	err := sqlx.GetContext(ctx, r.db, &s, `
	  SELECT id, created_at, total FROM sales WHERE id = ?
	`, saleID)
	return s, err
}

func (r *SaleRepo) SetTotal(ctx context.Context, saleID int64, total float64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE sales SET total = ? WHERE id = ?`, total, saleID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

type SaleSummary struct {
	ID        int64   `db:"id" json:"id"`
	CreatedAt string  `db:"created_at" json:"created_at"`
	Total     float64 `db:"total" json:"total"`
	Items     int     `db:"items" json:"items"`
}

// ListLatest returns the newest sales first, leaving out exclude (the open
// sale, if any).
func (r *SaleRepo) ListLatest(ctx context.Context, limit int, exclude int64) ([]SaleSummary, error) {
	if limit <= 0 {
		limit = 100
	}
	out := []SaleSummary{}
	err := sqlx.SelectContext(ctx, r.db, &out, `
	  SELECT s.id, s.created_at, s.total, COALESCE(SUM(l.quantity), 0) AS items
	  FROM sales s
	  LEFT JOIN sale_lines l ON l.sale_id = s.id
	  WHERE s.id != ?
	  GROUP BY s.id
	  ORDER BY s.id DESC
	  LIMIT ?
	`, exclude, limit)
	return out, err
}

// ---------- Sale lines ----------

// FindLine returns the line of saleID for product code, if any.
func (r *SaleRepo) FindLine(ctx context.Context, saleID int64, code string) (l domain.SaleLine, ok bool, err error) {
	err = sqlx.GetContext(ctx, r.db, &l, `
	  SELECT id, sale_id, product_code, description, quantity, unit_price, subtotal
	  FROM sale_lines
	  WHERE sale_id = ? AND product_code = ?
	`, saleID, code)
	if err == sql.ErrNoRows {
		return domain.SaleLine{}, false, nil
	}
	if err != nil {
		return domain.SaleLine{}, false, err
	}
	return l, true, nil
}

// InsertLine inserts l and returns its generated id.
func (r *SaleRepo) InsertLine(ctx context.Context, l domain.SaleLine) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
	  INSERT INTO sale_lines(sale_id, product_code, description, quantity, unit_price, subtotal)
	  VALUES(?, ?, ?, ?, ?, ?)
	`, l.SaleID, l.ProductCode, l.Description, l.Quantity, l.UnitPrice, l.Subtotal)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *SaleRepo) UpdateLine(ctx context.Context, lineID int64, qty int, subtotal float64) error {
	_, err := r.db.ExecContext(ctx, `
	  UPDATE sale_lines SET quantity = ?, subtotal = ? WHERE id = ?
	`, qty, subtotal, lineID)
	return err
}

// Lines projects the grid of saleID in insertion order.
func (r *SaleRepo) Lines(ctx context.Context, saleID int64) ([]domain.LineView, error) {
	rows := []domain.LineView{}
	err := sqlx.SelectContext(ctx, r.db, &rows, `
	  SELECT product_code, description, quantity, unit_price, subtotal
	  FROM sale_lines
	  WHERE sale_id = ?
	  ORDER BY id
	`, saleID)
	return rows, err
}
