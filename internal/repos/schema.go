package repos

import (
	"context"

	"pdvlocal/internal/domain"
)

// Tables holds the relations every valid image must contain.
var Tables = []string{"products", "sales", "sale_lines"}

func EnsureSchema(ctx context.Context, e *Engine) error {
	schema := `
-- Catalog
CREATE TABLE IF NOT EXISTS products(
  code TEXT PRIMARY KEY,
  description TEXT NOT NULL,
  unit_price REAL NOT NULL CHECK (unit_price >= 0),
  image TEXT
);

-- Sale headers
CREATE TABLE IF NOT EXISTS sales(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  created_at TEXT NOT NULL,
  total REAL NOT NULL DEFAULT 0
);

-- Sale lines
CREATE TABLE IF NOT EXISTS sale_lines(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  sale_id INTEGER NOT NULL,
  product_code TEXT NOT NULL,
  description TEXT NOT NULL,
  quantity INTEGER NOT NULL CHECK (quantity >= 1),
  unit_price REAL NOT NULL,
  subtotal REAL NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_sale_lines_sale_product ON sale_lines(sale_id, product_code);
`
	_, err := e.Run(ctx, schema)
	return err
}

// MissingTables reports which of Tables the engine lacks.
func MissingTables(ctx context.Context, e *Engine) ([]string, error) {
	var present []string
	if err := e.Select(ctx, &present, `SELECT name FROM sqlite_master WHERE type = 'table'`); err != nil {
		return nil, err
	}
	have := make(map[string]bool, len(present))
	for _, n := range present {
		have[n] = true
	}
	var missing []string
	for _, t := range Tables {
		if !have[t] {
			missing = append(missing, t)
		}
	}
	return missing, nil
}

// SeedCatalog inserts the products whose code is not yet in the catalog.
// Safe to run more than once.
func SeedCatalog(ctx context.Context, e *Engine, catalog []domain.Product) error {
	tx, err := e.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, p := range catalog {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO products(code, description, unit_price, image)
			VALUES(?, ?, ?, ?)
			ON CONFLICT(code) DO NOTHING
		`, p.Code, p.Description, p.UnitPrice, p.Image); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// DefaultCatalog is seeded on first run when no catalog file is configured.
var DefaultCatalog = []domain.Product{
	{Code: "7812345678901", Description: "KINDERINI OVO", UnitPrice: 25.0,
		Image: "https://encrypted-tbn0.gstatic.com/shopping?q=tbn:ANd9GcSsTCwbWpOQYBp6lECd6RY7QLokrMmQfScE-iitVfpd1tj5O4HGNwt9REJpf0q58CbCbg4geXiflRUPK7q8HKBvE3Sm0Y8QsJM4hbBlB6dwIuW5fzSRJl5aOVTxVsFjdbMxYQ&usqp=CAc"},
	{Code: "7812345678902", Description: "COCA COLA 2L", UnitPrice: 80.0,
		Image: "https://m.media-amazon.com/images/I/51ITy60nKVL.jpg"},
	{Code: "7812345678903", Description: "PRINGLES CLASSIC PAPRIKA", UnitPrice: 120.0,
		Image: "https://www.lebensmittel-sonderposten.de/media/image/3f/0d/de/Pringles-Classic-Paprika-200g_front_600x600@2x.jpg"},
	{Code: "7812345678904", Description: "TESLA MODEL X", UnitPrice: 45.0,
		Image: "https://www.autoscout24.de/cms-content-assets/2tK1JKXjdC3ArkaOcKifGM-e7e9021dda31572e444da92630ac5fcd-tesla-model-x-m-04-1100.jpg"},
	{Code: "7812345678905", Description: "CHOCOLATE MILKA", UnitPrice: 18.0,
		Image: "https://www.lebensmittel-sonderposten.de/media/image/61/a6/f9/Milka_Alpenmilch_tafel_100g_front_96dpi_600x600@2x.jpg"},
}
