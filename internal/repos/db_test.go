package repos

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdvlocal/internal/domain"
)

func seeded(t *testing.T) *Engine {
	t.Helper()
	ctx := context.Background()
	e, err := OpenEngine(ctx, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })

	require.NoError(t, EnsureSchema(ctx, e))
	require.NoError(t, SeedCatalog(ctx, e, DefaultCatalog))
	return e
}

func dumpTable(t *testing.T, e *Engine, table string) []map[string]any {
	t.Helper()
	// table comes from the fixed Tables list, never from input.
	rows, err := e.DB.Queryx(`SELECT * FROM ` + table + ` ORDER BY rowid`)
	require.NoError(t, err)
	defer rows.Close()

	var out []map[string]any
	for rows.Next() {
		m := map[string]any{}
		require.NoError(t, rows.MapScan(m))
		out = append(out, m)
	}
	require.NoError(t, rows.Err())
	return out
}

func TestEnsureSchemaAndSeedAreIdempotent(t *testing.T) {
	ctx := context.Background()
	e := seeded(t)

	require.NoError(t, EnsureSchema(ctx, e))
	require.NoError(t, SeedCatalog(ctx, e, DefaultCatalog))

	var n int
	require.NoError(t, e.Get(ctx, &n, `SELECT COUNT(*) FROM products`))
	assert.Equal(t, len(DefaultCatalog), n)

	missing, err := MissingTables(ctx, e)
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestMissingTablesOnEmptyEngine(t *testing.T) {
	ctx := context.Background()
	e, err := OpenEngine(ctx, nil)
	require.NoError(t, err)
	defer e.Close()

	missing, err := MissingTables(ctx, e)
	require.NoError(t, err)
	assert.Equal(t, Tables, missing)
}

func TestExportHydrateRoundTrip(t *testing.T) {
	ctx := context.Background()
	e := seeded(t)

	sales := NewSaleRepo(e)
	id, err := sales.Create(ctx, "2026-10-17T10:00:00Z")
	require.NoError(t, err)
	_, err = e.Run(ctx, `INSERT INTO sale_lines(sale_id, product_code, description, quantity, unit_price, subtotal)
		VALUES(?, ?, ?, ?, ?, ?)`, id, "7812345678901", "KINDERINI OVO", 2, 25.0, 50.0)
	require.NoError(t, err)
	require.NoError(t, sales.SetTotal(ctx, id, 50))

	image, err := e.Export(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, image)

	h, err := OpenEngine(ctx, image)
	require.NoError(t, err)
	defer h.Close()

	for _, table := range []string{"products", "sales", "sale_lines", "sqlite_sequence"} {
		assert.Equal(t, dumpTable(t, e, table), dumpTable(t, h, table), table)
	}
}

func TestHydratedEngineNeverReusesSaleIDs(t *testing.T) {
	ctx := context.Background()
	e := seeded(t)

	first, err := NewSaleRepo(e).Create(ctx, "2026-10-17T10:00:00Z")
	require.NoError(t, err)
	_, err = e.Run(ctx, `DELETE FROM sales WHERE id = ?`, first)
	require.NoError(t, err)

	image, err := e.Export(ctx)
	require.NoError(t, err)
	h, err := OpenEngine(ctx, image)
	require.NoError(t, err)
	defer h.Close()

	next, err := NewSaleRepo(h).Create(ctx, "2026-10-17T10:05:00Z")
	require.NoError(t, err)
	assert.Greater(t, next, first)
}

func TestOpenEngineRejectsGarbage(t *testing.T) {
	ctx := context.Background()
	e, err := OpenEngine(ctx, []byte("definitely not a database"))
	assert.Error(t, err)
	assert.Nil(t, e)
}

func TestHydratedEngineWritesAndCloses(t *testing.T) {
	ctx := context.Background()
	image, err := seeded(t).Export(ctx)
	require.NoError(t, err)

	h, err := OpenEngine(ctx, image)
	require.NoError(t, err)

	// Grow the database well past the restored image.
	sales := NewSaleRepo(h)
	for i := 0; i < 200; i++ {
		id, err := sales.Create(ctx, "2026-10-17T10:00:00Z")
		require.NoError(t, err)
		_, err = sales.InsertLine(ctx, domain.SaleLine{
			SaleID: id, ProductCode: "7812345678902", Description: "COCA COLA 2L",
			Quantity: 1, UnitPrice: 80, Subtotal: 80,
		})
		require.NoError(t, err)
		require.NoError(t, sales.SetTotal(ctx, id, 80))
	}
	grown, err := h.Export(ctx)
	require.NoError(t, err)
	assert.Greater(t, len(grown), len(image))

	assert.NoError(t, h.Close())

	again, err := OpenEngine(ctx, grown)
	require.NoError(t, err)
	var n int
	require.NoError(t, again.Get(ctx, &n, `SELECT COUNT(*) FROM sales`))
	assert.Equal(t, 200, n)
	assert.NoError(t, again.Close())
}
