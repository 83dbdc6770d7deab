package repos

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"modernc.org/sqlite"
)

// ErrSnapshotExport is wrapped by failures to serialize the engine.
var ErrSnapshotExport = errors.New("snapshot export failed")

// Engine is a private in-memory SQLite database. It is pinned to a single
// connection: an in-memory database lives and dies with its connection, and
// the checkout has exactly one writer.
type Engine struct {
	DB *sqlx.DB
}

// serializer and restorer are implemented by the modernc.org/sqlite driver
// connection.
type serializer interface {
	Serialize() ([]byte, error)
}

type restorer interface {
	NewRestore(srcURI string) (*sqlite.Backup, error)
}

// OpenEngine opens an empty engine, or one materialized from image when it is
// non-empty.
func OpenEngine(ctx context.Context, image []byte) (*Engine, error) {
	db, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	e := &Engine{DB: db}
	if len(image) > 0 {
		if err = e.restore(ctx, image); err != nil {
			_ = db.Close()
			return nil, errors.Wrap(err, "hydrate engine")
		}
	}
	return e, nil
}

// restore copies image into the engine with the SQLite online backup API.
// The image is staged in a temporary file for the copy; the engine's pages
// stay owned by SQLite.
func (e *Engine) restore(ctx context.Context, image []byte) error {
	f, err := os.CreateTemp("", "pdvlocal-*.sqlite")
	if err != nil {
		return err
	}
	path := f.Name()
	defer os.Remove(path)
	if _, err := f.Write(image); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	return e.raw(ctx, func(c any) error {
		r, ok := c.(restorer)
		if !ok {
			return fmt.Errorf("driver %T cannot restore", c)
		}
		bck, err := r.NewRestore(path)
		if err != nil {
			return err
		}
		_, stepErr := bck.Step(-1)
		if err := bck.Finish(); stepErr == nil {
			stepErr = err
		}
		return stepErr
	})
}

func (e *Engine) raw(ctx context.Context, fn func(driverConn any) error) error {
	conn, err := e.DB.Conn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()
	return conn.Raw(func(driverConn any) error { return fn(driverConn) })
}

// Export returns a byte-exact image of the main database at call time.
func (e *Engine) Export(ctx context.Context) ([]byte, error) {
	var image []byte
	err := e.raw(ctx, func(c any) error {
		s, ok := c.(serializer)
		if !ok {
			return fmt.Errorf("driver %T cannot serialize", c)
		}
		var err error
		image, err = s.Serialize()
		return err
	})
	if err != nil {
		return nil, errors.Wrap(fmt.Errorf("%w: %v", ErrSnapshotExport, err), "export")
	}
	if len(image) == 0 {
		return nil, errors.Wrap(ErrSnapshotExport, "export: empty image")
	}
	return image, nil
}

// Run executes a write statement with bound parameters.
func (e *Engine) Run(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return e.DB.ExecContext(ctx, query, args...)
}

// Select scans all result rows into dest, a pointer to a slice of structs.
func (e *Engine) Select(ctx context.Context, dest any, query string, args ...any) error {
	return e.DB.SelectContext(ctx, dest, query, args...)
}

// Get scans a single row into dest.
func (e *Engine) Get(ctx context.Context, dest any, query string, args ...any) error {
	return e.DB.GetContext(ctx, dest, query, args...)
}

func (e *Engine) Close() error { return e.DB.Close() }
