// Package store persists the database image of the checkout terminal.
//
// A Store holds at most one image under a fixed key. Save replaces the image
// in a single write; Load returns the bytes of the last successful Save, or
// nil when nothing was ever saved.
package store

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

const (
	// Name is the logical name of the persistent store.
	Name = "pdvlocal_database"
	// Bucket is the object store holding the image.
	Bucket = "database"
	// Key addresses the single image inside Bucket.
	Key = "db"
)

// ErrStoreUnavailable is wrapped by every failure to open, read or write the
// backing store.
var ErrStoreUnavailable = errors.New("persistence store unavailable")

type Store interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, image []byte) error
	Close() error
}

type Config struct {
	Driver string // bolt | file
	Dir    string
	Codec  string // none | gzip | snappy
}

// Open builds the Store selected by cfg.Driver.
func Open(cfg Config) (Store, error) {
	codec, err := ParseCodec(cfg.Codec)
	if err != nil {
		return nil, err
	}
	switch cfg.Driver {
	case "", "bolt":
		return NewBoltStore(cfg.Dir, codec), nil
	case "file":
		return NewFileStore(nil, cfg.Dir, codec), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

func unavailable(err error, msg string) error {
	return errors.Wrap(fmt.Errorf("%w: %v", ErrStoreUnavailable, err), msg)
}
