package store

import (
	"context"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

// BoltStore keeps the image in a bbolt file. The file is opened for each
// operation and closed when it completes, so no lock is held between saves.
type BoltStore struct {
	Path        string
	Codec       Codec
	LockTimeout time.Duration
}

func NewBoltStore(dir string, codec Codec) *BoltStore {
	if dir == "" {
		dir = "."
	}
	return &BoltStore{
		Path:        filepath.Join(dir, Name+".db"),
		Codec:       codec,
		LockTimeout: 5 * time.Second,
	}
}

func (s *BoltStore) with(ctx context.Context, fn func(*bolt.DB) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	db, err := bolt.Open(s.Path, 0o600, &bolt.Options{Timeout: s.LockTimeout})
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(db)
}

func (s *BoltStore) Load(ctx context.Context) ([]byte, error) {
	var stored []byte
	err := s.with(ctx, func(db *bolt.DB) error {
		return db.View(func(tx *bolt.Tx) error {
			b := tx.Bucket([]byte(Bucket))
			if b == nil {
				return nil
			}
			if v := b.Get([]byte(Key)); v != nil {
				// v is only valid for the life of the transaction.
				stored = append([]byte(nil), v...)
			}
			return nil
		})
	})
	if err != nil {
		return nil, unavailable(err, "bolt load")
	}
	if stored == nil {
		return nil, nil
	}
	image, err := decode(stored)
	if err != nil {
		return nil, unavailable(err, "bolt decode")
	}
	return image, nil
}

func (s *BoltStore) Save(ctx context.Context, image []byte) error {
	if len(image) == 0 {
		return unavailable(errors.New("empty image"), "bolt save")
	}
	stored, err := s.Codec.encode(image)
	if err != nil {
		return unavailable(err, "bolt encode")
	}
	err = s.with(ctx, func(db *bolt.DB) error {
		return db.Update(func(tx *bolt.Tx) error {
			b, err := tx.CreateBucketIfNotExists([]byte(Bucket))
			if err != nil {
				return err
			}
			return b.Put([]byte(Key), stored)
		})
	})
	if err != nil {
		return unavailable(err, "bolt save")
	}
	return nil
}

// Close is a no-op; handles never outlive an operation.
func (s *BoltStore) Close() error { return nil }
