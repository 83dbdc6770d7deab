package store

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// FileStore keeps the image as a single file of an afero.Fs. Saves go to a
// temporary sibling which is then renamed over the image.
type FileStore struct {
	Fs    afero.Fs
	Path  string
	Codec Codec
}

// NewFileStore returns a FileStore rooted at dir. A nil fs uses the OS
// filesystem.
func NewFileStore(fs afero.Fs, dir string, codec Codec) *FileStore {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if dir == "" {
		dir = "."
	}
	return &FileStore{
		Fs:    fs,
		Path:  filepath.Join(dir, Name, Bucket, Key),
		Codec: codec,
	}
}

func (s *FileStore) Load(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, unavailable(err, "file load")
	}
	stored, err := afero.ReadFile(s.Fs, s.Path)
	if os.IsNotExist(err) {
		return nil, nil
	} else if err != nil {
		return nil, unavailable(err, "file load")
	}
	image, err := decode(stored)
	if err != nil {
		return nil, unavailable(err, "file decode")
	}
	return image, nil
}

func (s *FileStore) Save(ctx context.Context, image []byte) error {
	if err := ctx.Err(); err != nil {
		return unavailable(err, "file save")
	}
	if len(image) == 0 {
		return unavailable(errors.New("empty image"), "file save")
	}
	stored, err := s.Codec.encode(image)
	if err != nil {
		return unavailable(err, "file encode")
	}
	if err := s.Fs.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return unavailable(err, "file save")
	}
	tmp := s.Path + ".tmp"
	if err := afero.WriteFile(s.Fs, tmp, stored, 0o600); err != nil {
		return unavailable(err, "file save")
	}
	if err := s.Fs.Rename(tmp, s.Path); err != nil {
		_ = s.Fs.Remove(tmp)
		return unavailable(err, "file save")
	}
	return nil
}

func (s *FileStore) Close() error { return nil }
