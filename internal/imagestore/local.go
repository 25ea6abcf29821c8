package imagestore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// LocalStore writes images into a directory on local disk. References
// are bare filenames, prefixed with an upload timestamp to avoid
// collisions between uploads of the same original name.
type LocalStore struct {
	dir string
}

func NewLocalStore(dir string) *LocalStore {
	return &LocalStore{dir: dir}
}

func (s *LocalStore) Put(ctx context.Context, filename string, r io.Reader) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", errors.Wrap(err, "create image dir")
	}

	name := fmt.Sprintf("%d_%s", time.Now().UnixMilli(), filepath.Base(filename))
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", errors.Wrap(err, "create image file")
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		_ = os.Remove(dst.Name())
		return "", errors.Wrap(err, "write image file")
	}
	return name, nil
}

// Remove deletes a locally stored image by filename. Remote references
// and already-missing files are skipped; deletion is best-effort.
func (s *LocalStore) Remove(ctx context.Context, ref string) error {
	if ref == "" || IsRemote(ref) {
		return nil
	}
	path := filepath.Join(s.dir, filepath.Base(ref))
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			zap.L().Debug("local image already gone", zap.String("ref", ref))
			return nil
		}
		return errors.Wrap(err, "remove image file")
	}
	return nil
}
