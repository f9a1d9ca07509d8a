package media

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Store persists menu item images. File names are generated by the caller and
// are assumed unique, so concurrent uploads of distinct names never race.
type Store interface {
	Upload(fileName string, content io.Reader) (string, error)
	Delete(fileName string) error
}

type LocalStore struct {
	dir string
}

func NewLocalStore(dir string) *LocalStore {
	return &LocalStore{dir: dir}
}

// Upload writes content under the store's directory, creating it if needed,
// and returns the combined path that gets persisted on the record.
func (s *LocalStore) Upload(fileName string, content io.Reader) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("media.Upload: create dir: %w", err)
	}

	fullPath := filepath.Join(s.dir, fileName)
	dst, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("media.Upload: create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, content); err != nil {
		return "", fmt.Errorf("media.Upload: write file: %w", err)
	}
	return fullPath, nil
}

// Delete removes a stored file. A file that is already gone is not an error.
func (s *LocalStore) Delete(fileName string) error {
	fullPath := filepath.Join(s.dir, fileName)
	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("media.Delete: %w", err)
	}
	return nil
}
