package blob

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ShrinivasInamdar/Hackathon-2025/internal/filex"
)

// LocalStore keeps payloads under a base directory on the local filesystem.
// Keys are slash-separated relative paths.
type LocalStore struct {
	baseDir string
}

// NewLocalStore ensures dir exists and returns a store rooted there.
func NewLocalStore(dir string) (*LocalStore, error) {
	base, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, err
	}
	return &LocalStore{baseDir: base}, nil
}

func (s *LocalStore) Save(ctx context.Context, data []byte, ext string) (string, error) {
	key := newStorageKey(ext)
	path := filepath.Join(s.baseDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o660); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return key, nil
}

func (s *LocalStore) Read(ctx context.Context, key string) ([]byte, error) {
	path := filepath.Join(s.baseDir, filepath.FromSlash(key))
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

func (s *LocalStore) Delete(ctx context.Context, key string) error {
	path := filepath.Join(s.baseDir, filepath.FromSlash(key))
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}
