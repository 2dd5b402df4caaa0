package archive

import (
	"context"
	"os"
	"path/filepath"
)

// Local stores archives as files under one directory.
type Local struct {
	dir string
}

// NewLocal creates a Local backend rooted at dir.
func NewLocal(dir string) *Local {
	return &Local{dir: dir}
}

// Put writes the archive to dir/key.
func (l *Local) Put(ctx context.Context, key string, data []byte) error {
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(l.dir, key), data, 0o644)
}

// Get reads the archive at dir/key.
func (l *Local) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(l.dir, key))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}
