package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Local stores documents as plain files under a writable scratch directory.
type Local struct {
	dir string
}

func NewLocal(dir string) *Local {
	return &Local{dir: dir}
}

func (l *Local) path(key string) string {
	return filepath.Join(l.dir, filepath.Base(key))
}

func (l *Local) Read(_ context.Context, key string) ([]byte, error) {
	content, err := os.ReadFile(l.path(key))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("local: read %s: %w", key, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("local: read %s: %w", key, err)
	}
	return content, nil
}

func (l *Local) Write(_ context.Context, key string, content []byte) error {
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return fmt.Errorf("local: write %s: %w", key, err)
	}
	if err := os.WriteFile(l.path(key), content, 0o644); err != nil {
		return fmt.Errorf("local: write %s: %w", key, err)
	}
	return nil
}

func (l *Local) Exists(_ context.Context, key string) (bool, error) {
	_, err := os.Stat(l.path(key))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("local: stat %s: %w", key, err)
	}
	return true, nil
}
