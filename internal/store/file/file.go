package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/toby-sam/budget/internal/store"
)

// Medium stores each key as <dir>/<key>.json.
type Medium struct {
	dir string
}

func New(dir string) (*Medium, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Medium{dir: dir}, nil
}

func (m *Medium) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid key %q", key)
	}

	return filepath.Join(m.dir, key+".json"), nil
}

func (m *Medium) Read(_ context.Context, key string) ([]byte, error) {
	path, err := m.path(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, store.ErrNotExist
		}

		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	return data, nil
}

// Write replaces the file atomically: the data goes to a temp file in the same
// directory which is then renamed over the target.
func (m *Medium) Write(_ context.Context, key string, data []byte) error {
	path, err := m.path(key)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(m.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing temp file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}

	return nil
}
