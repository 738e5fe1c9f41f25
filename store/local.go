package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Local writes documents into a directory on disk.
type Local struct {
	root string
}

// NewLocal creates the directory (with parents) if needed.
func NewLocal(dir string) (*Local, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}
	return &Local{root: abs}, nil
}

func (l *Local) Root() string {
	return l.root
}

func (l *Local) Location(name string) string {
	return filepath.Join(l.root, filepath.FromSlash(name))
}

// Put writes through a temp file so readers never see a partial document.
func (l *Local) Put(_ context.Context, name string, data []byte) error {
	full := l.Location(name)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(full), "."+filepath.Base(full)+".*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), full)
}

// List returns the names of stored files ending in suffix, sorted.
func (l *Local) List(suffix string) ([]string, error) {
	var res []string
	err := filepath.WalkDir(l.root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		base := filepath.Base(p)
		if d.IsDir() || strings.HasPrefix(base, ".") || !strings.HasSuffix(base, suffix) {
			return nil
		}
		rel, err := filepath.Rel(l.root, p)
		if err != nil {
			return err
		}
		res = append(res, filepath.ToSlash(rel))
		return nil
	})
	return res, err
}

func (l *Local) Get(_ context.Context, name string) ([]byte, error) {
	return os.ReadFile(l.Location(name))
}
