// Package osfs implements the storage backend over the local filesystem,
// one settings file per entry.
package osfs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	st "github.com/lolokcat/cypherconf/storage"
)

const filePerm = 0o644

// FS stores each entry as a file. Entry names are paths, resolved against
// Dir when it is non-empty and used as-is otherwise.
type FS struct {
	dir string
}

var _ st.Backend = (*FS)(nil)

// New returns a filesystem backend. dir may be empty, in which case entry
// names are treated as caller-supplied paths (relative to the working
// directory or absolute).
func New(dir string) *FS {
	return &FS{dir: dir}
}

func (f *FS) path(name string) string {
	if f.dir == "" {
		return name
	}
	return filepath.Join(f.dir, name)
}

func (f *FS) Exists(_ context.Context, name string) (bool, error) {
	_, err := os.Stat(f.path(name))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

func (f *FS) Read(_ context.Context, name string) ([]byte, error) {
	b, err := os.ReadFile(f.path(name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", st.ErrNotExist, name)
	}
	return b, err
}

// Write replaces the file atomically: the data lands in a temp file in the
// same directory first, then renames over the target. A crash mid-write
// never leaves a half-written settings file behind.
func (f *FS) Write(_ context.Context, name string, data []byte) error {
	path := f.path(name)
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(filePerm); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func (f *FS) Close(context.Context) error { return nil }
