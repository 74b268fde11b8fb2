package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/okian/fantasybakes/internal/domain/model"
)

const filePerm = 0o644

// FileStore persists the season as a JSON or YAML document on local disk.
// The format follows the file extension: .yaml and .yml select YAML,
// anything else JSON.
type FileStore struct {
	path string
	yaml bool
}

// NewFileStore returns a store for path.
func NewFileStore(path string) *FileStore {
	ext := strings.ToLower(filepath.Ext(path))
	return &FileStore{path: path, yaml: ext == ".yaml" || ext == ".yml"}
}

// Path returns the document location.
func (f *FileStore) Path() string { return f.path }

// Load reads and decodes the document.
func (f *FileStore) Load(ctx context.Context) (s *model.Season, err error) {
	defer func(start time.Time) { observe(BackendFile, opLoad, start, err) }(time.Now())

	if err := ctx.Err(); err != nil {
		return nil, loadErr(BackendFile, err)
	}
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, loadErr(BackendFile, fmt.Errorf("%s: %w", f.path, errEmpty))
		}
		return nil, loadErr(BackendFile, err)
	}
	if f.yaml {
		s, err = decodeYAML(data)
	} else {
		s, err = decodeJSON(data)
	}
	if err != nil {
		return nil, loadErr(BackendFile, fmt.Errorf("%s: %w", f.path, err))
	}
	return s, nil
}

// Save writes the document to a temporary file next to the target and
// renames it into place so readers never observe a partial write.
func (f *FileStore) Save(ctx context.Context, s *model.Season) (err error) {
	defer func(start time.Time) { observe(BackendFile, opSave, start, err) }(time.Now())

	if err := ctx.Err(); err != nil {
		return saveErr(BackendFile, err)
	}
	var data []byte
	if f.yaml {
		data, err = encodeYAML(s)
	} else {
		data, err = encodeJSON(s)
	}
	if err != nil {
		return saveErr(BackendFile, err)
	}
	if err := writeAtomic(f.path, data); err != nil {
		return saveErr(BackendFile, err)
	}
	return nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	name := tmp.Name()
	cleanup := func() { _ = os.Remove(name) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return err
	}
	if err := os.Chmod(name, filePerm); err != nil {
		cleanup()
		return err
	}
	if err := os.Rename(name, path); err != nil {
		cleanup()
		return err
	}
	return nil
}
