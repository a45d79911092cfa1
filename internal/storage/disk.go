package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DiskStore keeps files in a local directory. Intended for development and
// tests; production deployments use the S3 store.
type DiskStore struct {
	dir string
}

// NewDiskStore creates the target directory if needed.
func NewDiskStore(dir string) (*DiskStore, error) {
	if dir == "" {
		return nil, errors.New("storage directory must not be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &DiskStore{dir: dir}, nil
}

// path rejects references escaping the storage directory.
func (d *DiskStore) path(ref string) (string, error) {
	if ref == "" || ref != filepath.Base(ref) || strings.HasPrefix(ref, ".") {
		return "", fmt.Errorf("invalid file reference %q", ref)
	}
	return filepath.Join(d.dir, ref), nil
}

// Save writes the content to disk and returns its reference.
func (d *DiskStore) Save(ctx context.Context, filename string, content io.Reader) (string, error) {
	ref := newRef(filename)

	path, err := d.path(ref)
	if err != nil {
		return "", err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}

	if _, err := io.Copy(f, content); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("write file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close file: %w", err)
	}

	return ref, nil
}

// Open resolves a reference to its file content.
func (d *DiskStore) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	path, err := d.path(ref)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("open file: %w", err)
	}
	return f, nil
}

// Remove deletes the referenced file.
func (d *DiskStore) Remove(ctx context.Context, ref string) error {
	path, err := d.path(ref)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrFileNotFound
		}
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}
