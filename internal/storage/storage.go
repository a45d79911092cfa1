package storage

import (
	"context"
	"errors"
	"io"
)

// ErrFileNotFound is returned when a reference does not resolve to a stored file.
var ErrFileNotFound = errors.New("file not found")

// FileStore persists uploaded files behind opaque reference names.
type FileStore interface {
	// Save stores the content and returns the reference for later lookups.
	// The filename is only used to derive the reference's extension.
	Save(ctx context.Context, filename string, content io.Reader) (string, error)
	// Open resolves a reference back to its content.
	Open(ctx context.Context, ref string) (io.ReadCloser, error)
	// Remove deletes the file behind the reference.
	Remove(ctx context.Context, ref string) error
}
