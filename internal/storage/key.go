package storage

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// newRef derives a collision-free reference keeping the original extension
// so content types survive a round trip.
func newRef(filename string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	return uuid.NewString() + ext
}
