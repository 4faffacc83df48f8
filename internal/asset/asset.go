// Package asset manages the photo assets owned by catalogue products,
// abstracting over local-disk and S3 storage backends.
package asset

import (
	"context"
	"io"
	"path/filepath"

	"github.com/google/uuid"
)

// Upload is a raw photo upload awaiting storage.
type Upload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// Manager stores and deletes photo assets. Store returns a durable
// reference usable as a product's photo field; callers must not persist a
// product until Store has succeeded. Delete is invoked best-effort by the
// catalogue: a failure leaves an unreferenced asset behind, which is a
// recoverable leak rather than a correctness violation.
type Manager interface {
	// Store persists the uploaded bytes and returns the asset reference.
	Store(ctx context.Context, upload Upload) (string, error)

	// Delete removes the asset identified by ref.
	Delete(ctx context.Context, ref string) error
}

// objectName derives a collision-free stored name for an upload, keeping
// the original extension so content type survives a round trip.
func objectName(filename string) string {
	return uuid.New().String() + filepath.Ext(filename)
}
