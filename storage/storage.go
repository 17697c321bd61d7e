// Package storage abstracts where uploaded listing images end up. Uploads
// return a public URL that is stored on the listing document as-is.
package storage

import (
	"context"
	"io"
)

type ImageStore interface {
	// Upload stores the image and returns its public URL.
	Upload(ctx context.Context, filename string, r io.Reader) (string, error)
}
