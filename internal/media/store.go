// Package media abstracts the external object store used for user-uploaded
// images. Domain services depend on the Store interface only; the disk
// implementation stands in for a hosted media service.
package media

import "context"

// Asset is the stored representation of one uploaded file.
type Asset struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

// Store is the narrow interface every media-bearing flow goes through.
// Upload must complete before any database row references the asset;
// Delete is best-effort and failures are logged, not surfaced.
type Store interface {
	Upload(ctx context.Context, content []byte, contentType, folder string) (*Asset, error)
	Delete(ctx context.Context, publicID string) error
}
