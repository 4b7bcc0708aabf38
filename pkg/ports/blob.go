package ports

import "context"

// BlobStore stores generated binary media and hands back a public URL.
// The session document only ever carries the URL, never the bytes.
type BlobStore interface {
	// Upload stores the blob under the given path hint and returns the
	// URL at which it can be fetched.
	Upload(ctx context.Context, data []byte, mimeType, path string) (string, error)

	// Open retrieves a stored blob by its path.
	// Returns domain.ErrBlobNotFound if no blob exists at the path.
	Open(ctx context.Context, path string) (data []byte, mimeType string, err error)
}
