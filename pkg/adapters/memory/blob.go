package memory

import (
	"context"
	"sync"

	"github.com/agenticum/agenticum/pkg/domain"
)

type blobEntry struct {
	data     []byte
	mimeType string
}

// BlobStore keeps uploaded media in memory and serves it back under
// the /assets/ URL prefix.
type BlobStore struct {
	mu    sync.RWMutex
	blobs map[string]blobEntry
}

// NewBlobStore creates an empty in-memory blob store.
func NewBlobStore() *BlobStore {
	return &BlobStore{blobs: make(map[string]blobEntry)}
}

// Upload stores the blob under path and returns its serving URL.
func (b *BlobStore) Upload(ctx context.Context, data []byte, mimeType, path string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	stored := make([]byte, len(data))
	copy(stored, data)
	b.blobs[path] = blobEntry{data: stored, mimeType: mimeType}
	return "/assets/" + path, nil
}

// Open returns the blob stored under path.
func (b *BlobStore) Open(ctx context.Context, path string) ([]byte, string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	entry, ok := b.blobs[path]
	if !ok {
		return nil, "", domain.ErrBlobNotFound
	}
	data := make([]byte, len(entry.data))
	copy(data, entry.data)
	return data, entry.mimeType, nil
}
