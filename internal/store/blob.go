package store

import "context"

// BlobStore hands out presigned URLs for attachment content. The server
// never proxies file bytes; clients upload and download directly against
// the returned URLs.
type BlobStore interface {
	// PresignPut returns a URL the client can PUT the object to.
	PresignPut(ctx context.Context, key string, contentType string) (string, error)

	// PresignGet returns a URL the client can GET the object from.
	PresignGet(ctx context.Context, key string) (string, error)

	// Delete removes the object at key.
	Delete(ctx context.Context, key string) error
}
