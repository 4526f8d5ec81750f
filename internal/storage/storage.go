package storage

import (
	"context"
	"io"
)

// Bucket names used by the services.
const (
	ProductImagesBucket = "product-images"
	SiteImagesBucket    = "site-images"
)

// ObjectStorage is the narrow contract the services need from an object
// store: upload bytes under a bucket-scoped key, resolve the key's public
// URL, and remove objects. There is no atomicity between this store and the
// data store; callers own best-effort sequencing.
type ObjectStorage interface {
	// Upload stores the object. When overwrite is false an existing object
	// under the same key is an error; when true it is replaced.
	Upload(ctx context.Context, bucket, key string, data io.Reader, overwrite bool) error
	// PublicURL returns the publicly reachable URL for a key. It does not
	// check that the object exists.
	PublicURL(bucket, key string) string
	// Remove deletes the given keys. Missing keys are not an error.
	Remove(ctx context.Context, bucket string, keys []string) error
}
