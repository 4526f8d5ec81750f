package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryStorage implements ObjectStorage on top of Cloudinary. Buckets
// map to folder prefixes and keys to public IDs; Cloudinary public IDs carry
// no file extension, so the extension is stripped on upload and removal and
// re-applied in the delivery URL.
type CloudinaryStorage struct {
	cld       *cloudinary.Cloudinary
	cloudName string
}

// NewCloudinaryStorage creates a client from a CLOUDINARY_URL-style URL.
func NewCloudinaryStorage(cloudURL string) (*CloudinaryStorage, error) {
	cld, err := cloudinary.NewFromURL(cloudURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}
	return &CloudinaryStorage{
		cld:       cld,
		cloudName: cld.Config.Cloud.CloudName,
	}, nil
}

// Upload stores the object under <bucket>/<key>.
func (s *CloudinaryStorage) Upload(ctx context.Context, bucket, key string, data io.Reader, overwrite bool) error {
	_, err := s.cld.Upload.Upload(ctx, data, uploader.UploadParams{
		PublicID:  publicID(bucket, key),
		Overwrite: api.Bool(overwrite),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s/%s: %w", bucket, key, err)
	}
	return nil
}

// PublicURL returns the Cloudinary delivery URL for a key.
func (s *CloudinaryStorage) PublicURL(bucket, key string) string {
	return fmt.Sprintf("https://res.cloudinary.com/%s/image/upload/%s", s.cloudName, path.Join(bucket, key))
}

// Remove destroys the given keys. Cloudinary treats destroying a missing
// public ID as a no-op result, matching the contract.
func (s *CloudinaryStorage) Remove(ctx context.Context, bucket string, keys []string) error {
	for _, key := range keys {
		_, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
			PublicID: publicID(bucket, key),
		})
		if err != nil {
			return fmt.Errorf("failed to remove %s/%s: %w", bucket, key, err)
		}
	}
	return nil
}

func publicID(bucket, key string) string {
	return path.Join(bucket, strings.TrimSuffix(key, path.Ext(key)))
}
