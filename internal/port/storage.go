package port

import (
	"context"
	"io"
)

// UploadInput is one uploaded order export on its way to the archive.
type UploadInput struct {
	Bucket      string
	Key         string
	Body        io.Reader
	ContentType string
	Size        int64
	// Metadata is stored with the object so an archived export can be traced
	// back to its import batch without the database.
	Metadata map[string]string
}

type UploadOutput struct {
	Location string
	ETag     string
}

// ObjectStorage archives uploaded order exports and hands out short-lived
// download links to them.
type ObjectStorage interface {
	Upload(ctx context.Context, input UploadInput) (*UploadOutput, error)
	Delete(ctx context.Context, bucket, key string) error
	GetPresignedURL(ctx context.Context, bucket, key string, expirySeconds int64) (string, error)
}
