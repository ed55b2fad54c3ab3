package ports

import (
	"context"
	"io"
)

type PutObjectInput struct {
	ObjectKey   string
	ContentType string
	Reader      io.Reader
	Size        int64
}

type PutObjectOutput struct {
	// For localfs this is the given object key.
	// For gdrive it is the Drive file id, which GetObject expects.
	ObjectKey string
	Size      int64
}

// StorageProvider holds binary assets such as the branding logo.
// Implementations: localfs, gdrive.
type StorageProvider interface {
	Provider() string

	PutObject(ctx context.Context, in PutObjectInput) (PutObjectOutput, error)
	// GetObject fails with a NOT_FOUND coded error when the key is unknown.
	GetObject(ctx context.Context, objectKey string) (rc io.ReadCloser, contentType string, size int64, err error)
}
