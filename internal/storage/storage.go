package storage

import (
	"context"
	"io"
)

// ObjectInfo represents metadata for a remote file/object.
type ObjectInfo struct {
	Key  string
	Size int64
}

// ObjectStorage captures the S3-compatible operations used to fetch sales
// exports and publish forecast reports.
type ObjectStorage interface {
	ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error)
	DownloadObject(ctx context.Context, key string, destPath string) error
	OpenObject(ctx context.Context, key string) (io.ReadCloser, error)
	UploadObject(ctx context.Context, key string, data []byte) error
}
