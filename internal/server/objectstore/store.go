// Package objectstore adapts S3-compatible object storage for per-zone
// buckets: existence checks and presigned upload/download URLs.
package objectstore

import (
	"context"
	"time"
)

// Bucket locates one backing bucket together with the opaque credential
// document a zone carries for it.
type Bucket struct {
	// URI is the bucket locator, e.g. "s3://my-bucket".
	URI string
	// Credentials is a JSON document:
	// {"accessKeyId": ..., "secretAccessKey": ..., "endpoint": ..., "region": ...}.
	Credentials string
}

// Store is the object-store capability consumed by the transfer core.
type Store interface {
	// Exists reports whether the object is present, and its size if so.
	Exists(ctx context.Context, bucket Bucket, objectKey string) (bool, int64, error)

	// PresignUpload mints a time-limited URL authorizing one PUT of the object.
	PresignUpload(ctx context.Context, bucket Bucket, objectKey string) (string, error)

	// PresignDownload mints a time-limited URL authorizing GETs of the object
	// for the given validity window.
	PresignDownload(ctx context.Context, bucket Bucket, objectKey string, validity time.Duration) (string, error)
}
