// Package storage defines the object storage collaborator the sync core
// talks to, plus its S3 implementation.
package storage

import (
	"context"
	"fmt"
	"time"
)

type BucketInfo struct {
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type ObjectInfo struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

// ObjectListing splits a prefix listing into pseudo-folders and files,
// the way a storage browser presents them.
type ObjectListing struct {
	Folders []string     `json:"folders"`
	Files   []ObjectInfo `json:"files"`
}

type Client interface {
	ListBuckets(ctx context.Context) ([]BucketInfo, error)
	CreateBucket(ctx context.Context, name, region string) error
	DeleteBucket(ctx context.Context, name string) error
	ListObjects(ctx context.Context, bucket, prefix string) (ObjectListing, error)
	PutObject(ctx context.Context, bucket, key string, body []byte, contentType string) error
	DeleteObjects(ctx context.Context, bucket string, keys []string) error
	GetObject(ctx context.Context, bucket, key string) ([]byte, error)
}

// OpError is a structured storage failure with a human-readable message.
type OpError struct {
	Op     string
	Bucket string
	Key    string
	Err    error
}

func (e *OpError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%s %s/%s: %v", e.Op, e.Bucket, e.Key, e.Err)
	}
	if e.Bucket != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Bucket, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}
