package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// Credentials is the static credential/region material the caller
// resolves before constructing the client.
type Credentials struct {
	AccessKey string
	SecretKey string
	Region    string
	Endpoint  string
}

// S3Client implements Client against S3-compatible storage. Credentials
// can be swapped at runtime; the underlying SDK client is rebuilt.
type S3Client struct {
	mu     sync.RWMutex
	client *s3.Client
	region string
}

func NewS3Client(ctx context.Context, creds Credentials) (*S3Client, error) {
	client, err := buildClient(ctx, creds)
	if err != nil {
		return nil, err
	}
	return &S3Client{client: client, region: creds.Region}, nil
}

func buildClient(ctx context.Context, creds Credentials) (*s3.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(creds.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(creds.AccessKey, creds.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if creds.Endpoint != "" {
			o.BaseEndpoint = aws.String(creds.Endpoint)
			o.UsePathStyle = true
		}
	})
	return client, nil
}

// UpdateCredentials rebuilds the SDK client with new credential material.
// In-flight calls finish on the old client.
func (c *S3Client) UpdateCredentials(ctx context.Context, creds Credentials) error {
	client, err := buildClient(ctx, creds)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.client = client
	c.region = creds.Region
	c.mu.Unlock()
	return nil
}

func (c *S3Client) api() *s3.Client {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.client
}

func (c *S3Client) ListBuckets(ctx context.Context) ([]BucketInfo, error) {
	out, err := c.api().ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return nil, &OpError{Op: "list buckets", Err: err}
	}

	buckets := make([]BucketInfo, 0, len(out.Buckets))
	for _, b := range out.Buckets {
		info := BucketInfo{Name: aws.ToString(b.Name)}
		if b.CreationDate != nil {
			info.CreatedAt = *b.CreationDate
		}
		buckets = append(buckets, info)
	}
	return buckets, nil
}

func (c *S3Client) CreateBucket(ctx context.Context, name, region string) error {
	input := &s3.CreateBucketInput{Bucket: aws.String(name)}

	// us-east-1 is the default location and must not be sent as a
	// location constraint.
	if region != "" && region != "us-east-1" {
		input.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(region),
		}
	}

	if _, err := c.api().CreateBucket(ctx, input); err != nil {
		return &OpError{Op: "create bucket", Bucket: name, Err: err}
	}
	return nil
}

func (c *S3Client) DeleteBucket(ctx context.Context, name string) error {
	_, err := c.api().DeleteBucket(ctx, &s3.DeleteBucketInput{Bucket: aws.String(name)})
	if err != nil {
		return &OpError{Op: "delete bucket", Bucket: name, Err: err}
	}
	return nil
}

func (c *S3Client) ListObjects(ctx context.Context, bucket, prefix string) (ObjectListing, error) {
	var listing ObjectListing

	paginator := s3.NewListObjectsV2Paginator(c.api(), &s3.ListObjectsV2Input{
		Bucket:    aws.String(bucket),
		Prefix:    aws.String(prefix),
		Delimiter: aws.String("/"),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return ObjectListing{}, &OpError{Op: "list objects", Bucket: bucket, Key: prefix, Err: err}
		}

		for _, cp := range page.CommonPrefixes {
			listing.Folders = append(listing.Folders, aws.ToString(cp.Prefix))
		}
		for _, obj := range page.Contents {
			info := ObjectInfo{
				Key:  aws.ToString(obj.Key),
				Size: aws.ToInt64(obj.Size),
			}
			if obj.LastModified != nil {
				info.LastModified = *obj.LastModified
			}
			listing.Files = append(listing.Files, info)
		}
	}
	return listing, nil
}

func (c *S3Client) PutObject(ctx context.Context, bucket, key string, body []byte, contentType string) error {
	input := &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(body),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := c.api().PutObject(ctx, input); err != nil {
		return &OpError{Op: "put object", Bucket: bucket, Key: key, Err: err}
	}
	return nil
}

func (c *S3Client) DeleteObjects(ctx context.Context, bucket string, keys []string) error {
	if len(keys) == 0 {
		return nil
	}

	objects := make([]types.ObjectIdentifier, 0, len(keys))
	for _, key := range keys {
		objects = append(objects, types.ObjectIdentifier{Key: aws.String(key)})
	}

	_, err := c.api().DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(bucket),
		Delete: &types.Delete{Objects: objects},
	})
	if err != nil {
		return &OpError{Op: "delete objects", Bucket: bucket, Err: err}
	}
	return nil
}

func (c *S3Client) GetObject(ctx context.Context, bucket, key string) ([]byte, error) {
	out, err := c.api().GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, &OpError{Op: "get object", Bucket: bucket, Key: key, Err: err}
	}

	defer func(body io.ReadCloser) {
		_ = body.Close()
	}(out.Body)

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, &OpError{Op: "get object", Bucket: bucket, Key: key, Err: err}
	}
	return data, nil
}
