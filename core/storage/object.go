package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
)

// ErrObjectNotFound is returned when the requested object does not exist.
var ErrObjectNotFound = errors.New("object not found")

// EnsureBucket creates the bucket when it does not exist yet.
func EnsureBucket(ctx context.Context, c Client, bucket, region string) error {
	exists, err := c.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", bucket, err)
	}
	if exists {
		return nil
	}
	if err := c.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: region}); err != nil {
		return fmt.Errorf("create bucket %s: %w", bucket, err)
	}
	return nil
}

// ReadObject returns the full content of an object.
// A missing bucket or key yields ErrObjectNotFound.
func ReadObject(ctx context.Context, c Client, bucket, object string) ([]byte, error) {
	reader, err := c.GetObject(ctx, bucket, object, minio.GetObjectOptions{})
	if err != nil {
		return nil, classify(object, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, classify(object, err)
	}
	return data, nil
}

// WriteJSON encodes v as indented JSON and uploads it as object.
func WriteJSON(ctx context.Context, c Client, bucket, object string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", object, err)
	}
	_, err = c.PutObject(ctx, bucket, object, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", object, err)
	}
	return nil
}

// IsNotFound reports whether err is a missing object or bucket error.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrObjectNotFound) {
		return true
	}
	var resp minio.ErrorResponse
	if errors.As(err, &resp) {
		return resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket"
	}
	return false
}

func classify(object string, err error) error {
	if IsNotFound(err) {
		return fmt.Errorf("%s: %w", object, ErrObjectNotFound)
	}
	return fmt.Errorf("read %s: %w", object, err)
}
