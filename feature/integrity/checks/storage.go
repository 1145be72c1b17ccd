package checks

import (
	"context"
	"encoding/json"
	"fmt"

	"arena-sync/core/storage"

	"go.uber.org/zap"
)

// StorageReport is the result of a settings storage check.
type StorageReport struct {
	Bucket       string `json:"bucket"`
	BucketExists bool   `json:"bucket_exists"`
	Object       string `json:"object"`
	ObjectExists bool   `json:"object_exists"`
	// ValidJSON is false when the settings document cannot be parsed.
	ValidJSON bool `json:"valid_json"`
}

// Healthy reports whether the bucket exists and the document, if present, parses.
// A missing document is healthy: it is created on the first settings change.
func (r *StorageReport) Healthy() bool {
	return r.BucketExists && (!r.ObjectExists || r.ValidJSON)
}

// CheckStorage inspects the settings bucket and document.
func CheckStorage(ctx context.Context, client storage.Client, bucket, object string) (*StorageReport, error) {
	report := &StorageReport{Bucket: bucket, Object: object}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	report.BucketExists = exists
	if !exists {
		return report, nil
	}

	data, err := storage.ReadObject(ctx, client, bucket, object)
	if storage.IsNotFound(err) {
		return report, nil
	}
	if err != nil {
		return nil, err
	}
	report.ObjectExists = true
	report.ValidJSON = json.Valid(data)
	return report, nil
}

// FixStorage creates the settings bucket.
func FixStorage(ctx context.Context, client storage.Client, bucket, region string, logger *zap.Logger) error {
	if err := storage.EnsureBucket(ctx, client, bucket, region); err != nil {
		logger.Error("Failed to create bucket", zap.String("bucket", bucket), zap.Error(err))
		return err
	}
	logger.Info("Settings bucket ready", zap.String("bucket", bucket))
	return nil
}
