// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind a narrow Client interface so that callers
// can be tested with the mock in core/storage/mocks. Both AWS S3 and self-hosted
// MinIO instances are supported.
//
// # Helpers
//
//   - EnsureBucket: creates the target bucket on first use.
//   - ReadObject: downloads an object, mapping missing keys to ErrObjectNotFound.
//   - WriteJSON: uploads a value as a JSON document.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	err = storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region)
//	data, err := storage.ReadObject(ctx, client, cfg.Storage.Bucket, cfg.Storage.SettingsObject)
package storage
