// Package integrity checks the infrastructure the sync engine depends on.
//
// # Checks Provided
//
//   - Schema: the settings tables carry every expected column (database backend).
//   - Storage: the settings bucket exists and the settings document parses (object backend).
//   - Feed: a team arena feed can be read from upstream, bypassing the cache.
//
// Checks for a backend that is not in use return ErrNotConfigured.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs the backend checks and reports the feed breaker state.
//   - GET /integrity/schema : Runs the schema check (supports ?fix=true to migrate).
//   - GET /integrity/storage : Runs the storage check (supports ?fix=true to create the bucket).
//   - GET /integrity/feed/:team : Reads one team feed upstream.
package integrity
