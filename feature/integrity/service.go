package integrity

import (
	"context"
	"errors"

	"arena-sync/core/storage"
	"arena-sync/feature/integrity/checks"
	"arena-sync/feature/tournament/settings"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrNotConfigured is returned by a check whose backend is not in use.
var ErrNotConfigured = errors.New("backend not configured")

// Migrator creates or updates the settings tables.
type Migrator interface {
	Migrate(ctx context.Context) error
}

// BreakerReporter exposes the feed circuit breaker.
type BreakerReporter interface {
	BreakerState() string
}

// Deps are the backends the checks inspect. Nil backends are skipped.
type Deps struct {
	// DB is the settings database, nil with the object backend.
	DB *gorm.DB
	// Migrator repairs the schema.
	Migrator Migrator
	// Storage is the settings object storage, nil with the database backend.
	Storage storage.Client
	// StorageConfig names the bucket and document.
	StorageConfig storage.Config
	// Feeds opens upstream feeds.
	Feeds checks.FeedOpener
	// Breaker reports the feed breaker state.
	Breaker BreakerReporter
}

// Service handles integrity checks.
type Service struct {
	deps   Deps
	logger *zap.Logger
}

// NewService creates a new integrity service.
func NewService(deps Deps, logger *zap.Logger) *Service {
	return &Service{deps: deps, logger: logger}
}

// CheckSchema compares the settings tables with the expected columns.
func (s *Service) CheckSchema(ctx context.Context) (*checks.SchemaReport, error) {
	if s.deps.DB == nil {
		return nil, ErrNotConfigured
	}
	return checks.CheckSchema(s.deps.DB.WithContext(ctx), settings.TableNames(), settings.Tables)
}

// FixSchema migrates the settings tables.
func (s *Service) FixSchema(ctx context.Context) error {
	if s.deps.Migrator == nil {
		return ErrNotConfigured
	}
	return s.deps.Migrator.Migrate(ctx)
}

// CheckStorage inspects the settings bucket and document.
func (s *Service) CheckStorage(ctx context.Context) (*checks.StorageReport, error) {
	if s.deps.Storage == nil {
		return nil, ErrNotConfigured
	}
	cfg := s.deps.StorageConfig
	return checks.CheckStorage(ctx, s.deps.Storage, cfg.Bucket, cfg.SettingsObject)
}

// FixStorage creates the settings bucket.
func (s *Service) FixStorage(ctx context.Context) error {
	if s.deps.Storage == nil {
		return ErrNotConfigured
	}
	cfg := s.deps.StorageConfig
	return checks.FixStorage(ctx, s.deps.Storage, cfg.Bucket, cfg.Region, s.logger)
}

// CheckFeed reads a team feed directly from upstream.
func (s *Service) CheckFeed(ctx context.Context, team string) (*checks.FeedReport, error) {
	if s.deps.Feeds == nil {
		return nil, ErrNotConfigured
	}
	slug, err := settings.NormalizeTeam(team)
	if err != nil {
		return nil, err
	}
	return checks.CheckFeed(ctx, s.deps.Feeds, slug), nil
}

// BreakerState returns the feed breaker state, empty when unknown.
func (s *Service) BreakerState() string {
	if s.deps.Breaker == nil {
		return ""
	}
	return s.deps.Breaker.BreakerState()
}

// Report runs every configured check except feed checks.
func (s *Service) Report(ctx context.Context) map[string]any {
	report := make(map[string]any)

	if schema, err := s.CheckSchema(ctx); err == nil {
		report["schema"] = schema
	} else if !errors.Is(err, ErrNotConfigured) {
		report["schema"] = map[string]any{"status": checks.StatusError, "error": err.Error()}
	}

	if st, err := s.CheckStorage(ctx); err == nil {
		report["storage"] = st
	} else if !errors.Is(err, ErrNotConfigured) {
		report["storage"] = map[string]any{"status": checks.StatusError, "error": err.Error()}
	}

	if state := s.BreakerState(); state != "" {
		report["feed_breaker"] = state
	}
	return report
}
