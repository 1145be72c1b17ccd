package integrity

import (
	"errors"

	"arena-sync/core/logger"
	"arena-sync/feature/tournament/settings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/integrity")
	group.Get("/", h.HandleIntegrityCheck)
	group.Get("/schema", h.HandleSchemaCheck)
	group.Get("/storage", h.HandleStorageCheck)
	group.Get("/feed/:team", h.HandleFeedCheck)
}

// HandleIntegrityCheck runs every backend check.
// @Summary Run All Integrity Checks
// @Description Checks the settings backend in use and reports the feed circuit breaker state.
// @Tags integrity
// @Produce json
// @Success 200 {object} map[string]interface{} "Combined Report"
// @Security ApiKeyAuth
// @Router /integrity [get]
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering all integrity checks")
	return c.JSON(h.service.Report(c.Context()))
}

// HandleSchemaCheck checks and optionally migrates the settings tables.
// @Summary Check Settings Schema
// @Description Compares the settings tables with the expected columns. With fix=true the tables are migrated first.
// @Tags integrity
// @Produce json
// @Param fix query boolean false "Migrate the settings tables"
// @Success 200 {object} checks.SchemaReport "Schema Report"
// @Failure 404 {object} map[string]string "Database backend not in use"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Security ApiKeyAuth
// @Router /integrity/schema [get]
func (h *Handler) HandleSchemaCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	if c.QueryBool("fix") {
		l.Info("Migrating settings tables")
		if err := h.service.FixSchema(c.Context()); err != nil {
			return h.fail(c, l, "Schema migration failed", err)
		}
	}

	report, err := h.service.CheckSchema(c.Context())
	if err != nil {
		return h.fail(c, l, "Schema check failed", err)
	}
	if !report.Matched {
		l.Warn("Settings schema mismatch", zap.Strings("errors", report.Errors))
	}
	return c.JSON(report)
}

// HandleStorageCheck checks and optionally creates the settings bucket.
// @Summary Check Settings Storage
// @Description Checks the settings bucket and validates the settings document. With fix=true a missing bucket is created.
// @Tags integrity
// @Produce json
// @Param fix query boolean false "Create the bucket when missing"
// @Success 200 {object} checks.StorageReport "Storage Report"
// @Failure 404 {object} map[string]string "Object backend not in use"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Security ApiKeyAuth
// @Router /integrity/storage [get]
func (h *Handler) HandleStorageCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.CheckStorage(c.Context())
	if err != nil {
		return h.fail(c, l, "Storage check failed", err)
	}

	if !report.BucketExists && c.QueryBool("fix") {
		l.Info("Attempting to create settings bucket", zap.String("bucket", report.Bucket))
		if err := h.service.FixStorage(c.Context()); err != nil {
			return h.fail(c, l, "Failed to create bucket", err)
		}
		if report, err = h.service.CheckStorage(c.Context()); err != nil {
			return h.fail(c, l, "Storage check failed", err)
		}
	}

	if !report.Healthy() {
		l.Warn("Settings storage unhealthy",
			zap.Bool("bucket_exists", report.BucketExists),
			zap.Bool("valid_json", report.ValidJSON))
	}
	return c.JSON(report)
}

// HandleFeedCheck reads a team feed directly from upstream.
// @Summary Check Team Feed
// @Description Fetches a team arena feed bypassing the cache and reports the stream counters.
// @Tags integrity
// @Produce json
// @Param team path string true "Lichess team slug"
// @Success 200 {object} checks.FeedReport "Feed Report"
// @Failure 400 {object} map[string]string "Invalid team"
// @Security ApiKeyAuth
// @Router /integrity/feed/{team} [get]
func (h *Handler) HandleFeedCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.CheckFeed(c.Context(), c.Params("team"))
	if err != nil {
		return h.fail(c, l, "Feed check failed", err)
	}
	if !report.Reachable {
		l.Warn("Feed unreachable", zap.String("team", report.Team), zap.String("error", report.Error))
	}
	return c.JSON(report)
}

func (h *Handler) fail(c *fiber.Ctx, l *zap.Logger, msg string, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, ErrNotConfigured):
		status = fiber.StatusNotFound
	case errors.Is(err, settings.ErrInvalidTeam):
		status = fiber.StatusBadRequest
	default:
		l.Error(msg, zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
