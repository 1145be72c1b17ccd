package tournament

import (
	"errors"
	"strconv"

	"arena-sync/core/logger"
	"arena-sync/feature/tournament/platform"
	"arena-sync/feature/tournament/settings"
	tsync "arena-sync/feature/tournament/sync"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for guild tournament administration.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type teamRequest struct {
	Team string `json:"team"`
}

type channelRequest struct {
	ChannelID string `json:"channel_id"`
}

type autoSyncRequest struct {
	Enabled *bool `json:"enabled"`
}

// RegisterRoutes registers the tournament routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	guilds := app.Group("/guilds/:guild")
	guilds.Get("/teams", h.HandleListTeams)
	guilds.Post("/teams", h.HandleAddTeam)
	guilds.Delete("/teams/:team", h.HandleRemoveTeam)
	guilds.Put("/notification-channel", h.HandleSetNotificationChannel)
	guilds.Put("/auto-sync", h.HandleSetAutoSync)
	guilds.Post("/sync", h.HandleSync)
	guilds.Get("/status", h.HandleStatus)

	app.Delete("/cache", h.HandleResetCache)
}

// HandleListTeams lists the teams registered for a guild.
// @Summary List Teams
// @Description List the Lichess teams mirrored into the guild.
// @Tags teams
// @Produce json
// @Param guild path string true "Guild ID"
// @Success 200 {object} map[string]interface{} "Teams"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Security ApiKeyAuth
// @Router /guilds/{guild}/teams [get]
func (h *Handler) HandleListTeams(c *fiber.Ctx) error {
	guildID := c.Params("guild")
	current, err := h.service.Settings(c.Context(), guildID)
	if err != nil {
		return h.fail(c, "List teams failed", err)
	}
	return c.JSON(fiber.Map{"guild_id": guildID, "teams": current.Teams})
}

// HandleAddTeam registers a team for a guild.
// @Summary Add Team
// @Description Register a Lichess team whose arenas are mirrored into the guild.
// @Tags teams
// @Accept json
// @Produce json
// @Param guild path string true "Guild ID"
// @Param body body teamRequest true "Team slug"
// @Success 201 {object} map[string]string "Registered"
// @Failure 400 {object} map[string]string "Invalid team"
// @Failure 409 {object} map[string]string "Already registered"
// @Security ApiKeyAuth
// @Router /guilds/{guild}/teams [post]
func (h *Handler) HandleAddTeam(c *fiber.Ctx) error {
	var req teamRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	slug, err := h.service.AddTeam(c.Context(), c.Params("guild"), req.Team)
	if err != nil {
		return h.fail(c, "Add team failed", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"team":    slug,
		"message": "Team `" + slug + "` saved.",
	})
}

// HandleRemoveTeam unregisters a team and deletes its events.
// @Summary Remove Team
// @Description Delete the guild events of the team's tournaments, then unregister it.
// @Tags teams
// @Produce json
// @Param guild path string true "Guild ID"
// @Param team path string true "Team slug"
// @Success 200 {object} tsync.RemovalReport "Removal report"
// @Failure 403 {object} map[string]string "Missing Manage Events permission"
// @Failure 404 {object} map[string]string "Team not registered"
// @Security ApiKeyAuth
// @Router /guilds/{guild}/teams/{team} [delete]
func (h *Handler) HandleRemoveTeam(c *fiber.Ctx) error {
	report, err := h.service.RemoveTeam(c.Context(), c.Params("guild"), c.Params("team"))
	if err != nil {
		return h.fail(c, "Remove team failed", err)
	}
	return c.JSON(fiber.Map{
		"message": report.Message(),
		"report":  report,
	})
}

// HandleSetNotificationChannel sets the channel receiving notifications.
// @Summary Set Notification Channel
// @Description Set or clear (empty channel_id) the guild's notification channel.
// @Tags settings
// @Accept json
// @Produce json
// @Param guild path string true "Guild ID"
// @Param body body channelRequest true "Channel"
// @Success 200 {object} map[string]string "Updated"
// @Failure 400 {object} map[string]string "Invalid channel"
// @Security ApiKeyAuth
// @Router /guilds/{guild}/notification-channel [put]
func (h *Handler) HandleSetNotificationChannel(c *fiber.Ctx) error {
	var req channelRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.ChannelID != "" {
		if _, err := strconv.ParseUint(req.ChannelID, 10, 64); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "channel_id must be a numeric id"})
		}
	}

	if err := h.service.SetNotificationChannel(c.Context(), c.Params("guild"), req.ChannelID); err != nil {
		return h.fail(c, "Set notification channel failed", err)
	}
	return c.JSON(fiber.Map{"notification_channel": req.ChannelID})
}

// HandleSetAutoSync toggles scheduled passes for a guild.
// @Summary Set Auto Sync
// @Description Enable or disable the periodic sync of the guild.
// @Tags settings
// @Accept json
// @Produce json
// @Param guild path string true "Guild ID"
// @Param body body autoSyncRequest true "Flag"
// @Success 200 {object} map[string]bool "Updated"
// @Failure 400 {object} map[string]string "Missing flag"
// @Security ApiKeyAuth
// @Router /guilds/{guild}/auto-sync [put]
func (h *Handler) HandleSetAutoSync(c *fiber.Ctx) error {
	var req autoSyncRequest
	if err := c.BodyParser(&req); err != nil || req.Enabled == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "enabled is required"})
	}

	if err := h.service.SetAutoSync(c.Context(), c.Params("guild"), *req.Enabled); err != nil {
		return h.fail(c, "Set auto sync failed", err)
	}
	return c.JSON(fiber.Map{"auto_sync": *req.Enabled})
}

// HandleSync runs a sync pass immediately.
// @Summary Sync Now
// @Description Run a pass over every registered team, or one team. verbose includes the per-feed report.
// @Tags sync
// @Produce json
// @Param guild path string true "Guild ID"
// @Param team query string false "Only this team"
// @Param verbose query bool false "Include the full report"
// @Param dry_run query bool false "Plan without writing"
// @Success 200 {object} map[string]interface{} "Summary"
// @Failure 404 {object} map[string]string "Team not registered"
// @Security ApiKeyAuth
// @Router /guilds/{guild}/sync [post]
func (h *Handler) HandleSync(c *fiber.Ctx) error {
	opts := tsync.Options{
		DryRun:  c.QueryBool("dry_run", false),
		Trigger: "api",
	}
	report, err := h.service.Sync(c.Context(), c.Params("guild"), c.Query("team"), opts)
	if err != nil {
		return h.fail(c, "Sync failed", err)
	}

	body := fiber.Map{
		"summary": report.Summary(),
		"created": report.Created,
		"updated": report.Updated,
		"failed":  report.Failures(),
	}
	if c.QueryBool("verbose", false) {
		body["report"] = report
	}
	return c.JSON(body)
}

// HandleStatus reports bot health and guild configuration.
// @Summary Guild Status
// @Description Uptime, registered teams, auto-sync flag, notification channel and feed cache state.
// @Tags sync
// @Produce json
// @Param guild path string true "Guild ID"
// @Success 200 {object} Status "Status"
// @Security ApiKeyAuth
// @Router /guilds/{guild}/status [get]
func (h *Handler) HandleStatus(c *fiber.Ctx) error {
	status, err := h.service.Status(c.Context(), c.Params("guild"))
	if err != nil {
		return h.fail(c, "Status failed", err)
	}
	return c.JSON(status)
}

// HandleResetCache drops every cached feed.
// @Summary Reset Feed Cache
// @Tags sync
// @Produce json
// @Success 200 {object} map[string]int "Dropped entries"
// @Security ApiKeyAuth
// @Router /cache [delete]
func (h *Handler) HandleResetCache(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"cleared": h.service.ResetCache()})
}

// fail maps service errors to HTTP statuses.
func (h *Handler) fail(c *fiber.Ctx, msg string, err error) error {
	code := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, settings.ErrInvalidTeam):
		code = fiber.StatusBadRequest
	case errors.Is(err, platform.ErrPermissionDenied):
		code = fiber.StatusForbidden
	case errors.Is(err, tsync.ErrTeamNotRegistered):
		code = fiber.StatusNotFound
	case errors.Is(err, ErrTeamExists):
		code = fiber.StatusConflict
	}

	l := logger.WithRayID(h.service.logger, c)
	if code == fiber.StatusInternalServerError {
		l.Error(msg, zap.Error(err))
	} else {
		l.Debug(msg, zap.Error(err))
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}
