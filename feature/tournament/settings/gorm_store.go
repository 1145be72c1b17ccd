package settings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"arena-sync/core/database"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type guildRow struct {
	GuildID             string `gorm:"primaryKey;size:32"`
	NotificationChannel string `gorm:"size:32;not null"`
	AutoSync            bool   `gorm:"not null"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (guildRow) TableName() string { return "guild_settings" }

type teamRow struct {
	ID        uint   `gorm:"primaryKey"`
	GuildID   string `gorm:"size:32;not null;uniqueIndex:idx_guild_team"`
	Slug      string `gorm:"size:64;not null;uniqueIndex:idx_guild_team"`
	CreatedAt time.Time
}

func (teamRow) TableName() string { return "guild_teams" }

// Tables lists the columns each settings table must have.
var Tables = map[string][]string{
	"guild_settings": {"guild_id", "notification_channel", "auto_sync"},
	"guild_teams":    {"guild_id", "slug"},
}

// TableNames returns the settings table names in a stable order.
func TableNames() []string {
	return []string{"guild_settings", "guild_teams"}
}

// GormStore keeps settings in two tables, guild_settings and guild_teams.
type GormStore struct {
	db *gorm.DB
}

var _ Store = (*GormStore)(nil)

// NewGormStore creates a store on db. Call Migrate before first use.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Migrate creates or updates the settings tables.
func (s *GormStore) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&guildRow{}, &teamRow{}); err != nil {
		return fmt.Errorf("migrate settings: %w", err)
	}
	return nil
}

// Check reports settings columns missing from the database.
func (s *GormStore) Check(ctx context.Context) error {
	db := s.db.WithContext(ctx)
	for _, table := range TableNames() {
		missing, err := database.MissingColumns(db, table, Tables[table]...)
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			return fmt.Errorf("table %s is missing columns %v", table, missing)
		}
	}
	return nil
}

func (s *GormStore) Get(ctx context.Context, guildID string) (GuildSettings, error) {
	db := s.db.WithContext(ctx)

	var row guildRow
	err := db.Where("guild_id = ?", guildID).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Defaults(guildID), nil
	}
	if err != nil {
		return GuildSettings{}, fmt.Errorf("load settings for %s: %w", guildID, err)
	}

	teams, err := s.teams(db, guildID)
	if err != nil {
		return GuildSettings{}, err
	}
	return toSettings(row, teams), nil
}

func (s *GormStore) List(ctx context.Context) ([]GuildSettings, error) {
	db := s.db.WithContext(ctx)

	var rows []guildRow
	if err := db.Order("guild_id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}

	var teams []teamRow
	if err := db.Order("id").Find(&teams).Error; err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	byGuild := make(map[string][]string, len(rows))
	for _, t := range teams {
		byGuild[t.GuildID] = append(byGuild[t.GuildID], t.Slug)
	}

	out := make([]GuildSettings, 0, len(rows))
	for _, row := range rows {
		out = append(out, toSettings(row, byGuild[row.GuildID]))
	}
	return out, nil
}

func (s *GormStore) AddTeam(ctx context.Context, guildID, team string) (bool, error) {
	added := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureGuild(tx, guildID); err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&teamRow{}).Where("guild_id = ? AND slug = ?", guildID, team).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		if err := tx.Create(&teamRow{GuildID: guildID, Slug: team}).Error; err != nil {
			return err
		}
		added = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("add team %s to %s: %w", team, guildID, err)
	}
	return added, nil
}

func (s *GormStore) RemoveTeam(ctx context.Context, guildID, team string) (bool, error) {
	res := s.db.WithContext(ctx).Where("guild_id = ? AND slug = ?", guildID, team).Delete(&teamRow{})
	if res.Error != nil {
		return false, fmt.Errorf("remove team %s from %s: %w", team, guildID, res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *GormStore) SetNotificationChannel(ctx context.Context, guildID, channelID string) error {
	return s.updateGuild(ctx, guildID, "notification_channel", channelID)
}

func (s *GormStore) SetAutoSync(ctx context.Context, guildID string, enabled bool) error {
	return s.updateGuild(ctx, guildID, "auto_sync", enabled)
}

func (s *GormStore) NotificationChannel(ctx context.Context, guildID string) (string, error) {
	var row guildRow
	err := s.db.WithContext(ctx).Select("notification_channel").Where("guild_id = ?", guildID).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load notification channel for %s: %w", guildID, err)
	}
	return row.NotificationChannel, nil
}

func (s *GormStore) updateGuild(ctx context.Context, guildID, column string, value any) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureGuild(tx, guildID); err != nil {
			return err
		}
		return tx.Model(&guildRow{}).Where("guild_id = ?", guildID).Update(column, value).Error
	})
	if err != nil {
		return fmt.Errorf("update %s for %s: %w", column, guildID, err)
	}
	return nil
}

func (s *GormStore) teams(db *gorm.DB, guildID string) ([]string, error) {
	var slugs []string
	if err := db.Model(&teamRow{}).Where("guild_id = ?", guildID).Order("id").Pluck("slug", &slugs).Error; err != nil {
		return nil, fmt.Errorf("load teams for %s: %w", guildID, err)
	}
	return slugs, nil
}

// ensureGuild inserts the default settings row when it does not exist.
func ensureGuild(tx *gorm.DB, guildID string) error {
	row := guildRow{GuildID: guildID, AutoSync: true}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
}

func toSettings(row guildRow, teams []string) GuildSettings {
	if teams == nil {
		teams = []string{}
	}
	return GuildSettings{
		GuildID:             row.GuildID,
		Teams:               teams,
		NotificationChannel: row.NotificationChannel,
		AutoSync:            row.AutoSync,
	}
}
