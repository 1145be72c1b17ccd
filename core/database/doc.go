// Package database handles database connections and schema inspection.
//
// It wraps GORM to open MySQL or SQLite connections based on the application's
// configuration. SQLite is the default and needs no external service.
//
// # Schema Inspection
//
// GetTableColumns and MissingColumns let callers verify that a migrated table
// carries the columns they rely on. The settings store uses this to report
// schema health.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", zap.Error(err))
//	}
//
//	missing, err := database.MissingColumns(db, "guild_teams", "guild_id", "slug")
package database
