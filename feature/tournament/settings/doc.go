// Package settings persists per-guild configuration: registered teams,
// the notification channel and the auto-sync flag.
//
// Two backends implement Store. GormStore keeps rows in the guild_settings
// and guild_teams tables; ObjectStore keeps one JSON document in object storage.
package settings
