// Package tournament mirrors Lichess team arenas into Discord scheduled events.
//
// Service holds the guild-facing operations, Handler exposes them over HTTP,
// and Scheduler runs periodic passes for every guild with auto-sync enabled.
// Subpackages hold the pieces: feed ingestion, settings storage, the Discord
// adapter, reconciliation and the sync orchestrator.
package tournament
