// Package sync runs tournament sync passes for a guild.
//
// A pass walks the guild's feeds in order. For each feed it checks the bot's
// permission, snapshots the guild's events, reads the feed through the cache,
// normalizes the records and reconciles them against the snapshot. Failures
// are recorded per feed and per action in a Report; the pass always completes.
//
// Remover implements team removal: the team's events are deleted, its cache
// entry evicted and its registration dropped.
package sync
