package models

import "arena-sync/core/utils"

// RawRecord is one decoded line of an upstream feed.
// Values are kept as decoded; accessors interpret them.
type RawRecord map[string]any

// ID returns the tournament id. It must be a non-empty string.
func (r RawRecord) ID() (string, bool) {
	id, ok := utils.ToString(r["id"])
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// Millis returns the epoch-milliseconds value stored under key.
// Missing or non-numeric values report false.
func (r RawRecord) Millis(key string) (int64, bool) {
	return utils.ToInt64(r[key])
}

// FullName returns the display name. Absent or null names report false.
func (r RawRecord) FullName() (string, bool) {
	return utils.ToString(r["fullName"])
}

// Minutes returns the tournament length in minutes, 0 when absent.
func (r RawRecord) Minutes() int64 {
	m, _ := utils.ToInt64(r["minutes"])
	return m
}

// Increment returns the clock increment in seconds, 0 when absent.
func (r RawRecord) Increment() int64 {
	clock, ok := r["clock"].(map[string]any)
	if !ok {
		return 0
	}
	inc, _ := utils.ToInt64(clock["increment"])
	return inc
}
