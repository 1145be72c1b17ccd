// Package logger builds the zap logger used by every command and feature.
//
// New picks zap's development preset for the debug level and the production
// preset otherwise, then applies the configured encoding. When ErrorFile is
// set, entries at error level and above are also written to that file.
//
// HTTP handlers derive a request-scoped logger with WithRayID, which adds the
// ray id assigned by the rayid middleware:
//
//	l := logger.WithRayID(log, c)
//	l.Warn("Sync failed", zap.String("guild", guildID), zap.Error(err))
package logger
