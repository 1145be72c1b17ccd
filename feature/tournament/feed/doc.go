// Package feed reads upstream tournament feeds and turns them into canonical events.
//
// # Ingestion
//
// Ingestor performs one GET per feed and returns a Stream over the NDJSON body.
// Each Next call waits at most the idle timeout for a line; a quiet connection
// ends the stream exactly like EOF. Blank lines are skipped and lines that do
// not decode to a JSON object are counted in Stats.Malformed.
//
// # Normalization
//
// Normalizer validates a record against the current time and renders the event
// title, description and dedup key. Records that started already, end before
// they start or carry no id are filtered and counted in a FilterReport.
//
// # Source
//
// Source is what callers use: it serves fresh cache entries, collapses
// concurrent misses for the same feed and guards the upstream with a circuit
// breaker. Failed fetches are never cached.
//
// # Usage
//
//	src := feed.NewSource(cfg.Feed, feed.NewIngestor(cfg.Feed, nil, log), feed.NewCache(cfg.Cache), log)
//	res, err := src.Records(ctx, "lichess-swiss")
//	events, report := normalizer.NormalizeAll(res.Records, time.Now())
package feed
