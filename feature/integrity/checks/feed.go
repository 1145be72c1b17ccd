package checks

import (
	"context"
	"errors"

	"arena-sync/feature/tournament/feed"
)

// FeedOpener opens a feed without going through the cache.
type FeedOpener interface {
	URL(feedID string) string
	Fetch(ctx context.Context, feedID string) (*feed.Stream, error)
}

// FeedReport is the result of probing one upstream feed.
type FeedReport struct {
	Team       string     `json:"team"`
	URL        string     `json:"url"`
	Reachable  bool       `json:"reachable"`
	StatusCode int        `json:"status_code,omitempty"`
	Stats      feed.Stats `json:"stats"`
	End        string     `json:"end,omitempty"`
	Error      string     `json:"error,omitempty"`
}

// CheckFeed reads a feed once and reports what it produced.
func CheckFeed(ctx context.Context, p FeedOpener, team string) *FeedReport {
	report := &FeedReport{Team: team, URL: p.URL(team)}

	stream, err := p.Fetch(ctx, team)
	if err != nil {
		var fe *feed.FeedError
		if errors.As(err, &fe) {
			report.StatusCode = fe.StatusCode
		}
		report.Error = err.Error()
		return report
	}
	defer stream.Close()

	stream.Collect()
	report.Stats = stream.Stats()
	report.End = string(stream.Reason())
	switch stream.Reason() {
	case feed.ReasonEOF, feed.ReasonIdle:
		report.Reachable = true
	default:
		report.Error = "stream ended early: " + string(stream.Reason())
	}
	return report
}
