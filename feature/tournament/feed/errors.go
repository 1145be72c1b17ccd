package feed

import (
	"errors"
	"fmt"
)

var (
	// ErrFeedUnavailable reports a failed or non-200 upstream request.
	ErrFeedUnavailable = errors.New("feed unavailable")

	// ErrMissingID reports a record without a usable id.
	ErrMissingID = errors.New("record has no id")
	// ErrAlreadyStarted reports a tournament starting at or before now.
	ErrAlreadyStarted = errors.New("tournament already started")
	// ErrInvalidWindow reports a tournament that does not end after it starts.
	ErrInvalidWindow = errors.New("tournament ends before it starts")
)

// FeedError describes why a feed could not be fetched.
// It matches ErrFeedUnavailable with errors.Is.
type FeedError struct {
	// FeedID is the requested feed.
	FeedID string
	// StatusCode is the HTTP status, 0 for transport failures.
	StatusCode int
	// Err is the underlying cause, if any.
	Err error
}

func (e *FeedError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("feed %s: upstream returned HTTP %d", e.FeedID, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("feed %s: %v", e.FeedID, e.Err)
	default:
		return fmt.Sprintf("feed %s: unavailable", e.FeedID)
	}
}

func (e *FeedError) Unwrap() error { return e.Err }

// Is matches ErrFeedUnavailable.
func (e *FeedError) Is(target error) bool { return target == ErrFeedUnavailable }

// clientError reports a 4xx answer other than 429; these describe the feed,
// not the health of the upstream.
func (e *FeedError) clientError() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500 && e.StatusCode != 429
}
