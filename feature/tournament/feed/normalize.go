package feed

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"arena-sync/feature/tournament/models"
)

// DefaultDuration is assumed when a record has no end time.
const DefaultDuration = time.Hour

// FilterReport counts how NormalizeAll treated its input.
type FilterReport struct {
	// Total is the number of input records.
	Total int `json:"total"`
	// Kept is the number of events returned.
	Kept int `json:"kept"`
	// MissingID counts records without an id.
	MissingID int `json:"missing_id"`
	// AlreadyStarted counts records starting at or before now.
	AlreadyStarted int `json:"already_started"`
	// InvalidWindow counts records not ending after their start.
	InvalidWindow int `json:"invalid_window"`
	// Superseded counts valid records replaced by a later record with the same id.
	Superseded int `json:"superseded"`
}

// Filtered returns the number of records dropped by time or id checks.
func (r FilterReport) Filtered() int {
	return r.MissingID + r.AlreadyStarted + r.InvalidWindow
}

// Normalizer converts raw records to canonical tournament events.
type Normalizer struct {
	baseURL         string
	header          string
	defaultDuration time.Duration
}

// NewNormalizer creates a normalizer. A non-positive duration means DefaultDuration.
func NewNormalizer(cfg Config, defaultDuration time.Duration) *Normalizer {
	cfg = cfg.withDefaults()
	if defaultDuration <= 0 {
		defaultDuration = DefaultDuration
	}
	return &Normalizer{
		baseURL:         strings.TrimRight(cfg.TournamentURL, "/"),
		header:          cfg.DescriptionHeader,
		defaultDuration: defaultDuration,
	}
}

// DedupKey returns the public URL identifying a tournament.
func (n *Normalizer) DedupKey(id string) string {
	return n.baseURL + "/" + id
}

// Normalize validates raw against now and builds the event.
// Filtered records return ErrMissingID, ErrAlreadyStarted or ErrInvalidWindow.
func (n *Normalizer) Normalize(raw models.RawRecord, now time.Time) (models.TournamentEvent, error) {
	id, ok := raw.ID()
	if !ok {
		return models.TournamentEvent{}, ErrMissingID
	}

	startsAt, _ := raw.Millis("startsAt")
	if startsAt <= now.UnixMilli() {
		return models.TournamentEvent{}, fmt.Errorf("%s: %w", id, ErrAlreadyStarted)
	}

	finishesAt, ok := raw.Millis("finishesAt")
	if !ok {
		finishesAt = startsAt + n.defaultDuration.Milliseconds()
	}
	if finishesAt <= startsAt {
		return models.TournamentEvent{}, fmt.Errorf("%s: %w", id, ErrInvalidWindow)
	}

	start := time.UnixMilli(startsAt).UTC()
	end := time.UnixMilli(finishesAt).UTC()
	key := n.DedupKey(id)

	title, ok := raw.FullName()
	if !ok {
		title = "Arena " + id
	}

	return models.TournamentEvent{
		ID:          id,
		DedupKey:    key,
		Title:       title,
		Description: n.describe(raw, start, end, key),
		StartTime:   start,
		EndTime:     end,
	}, nil
}

func (n *Normalizer) describe(raw models.RawRecord, start, end time.Time, key string) string {
	return fmt.Sprintf("%s\n• %s – %s\n• %d min · +%ds\n\n%s",
		n.header,
		start.Format("2006-01-02 15:04 UTC"),
		end.Format("15:04 UTC"),
		raw.Minutes(),
		raw.Increment(),
		key,
	)
}

// NormalizeAll normalizes records in arrival order. When several valid records
// share an id the last one wins and keeps the position of the first.
func (n *Normalizer) NormalizeAll(records []models.RawRecord, now time.Time) ([]models.TournamentEvent, FilterReport) {
	report := FilterReport{Total: len(records)}
	events := make([]models.TournamentEvent, 0, len(records))
	position := make(map[string]int, len(records))

	for _, raw := range records {
		ev, err := n.Normalize(raw, now)
		switch {
		case errors.Is(err, ErrMissingID):
			report.MissingID++
			continue
		case errors.Is(err, ErrAlreadyStarted):
			report.AlreadyStarted++
			continue
		case errors.Is(err, ErrInvalidWindow):
			report.InvalidWindow++
			continue
		}

		if i, seen := position[ev.ID]; seen {
			events[i] = ev
			report.Superseded++
			continue
		}
		position[ev.ID] = len(events)
		events = append(events, ev)
	}

	report.Kept = len(events)
	return events, report
}

// IDs returns the ids of records without applying time filters.
// Used when every known tournament of a feed matters, started or not.
func IDs(records []models.RawRecord) []string {
	ids := make([]string, 0, len(records))
	for _, raw := range records {
		if id, ok := raw.ID(); ok {
			ids = append(ids, id)
		}
	}
	return ids
}
