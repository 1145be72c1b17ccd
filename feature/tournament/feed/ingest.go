package feed

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"arena-sync/feature/tournament/models"

	"go.uber.org/zap"
)

// maxLineSize bounds a single NDJSON line.
const maxLineSize = 1 << 20

// EndReason describes why a stream ended. It is informational only.
type EndReason string

const (
	ReasonOpen     EndReason = ""
	ReasonEOF      EndReason = "eof"
	ReasonIdle     EndReason = "idle"
	ReasonCanceled EndReason = "canceled"
	ReasonError    EndReason = "read_error"
)

// Stats counts what a stream produced.
type Stats struct {
	// Lines is the number of lines received, blank lines included.
	Lines int `json:"lines"`
	// Records is the number of decoded records.
	Records int `json:"records"`
	// Malformed is the number of non-empty lines that failed to decode.
	Malformed int `json:"malformed"`
}

// NewHTTPClient returns a client suited for long-lived streaming responses.
// Only connection setup and response headers are bounded by timeout; the body
// is bounded by the stream idle timeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	tr := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: timeout, KeepAlive: 60 * time.Second}).DialContext,
		MaxIdleConns:          20,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeout,
		ResponseHeaderTimeout: timeout,
	}
	return &http.Client{Transport: tr}
}

// Ingestor opens upstream feeds.
type Ingestor struct {
	cfg    Config
	client *http.Client
	logger *zap.Logger
}

// NewIngestor creates an ingestor. A nil client gets NewHTTPClient.
func NewIngestor(cfg Config, client *http.Client, logger *zap.Logger) *Ingestor {
	cfg = cfg.withDefaults()
	if client == nil {
		client = NewHTTPClient(cfg.RequestTimeout())
	}
	return &Ingestor{cfg: cfg, client: client, logger: logger}
}

// URL returns the upstream URL of a feed.
func (i *Ingestor) URL(feedID string) string {
	return fmt.Sprintf(i.cfg.URLTemplate, url.PathEscape(feedID))
}

// Fetch performs one GET request and returns the open stream.
// A transport failure or non-200 status returns a *FeedError and no stream.
func (i *Ingestor) Fetch(ctx context.Context, feedID string) (*Stream, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, i.URL(feedID), nil)
	if err != nil {
		return nil, &FeedError{FeedID: feedID, Err: err}
	}
	req.Header.Set("Accept", "application/x-ndjson")
	if i.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", i.cfg.UserAgent)
	}

	resp, err := i.client.Do(req)
	if err != nil {
		return nil, &FeedError{FeedID: feedID, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		_ = resp.Body.Close()
		return nil, &FeedError{FeedID: feedID, StatusCode: resp.StatusCode}
	}

	return newStream(ctx, feedID, resp.Body, i.cfg.IdleTimeout(), i.logger), nil
}

// Stream yields the records of one feed response. It is single use.
type Stream struct {
	ctx    context.Context
	feedID string
	body   io.ReadCloser
	idle   time.Duration
	logger *zap.Logger

	lines   chan line
	quit    chan struct{}
	readErr error

	closeOnce sync.Once
	stats     Stats
	reason    EndReason
}

func newStream(ctx context.Context, feedID string, body io.ReadCloser, idle time.Duration, logger *zap.Logger) *Stream {
	s := &Stream{
		ctx:    ctx,
		feedID: feedID,
		body:   body,
		idle:   idle,
		logger: logger,
		lines:  make(chan line),
		quit:   make(chan struct{}),
	}
	go s.read()
	return s
}

// line is one newline-terminated chunk of the body. Lines over maxLineSize
// are drained and delivered with tooLong set and no text.
type line struct {
	text    string
	tooLong bool
}

// read splits the body into lines and hands them to Next until EOF or Close.
func (s *Stream) read() {
	defer close(s.lines)

	r := bufio.NewReaderSize(s.body, 64*1024)
	var buf []byte
	tooLong := false
	for {
		chunk, err := r.ReadSlice('\n')
		switch {
		case tooLong:
		case len(buf)+len(chunk) > maxLineSize:
			tooLong = true
			buf = buf[:0]
		default:
			buf = append(buf, chunk...)
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}

		if err == nil || len(buf) > 0 || tooLong {
			select {
			case s.lines <- line{text: string(buf), tooLong: tooLong}:
			case <-s.quit:
				return
			}
		}
		buf, tooLong = buf[:0], false

		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.readErr = err
			}
			return
		}
	}
}

// Next returns the next record. It waits at most the idle timeout for a line;
// a timeout, EOF or canceled context ends the stream.
func (s *Stream) Next() (models.RawRecord, bool) {
	for s.reason == ReasonOpen {
		if s.ctx.Err() != nil {
			s.end(ReasonCanceled)
			break
		}
		timer := time.NewTimer(s.idle)
		select {
		case ln, ok := <-s.lines:
			timer.Stop()
			if !ok {
				s.end(s.eofReason())
				return nil, false
			}
			s.stats.Lines++
			if ln.tooLong {
				s.stats.Malformed++
				s.logger.Debug("Skipping oversized feed line",
					zap.String("feed", s.feedID),
					zap.Int("limit", maxLineSize),
				)
				continue
			}
			if rec, ok := s.decode(ln.text); ok {
				return rec, true
			}
		case <-timer.C:
			s.end(ReasonIdle)
		case <-s.ctx.Done():
			timer.Stop()
			s.end(ReasonCanceled)
		}
	}
	return nil, false
}

func (s *Stream) decode(text string) (models.RawRecord, bool) {
	raw := strings.TrimSpace(text)
	if raw == "" {
		return nil, false
	}
	rec, err := decodeRecord(raw)
	if err != nil {
		s.stats.Malformed++
		s.logger.Debug("Skipping malformed feed line",
			zap.String("feed", s.feedID),
			zap.Error(err),
		)
		return nil, false
	}
	s.stats.Records++
	return rec, true
}

func (s *Stream) eofReason() EndReason {
	if s.readErr != nil {
		s.logger.Debug("Feed stream read failed",
			zap.String("feed", s.feedID),
			zap.Error(s.readErr),
		)
		return ReasonError
	}
	return ReasonEOF
}

// Records returns an iterator over the remaining records.
// Breaking out of the loop closes the stream.
func (s *Stream) Records() iter.Seq[models.RawRecord] {
	return func(yield func(models.RawRecord) bool) {
		for {
			rec, ok := s.Next()
			if !ok {
				return
			}
			if !yield(rec) {
				s.Close()
				return
			}
		}
	}
}

// Collect drains the stream.
func (s *Stream) Collect() []models.RawRecord {
	var out []models.RawRecord
	for rec := range s.Records() {
		out = append(out, rec)
	}
	return out
}

// Stats returns the counters accumulated so far.
func (s *Stream) Stats() Stats { return s.stats }

// Reason returns why the stream ended, or "" while it is open.
func (s *Stream) Reason() EndReason { return s.reason }

// Close ends the stream early and releases the body.
func (s *Stream) Close() error {
	if s.reason == ReasonOpen {
		s.reason = ReasonCanceled
	}
	return s.release()
}

func (s *Stream) end(reason EndReason) {
	s.reason = reason
	_ = s.release()
}

func (s *Stream) release() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.quit)
		err = s.body.Close()
	})
	return err
}

// decodeRecord parses one line; only a single JSON object is accepted.
func decodeRecord(raw string) (models.RawRecord, error) {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("trailing data after JSON value")
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected JSON object, got %T", v)
	}
	return models.RawRecord(obj), nil
}
