package settings

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strconv"
	"sync"

	"arena-sync/core/storage"
	"arena-sync/core/utils"

	"go.uber.org/zap"
)

// channelID accepts a channel id stored as a JSON string or number.
type channelID string

func (c *channelID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = channelID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("channel id: %w", err)
	}
	if _, err := strconv.ParseUint(n.String(), 10, 64); err != nil {
		return fmt.Errorf("channel id %s: %w", n, err)
	}
	*c = channelID(n.String())
	return nil
}

// flag accepts auto_sync written as a JSON bool, a string such as "yes" or
// "off", or a number where zero is false. It is always written back as a bool.
type flag bool

func (f *flag) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("auto_sync: %w", err)
	}
	switch val := v.(type) {
	case json.Number:
		n, ok := utils.ToInt64(val)
		if !ok {
			return fmt.Errorf("auto_sync %s: not an integer", val)
		}
		*f = n != 0
	case bool, string:
		*f = flag(utils.ToBool(val))
	default:
		return fmt.Errorf("auto_sync: unexpected %T", v)
	}
	return nil
}

type guildDoc struct {
	Teams               []string  `json:"teams"`
	NotificationChannel channelID `json:"notification_channel,omitempty"`
	AutoSync            *flag     `json:"auto_sync,omitempty"`
}

func (d guildDoc) settings(guildID string) GuildSettings {
	s := Defaults(guildID)
	s.Teams = append(s.Teams, d.Teams...)
	s.NotificationChannel = string(d.NotificationChannel)
	if d.AutoSync != nil {
		s.AutoSync = bool(*d.AutoSync)
	}
	return s
}

// ObjectStore keeps every guild in one JSON document keyed by guild id.
// The document is read on first use and rewritten after each mutation.
type ObjectStore struct {
	client storage.Client
	bucket string
	region string
	object string
	logger *zap.Logger

	mu     sync.Mutex
	loaded bool
	doc    map[string]*guildDoc
}

var _ Store = (*ObjectStore)(nil)

// NewObjectStore creates a store backed by cfg.SettingsObject in cfg.Bucket.
func NewObjectStore(client storage.Client, cfg storage.Config, logger *zap.Logger) *ObjectStore {
	return &ObjectStore{
		client: client,
		bucket: cfg.Bucket,
		region: cfg.Region,
		object: cfg.SettingsObject,
		logger: logger,
	}
}

func (s *ObjectStore) Get(ctx context.Context, guildID string) (GuildSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(ctx); err != nil {
		return GuildSettings{}, err
	}
	if d, ok := s.doc[guildID]; ok {
		return d.settings(guildID), nil
	}
	return Defaults(guildID), nil
}

func (s *ObjectStore) List(ctx context.Context) ([]GuildSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(ctx); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(s.doc))
	for id := range s.doc {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]GuildSettings, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.doc[id].settings(id))
	}
	return out, nil
}

func (s *ObjectStore) AddTeam(ctx context.Context, guildID, team string) (bool, error) {
	added := false
	err := s.mutate(ctx, guildID, func(d *guildDoc) bool {
		if slices.Contains(d.Teams, team) {
			return false
		}
		d.Teams = append(d.Teams, team)
		added = true
		return true
	})
	return added, err
}

func (s *ObjectStore) RemoveTeam(ctx context.Context, guildID, team string) (bool, error) {
	removed := false
	err := s.mutate(ctx, guildID, func(d *guildDoc) bool {
		i := slices.Index(d.Teams, team)
		if i < 0 {
			return false
		}
		d.Teams = slices.Delete(d.Teams, i, i+1)
		removed = true
		return true
	})
	return removed, err
}

func (s *ObjectStore) SetNotificationChannel(ctx context.Context, guildID, channel string) error {
	return s.mutate(ctx, guildID, func(d *guildDoc) bool {
		d.NotificationChannel = channelID(channel)
		return true
	})
}

func (s *ObjectStore) SetAutoSync(ctx context.Context, guildID string, enabled bool) error {
	return s.mutate(ctx, guildID, func(d *guildDoc) bool {
		f := flag(enabled)
		d.AutoSync = &f
		return true
	})
}

func (s *ObjectStore) NotificationChannel(ctx context.Context, guildID string) (string, error) {
	settings, err := s.Get(ctx, guildID)
	if err != nil {
		return "", err
	}
	return settings.NotificationChannel, nil
}

// mutate applies fn to the guild entry and saves the document when fn reports a change.
// A failed save rolls the entry back.
func (s *ObjectStore) mutate(ctx context.Context, guildID string, fn func(*guildDoc) bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(ctx); err != nil {
		return err
	}

	prev, existed := s.doc[guildID]
	next := &guildDoc{Teams: []string{}}
	if existed {
		*next = *prev
		next.Teams = slices.Clone(prev.Teams)
	}
	if !fn(next) {
		return nil
	}

	s.doc[guildID] = next
	if err := s.save(ctx); err != nil {
		if existed {
			s.doc[guildID] = prev
		} else {
			delete(s.doc, guildID)
		}
		return err
	}
	return nil
}

func (s *ObjectStore) load(ctx context.Context) error {
	if s.loaded {
		return nil
	}

	data, err := storage.ReadObject(ctx, s.client, s.bucket, s.object)
	switch {
	case errors.Is(err, storage.ErrObjectNotFound):
		s.doc = map[string]*guildDoc{}
	case err != nil:
		return fmt.Errorf("load settings: %w", err)
	default:
		doc := map[string]*guildDoc{}
		if err := json.Unmarshal(data, &doc); err != nil {
			s.logger.Warn("Settings document is malformed, starting empty",
				zap.String("object", s.object), zap.Error(err))
			doc = map[string]*guildDoc{}
		}
		for id, d := range doc {
			if d == nil {
				doc[id] = &guildDoc{Teams: []string{}}
			}
		}
		s.doc = doc
	}

	s.loaded = true
	return nil
}

func (s *ObjectStore) save(ctx context.Context) error {
	if err := storage.EnsureBucket(ctx, s.client, s.bucket, s.region); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	if err := storage.WriteJSON(ctx, s.client, s.bucket, s.object, s.doc); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
