package models

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, line string) RawRecord {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(line))
	dec.UseNumber()
	var r RawRecord
	require.NoError(t, dec.Decode(&r))
	return r
}

func TestRawRecord_Accessors(t *testing.T) {
	r := decode(t, `{"id":"abc","fullName":"Hourly Blitz","startsAt":1700000000000,"minutes":57,"clock":{"limit":180,"increment":2}}`)

	id, ok := r.ID()
	assert.True(t, ok)
	assert.Equal(t, "abc", id)

	name, ok := r.FullName()
	assert.True(t, ok)
	assert.Equal(t, "Hourly Blitz", name)

	start, ok := r.Millis("startsAt")
	assert.True(t, ok)
	assert.Equal(t, int64(1700000000000), start)

	_, ok = r.Millis("finishesAt")
	assert.False(t, ok)

	assert.Equal(t, int64(57), r.Minutes())
	assert.Equal(t, int64(2), r.Increment())
}

func TestRawRecord_MissingAndInvalid(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"empty object", `{}`},
		{"null values", `{"id":null,"fullName":null,"startsAt":null,"minutes":null,"clock":null}`},
		{"wrong types", `{"id":42,"fullName":7,"startsAt":"soon","minutes":"ten","clock":{"increment":"two"}}`},
		{"empty id", `{"id":""}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := decode(t, tt.line)

			_, ok := r.ID()
			assert.False(t, ok)
			_, ok = r.FullName()
			assert.False(t, ok)
			_, ok = r.Millis("startsAt")
			assert.False(t, ok)
			assert.Zero(t, r.Minutes())
			assert.Zero(t, r.Increment())
		})
	}
}

func TestSyncResult(t *testing.T) {
	var r SyncResult
	r.AddCreated("u/1")
	r.AddUpdated("u/2")
	r.AddCreated("u/3")

	assert.Equal(t, 2, r.Created)
	assert.Equal(t, 1, r.Updated)
	assert.Equal(t, []string{"u/1", "u/3", "u/2"}, r.AffectedKeys())
}
