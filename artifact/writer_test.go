package artifact

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter_Write(t *testing.T) {
	store := NewInMemoryStore()
	clock := func() time.Time {
		return time.Date(2026, 3, 14, 9, 30, 0, 123_000_000, time.UTC)
	}
	w := NewWriter(store, func(o *WriterOptions) {
		o.RunID = "run-1"
		o.Clock = clock
	})

	name, err := w.Write("composition", "weekly-digest", map[string]any{"ok": true})
	require.NoError(t, err)
	assert.Equal(t, "composition_weekly-digest_20260314_093000123.json", name)

	data, err := store.Get("run-1", name)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, true, decoded["ok"])
}

func TestWriter_EmptyTagOmitted(t *testing.T) {
	store := NewInMemoryStore()
	w := NewWriter(store, func(o *WriterOptions) {
		o.RunID = "run-1"
		o.Clock = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	})

	name, err := w.Write("composition_batch", "", struct{}{})
	require.NoError(t, err)
	assert.Equal(t, "composition_batch_20260102_030405000.json", name)
}

func TestWriter_SanitizesTag(t *testing.T) {
	store := NewInMemoryStore()
	w := NewWriter(store, func(o *WriterOptions) {
		o.RunID = "run-1"
		o.Clock = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	})

	name, err := w.Write("classification", "1:1 with/sarah", struct{}{})
	require.NoError(t, err)
	assert.Equal(t, "classification_1-1-with-sarah_20260102_030405000.json", name)
}

func TestWriter_DefaultRunID(t *testing.T) {
	w := NewWriter(NewInMemoryStore())
	assert.NotEmpty(t, w.RunID())

	other := NewWriter(NewInMemoryStore())
	assert.NotEqual(t, w.RunID(), other.RunID())
}

func TestWriter_WriteNamed(t *testing.T) {
	store := NewInMemoryStore()
	w := NewWriter(store, func(o *WriterOptions) { o.RunID = "run-1" })

	require.NoError(t, w.WriteNamed("report.json", map[string]int{"n": 1}))
	data, err := store.Get("run-1", "report.json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"n": 1}`, string(data))
}

func TestWriter_MarshalError(t *testing.T) {
	w := NewWriter(NewInMemoryStore())
	_, err := w.Write("kind", "tag", func() {})
	assert.Error(t, err)
}
