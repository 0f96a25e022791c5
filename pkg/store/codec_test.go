package store

import (
	"testing"
	"time"

	"github.com/TheReal-Flo/SaveMyMind/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodec_RoundTrip(t *testing.T) {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	notes := []core.Note{
		{
			ID:        "a",
			Title:     "First",
			Content:   "line one\nline two",
			CreatedAt: created,
			UpdatedAt: created.Add(time.Hour),
		},
		{
			ID:        "b",
			Title:     "Ünïcödé ✍️",
			Content:   "",
			CreatedAt: created,
			UpdatedAt: created,
		},
	}

	data, err := encodeNotes(notes)
	require.NoError(t, err)

	decoded, err := decodeNotes(data)
	require.NoError(t, err)
	require.Len(t, decoded, 2)

	for i := range notes {
		assert.Equal(t, notes[i].ID, decoded[i].ID)
		assert.Equal(t, notes[i].Title, decoded[i].Title)
		assert.Equal(t, notes[i].Content, decoded[i].Content)
		// Millisecond precision is the durable granularity.
		assert.Equal(t, notes[i].CreatedAt.UnixMilli(), decoded[i].CreatedAt.UnixMilli())
		assert.Equal(t, notes[i].UpdatedAt.UnixMilli(), decoded[i].UpdatedAt.UnixMilli())
	}
}

func TestCodec_RoundTripEmpty(t *testing.T) {
	data, err := encodeNotes(nil)
	require.NoError(t, err)

	decoded, err := decodeNotes(data)
	require.NoError(t, err)
	assert.Empty(t, decoded)
}

func TestCodec_DecodeFailsWhole(t *testing.T) {
	t.Run("Malformed JSON", func(t *testing.T) {
		_, err := decodeNotes([]byte(`[{"id":"a"},`))
		require.Error(t, err)
	})

	t.Run("Record Missing ID", func(t *testing.T) {
		// One bad record fails the whole load; no partial recovery.
		_, err := decodeNotes([]byte(`[{"id":"a","title":"ok"},{"title":"no id"}]`))
		require.Error(t, err)
	})

	t.Run("Wrong Shape", func(t *testing.T) {
		_, err := decodeNotes([]byte(`{"id":"a"}`))
		require.Error(t, err)
	})
}
