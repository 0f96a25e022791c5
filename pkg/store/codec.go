package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/TheReal-Flo/SaveMyMind/pkg/core"
)

// noteRecord is the durable form of a note. Timestamps are epoch
// milliseconds: compact, monotonic-comparable, and stable across
// encode/decode.
type noteRecord struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}

// encodeNotes serializes the whole collection as one JSON array. The
// collection is always written as a unit; there is no per-note record on
// disk.
func encodeNotes(notes []core.Note) ([]byte, error) {
	records := make([]noteRecord, len(notes))
	for i, n := range notes {
		records[i] = noteRecord{
			ID:        n.ID,
			Title:     n.Title,
			Content:   n.Content,
			CreatedAt: n.CreatedAt.UnixMilli(),
			UpdatedAt: n.UpdatedAt.UnixMilli(),
		}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("encode collection: %w", err)
	}
	return data, nil
}

// decodeNotes is the inverse of encodeNotes. Any malformed record fails
// the whole decode; callers must not treat a partial result as the
// collection.
func decodeNotes(data []byte) ([]core.Note, error) {
	var records []noteRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode collection: %w", err)
	}

	notes := make([]core.Note, len(records))
	for i, r := range records {
		if r.ID == "" {
			return nil, fmt.Errorf("decode collection: record %d has no id", i)
		}
		notes[i] = core.Note{
			ID:        r.ID,
			Title:     r.Title,
			Content:   r.Content,
			CreatedAt: time.UnixMilli(r.CreatedAt),
			UpdatedAt: time.UnixMilli(r.UpdatedAt),
		}
	}
	return notes, nil
}
