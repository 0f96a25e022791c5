package core

import "time"

// Note is the central entity of the domain: a user-authored title+content
// record with creation/modification instants. The ID is generated once at
// creation and never changes.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NoteInput carries the user-provided fields for creating a note.
// An empty (or whitespace-only) Title is allowed; the store derives one
// from Content in that case.
type NoteInput struct {
	Title   string
	Content string
}

// NotePatch carries a partial update. Nil fields keep the existing value.
type NotePatch struct {
	Title   *string
	Content *string
}

// CloneNotes returns an independent copy of the slice. The store hands out
// copies so callers can never mutate the canonical collection.
func CloneNotes(notes []Note) []Note {
	if notes == nil {
		return nil
	}
	out := make([]Note, len(notes))
	copy(out, notes)
	return out
}
