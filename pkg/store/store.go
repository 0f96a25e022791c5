// Package store owns the canonical in-memory note collection and writes it
// through to a durable BlobStore after every mutation. The whole collection
// is one durable unit: every mutation rewrites the single blob, and a failed
// write rolls the in-memory state back so memory never diverges from the
// last known-durable state.
package store

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/TheReal-Flo/SaveMyMind/pkg/core"
)

const defaultEventBuffer = 100

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source. Tests use this to pin "now".
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides id generation. Tests use this for deterministic
// ids.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// WithEventBuffer sets the per-subscriber event channel capacity.
func WithEventBuffer(size int) Option {
	return func(s *Store) {
		if size > 0 {
			s.eventBuffer = size
		}
	}
}

// Store is the note repository. All mutating calls serialize on one mutex
// so the read-modify-persist cycle over the whole collection stays a single
// unit even on a multi-threaded runtime.
type Store struct {
	mu          sync.Mutex
	blob        core.BlobStore
	notes       []core.Note
	loaded      bool
	logger      *slog.Logger
	now         func() time.Time
	newID       func() string
	eventBuffer int

	subMu sync.Mutex
	subs  []chan core.Event
}

// New creates a Store backed by the given blob adapter. The adapter is an
// explicit collaborator (dependency injection), never ambient state, so
// tests can substitute an in-memory one.
func New(blob core.BlobStore, opts ...Option) *Store {
	s := &Store{
		blob:        blob,
		logger:      slog.New(slog.DiscardHandler),
		now:         time.Now,
		newID:       uuid.NewString,
		eventBuffer: defaultEventBuffer,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the collection from durable storage and makes it the live
// in-memory state.
//
// On adapter read failure or decode failure it returns an empty list and a
// *core.LoadError; the underlying blob is left untouched so the stored
// bytes are never lost to a failed load.
func (s *Store) Load(ctx context.Context) ([]core.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok, err := s.blob.Get(ctx, core.KeyNotes)
	if err != nil {
		s.notes = nil
		s.loaded = true
		s.logger.Error("failed to read note collection", "error", err)
		return nil, &core.LoadError{Err: err}
	}
	if !ok {
		// First run: nothing stored yet.
		s.notes = nil
		s.loaded = true
		return nil, nil
	}

	notes, err := decodeNotes(data)
	if err != nil {
		s.notes = nil
		s.loaded = true
		s.logger.Error("failed to decode note collection", "error", err)
		return nil, &core.LoadError{Err: err}
	}

	s.notes = notes
	s.loaded = true
	s.logger.Debug("note collection loaded", "count", len(notes))
	return core.CloneNotes(notes), nil
}

// Loaded reports whether Load has completed at least once.
func (s *Store) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// Create adds a note. The id is freshly generated and guaranteed not to
// collide with any live note; CreatedAt and UpdatedAt are both set to now.
// If the input title trims to empty, a title is derived from the content.
//
// The full collection is persisted before Create returns; on persist
// failure the in-memory collection is rolled back and a *core.PersistError
// is returned.
func (s *Store) Create(ctx context.Context, input core.NoteInput) (core.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	title := strings.TrimSpace(input.Title)
	if title == "" {
		title = core.TitleFromContent(input.Content)
	}

	now := s.now()
	note := core.Note{
		ID:        s.uniqueID(),
		Title:     title,
		Content:   input.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	prev := s.notes
	next := make([]core.Note, 0, len(prev)+1)
	next = append(next, note)
	next = append(next, prev...)
	s.notes = next

	if err := s.persist(ctx); err != nil {
		s.notes = prev
		return core.Note{}, &core.PersistError{Op: "create", Err: err}
	}

	s.logger.Debug("note created", "id", note.ID)
	s.publish(core.Event{Type: core.EventCreate, ID: note.ID, Timestamp: now.Unix()})
	return note, nil
}

// Update applies a partial change to an existing note. Nil patch fields
// keep the current value; an effective title that trims to empty is
// regenerated from the effective content. UpdatedAt is refreshed, CreatedAt
// is untouched. Same rollback contract as Create.
//
// Returns core.ErrNotFound if the id is absent from the live collection.
func (s *Store) Update(ctx context.Context, id string, patch core.NotePatch) (core.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return core.Note{}, core.ErrNotFound
	}

	note := s.notes[idx]
	if patch.Title != nil {
		note.Title = *patch.Title
	}
	if patch.Content != nil {
		note.Content = *patch.Content
	}
	if strings.TrimSpace(note.Title) == "" {
		note.Title = core.TitleFromContent(note.Content)
	} else {
		note.Title = strings.TrimSpace(note.Title)
	}
	note.UpdatedAt = s.now()

	prev := s.notes
	next := core.CloneNotes(prev)
	next[idx] = note
	s.notes = next

	if err := s.persist(ctx); err != nil {
		s.notes = prev
		return core.Note{}, &core.PersistError{Op: "update", Err: err}
	}

	s.logger.Debug("note updated", "id", id)
	s.publish(core.Event{Type: core.EventModify, ID: id, Timestamp: note.UpdatedAt.Unix()})
	return note, nil
}

// Delete removes a note. Deleting an absent id is a no-op, not an error,
// so the operation is idempotent. Same rollback contract as Create.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil
	}

	prev := s.notes
	next := make([]core.Note, 0, len(prev)-1)
	next = append(next, prev[:idx]...)
	next = append(next, prev[idx+1:]...)
	s.notes = next

	if err := s.persist(ctx); err != nil {
		s.notes = prev
		return &core.PersistError{Op: "delete", Err: err}
	}

	s.logger.Debug("note deleted", "id", id)
	s.publish(core.Event{Type: core.EventDelete, ID: id, Timestamp: s.now().Unix()})
	return nil
}

// DeleteAll empties the collection. Same rollback contract as Create.
func (s *Store) DeleteAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.notes
	s.notes = nil

	if err := s.persist(ctx); err != nil {
		s.notes = prev
		return &core.PersistError{Op: "delete-all", Err: err}
	}

	s.logger.Debug("note collection cleared", "removed", len(prev))
	s.publish(core.Event{Type: core.EventDelete, ID: "*", Timestamp: s.now().Unix()})
	return nil
}

// GetByID is a pure lookup against the current in-memory state, no I/O.
func (s *Store) GetByID(id string) (core.Note, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return core.Note{}, false
	}
	return s.notes[idx], true
}

// Notes returns a copy of the current in-memory collection.
func (s *Store) Notes() []core.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.CloneNotes(s.notes)
}

// Categorized derives the display projection for the current collection
// and search term. Recomputed on every call; never cached.
func (s *Store) Categorized(searchTerm string) core.CategorizedView {
	s.mu.Lock()
	notes := core.CloneNotes(s.notes)
	now := s.now()
	s.mu.Unlock()

	return core.Categorize(notes, searchTerm, now)
}

// Subscribe returns a channel receiving an event after every persisted
// mutation, plus a cancel function. Slow subscribers drop events rather
// than blocking mutations.
func (s *Store) Subscribe() (<-chan core.Event, func()) {
	ch := make(chan core.Event, s.eventBuffer)

	s.subMu.Lock()
	s.subs = append(s.subs, ch)
	s.subMu.Unlock()

	cancel := func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		for i, sub := range s.subs {
			if sub == ch {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				close(ch)
				return
			}
		}
	}
	return ch, cancel
}

// persist writes the whole collection through to the adapter.
// Caller holds s.mu.
func (s *Store) persist(ctx context.Context) error {
	data, err := encodeNotes(s.notes)
	if err != nil {
		return err
	}
	return s.blob.Put(ctx, core.KeyNotes, data)
}

// uniqueID generates an id not present in the live collection.
// Caller holds s.mu.
func (s *Store) uniqueID() string {
	for {
		id := s.newID()
		if s.indexOf(id) < 0 {
			return id
		}
	}
}

// indexOf returns the position of id in the live collection, or -1.
// Caller holds s.mu.
func (s *Store) indexOf(id string) int {
	for i, n := range s.notes {
		if n.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) publish(ev core.Event) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, sub := range s.subs {
		select {
		case sub <- ev:
		default:
		}
	}
}
