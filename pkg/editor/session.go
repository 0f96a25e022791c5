// Package editor mediates between free-form text input and the note store
// using a debounced auto-save protocol. Each open editor session is a small
// state machine: Loading → Ready → Dirty → Saving → Ready (loop), with a
// terminal Closed.
package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/TheReal-Flo/SaveMyMind/pkg/core"
)

// DefaultDebounce is the quiet period after the last keystroke before an
// auto-save fires.
const DefaultDebounce = 2 * time.Second

// State is the lifecycle state of a session.
type State string

const (
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateDirty   State = "dirty"
	StateSaving  State = "saving"
	StateClosed  State = "closed"
)

// ErrNoteNotFound reports that a session was opened with a stale or unknown
// note id. The session is closed; the caller should navigate away.
var ErrNoteNotFound = errors.New("editor: note not found")

// SaveError reports a failed auto-save. It is recoverable: the buffered
// edits are retained and retried on the next debounce cycle (or an explicit
// flush).
type SaveError struct {
	Err error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("auto-save failed: %v", e.Err)
}

func (e *SaveError) Unwrap() error { return e.Err }

// NoteStore is the slice of the store the editor needs.
type NoteStore interface {
	Create(ctx context.Context, input core.NoteInput) (core.Note, error)
	Update(ctx context.Context, id string, patch core.NotePatch) (core.Note, error)
	Delete(ctx context.Context, id string) error
	GetByID(id string) (core.Note, bool)
}

// Option configures a Session.
type Option func(*Session)

// WithDebounce overrides the auto-save quiet period. Tests use short values.
func WithDebounce(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.debounce = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithOnSave registers a callback invoked after every successful save with
// the persisted note. Called outside the session lock.
func WithOnSave(fn func(core.Note)) Option {
	return func(s *Session) { s.onSave = fn }
}

// WithOnError registers a callback invoked when an auto-save fails.
// Called outside the session lock.
func WithOnError(fn func(error)) Option {
	return func(s *Session) { s.onError = fn }
}

// Session is one open editor. All methods are safe for concurrent use; the
// debounce timer fires on its own goroutine.
type Session struct {
	store    NoteStore
	logger   *slog.Logger
	debounce time.Duration
	onSave   func(core.Note)
	onError  func(error)

	// saveMu serializes saves: at most one save is ever in flight for a
	// session, and Close waits for an in-flight save instead of aborting it.
	saveMu sync.Mutex

	mu           sync.Mutex
	state        State
	noteID       string
	title        string
	content      string
	pendingEdits bool // edits arrived while a save was in flight
	timer        *time.Timer
	lastErr      error
}

// NewSession opens a session for a brand-new note: Ready, empty content
// buffer, placeholder title. No note exists in the store until the first
// auto-save fires.
func NewSession(store NoteStore, opts ...Option) *Session {
	s := &Session{
		store:    store,
		logger:   slog.New(slog.DiscardHandler),
		debounce: DefaultDebounce,
		state:    StateReady,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OpenSession opens a session for an existing note. The session passes
// through Loading while the id is resolved against the store's live data;
// an unknown id closes the session and returns ErrNoteNotFound.
func OpenSession(store NoteStore, id string, opts ...Option) (*Session, error) {
	s := NewSession(store, opts...)
	s.state = StateLoading

	note, ok := store.GetByID(id)
	if !ok {
		s.state = StateClosed
		return nil, ErrNoteNotFound
	}

	s.noteID = note.ID
	s.title = note.Title
	s.content = note.Content
	s.state = StateReady
	return s, nil
}

// State returns the current session state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// NoteID returns the id of the backing note, or "" for a never-saved new
// note.
func (s *Session) NoteID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.noteID
}

// Title returns the buffered title (possibly empty).
func (s *Session) Title() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.title
}

// DisplayTitle returns the buffered title, or the placeholder when the
// buffer is empty.
func (s *Session) DisplayTitle() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if strings.TrimSpace(s.title) == "" {
		return core.DefaultTitle
	}
	return s.title
}

// Content returns the buffered content.
func (s *Session) Content() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.content
}

// Err returns the most recent save error, or nil. Cleared by the next
// successful save.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// SetTitle records a title keystroke and (re)starts the debounce timer.
func (s *Session) SetTitle(title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateClosed {
		return
	}
	s.title = title
	s.markDirtyLocked()
}

// SetContent records a content keystroke and (re)starts the debounce timer.
func (s *Session) SetContent(content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateClosed {
		return
	}
	s.content = content
	s.markDirtyLocked()
}

// transcriptNoise matches results that indicate non-speech audio: empty,
// whitespace-only, or bracket/parenthetical-only output like "[Music]".
var transcriptNoise = regexp.MustCompile(`^\s*[\[(][^\])]*[\])]\s*$`)

// UsableTranscript reports whether a transcription result carries actual
// speech worth appending.
func UsableTranscript(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	return !transcriptNoise.MatchString(text)
}

// AppendTranscript appends a voice transcription to the content buffer
// (blank-line separated) and treats it like a content keystroke. Results
// failing the noise filter are discarded; the return value reports whether
// anything was appended.
func (s *Session) AppendTranscript(text string) bool {
	if !UsableTranscript(text) {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateClosed {
		return false
	}

	text = strings.TrimSpace(text)
	if s.content == "" {
		s.content = text
	} else {
		s.content = s.content + "\n\n" + text
	}
	s.markDirtyLocked()
	return true
}

// markDirtyLocked transitions to Dirty and restarts the debounce timer.
// Repeated keystrokes restart the timer rather than queueing saves.
// Caller holds s.mu.
func (s *Session) markDirtyLocked() {
	if s.state == StateSaving {
		// The in-flight save continues with its snapshot; these edits get
		// their own cycle once it finishes.
		s.pendingEdits = true
		return
	}
	s.state = StateDirty
	s.restartTimerLocked()
}

// restartTimerLocked arms (or re-arms) the debounce timer.
// Caller holds s.mu.
func (s *Session) restartTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.debounce, s.fire)
}

// fire runs when the debounce timer expires. The title/content snapshot is
// taken here, at fire time, never from a closure captured when the timer
// was scheduled; that keeps a save from writing values of a previous
// debounce cycle.
func (s *Session) fire() {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	if s.state != StateDirty {
		s.mu.Unlock()
		return
	}
	s.state = StateSaving
	id, title, content := s.noteID, s.title, s.content
	s.mu.Unlock()

	s.save(context.Background(), id, title, content, true)
}

// save persists one snapshot. rearm controls whether a failed save
// re-enters the debounce loop (it must not during Close).
// Caller holds s.saveMu.
func (s *Session) save(ctx context.Context, id, title, content string, rearm bool) error {
	var (
		note core.Note
		err  error
	)
	if id == "" {
		note, err = s.store.Create(ctx, core.NoteInput{Title: title, Content: content})
	} else {
		t, c := title, content
		note, err = s.store.Update(ctx, id, core.NotePatch{Title: &t, Content: &c})
	}

	s.mu.Lock()
	if err != nil {
		saveErr := &SaveError{Err: err}
		s.lastErr = saveErr
		s.pendingEdits = false
		if s.state == StateSaving {
			// Buffered edits stay put; the next cycle retries them.
			s.state = StateDirty
			if rearm {
				s.restartTimerLocked()
			}
		}
		cb := s.onError
		s.mu.Unlock()

		s.logger.Warn("auto-save failed", "note_id", id, "error", err)
		if cb != nil {
			cb(saveErr)
		}
		return saveErr
	}

	s.lastErr = nil
	s.noteID = note.ID
	// Adopt the generated title, but only if the user has not typed a new
	// one since the snapshot was taken.
	if strings.TrimSpace(title) == "" && s.title == title {
		s.title = note.Title
	}
	if s.state == StateSaving {
		if s.pendingEdits {
			s.pendingEdits = false
			s.state = StateDirty
			if rearm {
				s.restartTimerLocked()
			}
		} else {
			s.state = StateReady
		}
	}
	cb := s.onSave
	s.mu.Unlock()

	s.logger.Debug("auto-save complete", "note_id", note.ID)
	if cb != nil {
		cb(note)
	}
	return nil
}

// Flush forces an immediate save of any unsaved edits, bypassing the
// remaining debounce wait. No-op when the buffer is clean.
func (s *Session) Flush(ctx context.Context) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	if s.state != StateDirty {
		s.mu.Unlock()
		return nil
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.state = StateSaving
	id, title, content := s.noteID, s.title, s.content
	s.mu.Unlock()

	return s.save(ctx, id, title, content, true)
}

// Close ends the session. Unsaved edits are flushed synchronously first;
// an in-flight save is allowed to complete rather than being aborted. The
// session transitions to Closed even when the final flush fails; the
// error is returned for the caller to surface.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return nil
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.mu.Unlock()

	// Waits for any in-flight save.
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	dirty := s.state == StateDirty || s.pendingEdits
	var id, title, content string
	if dirty {
		s.pendingEdits = false
		s.state = StateSaving
		id, title, content = s.noteID, s.title, s.content
	}
	s.mu.Unlock()

	var err error
	if dirty {
		err = s.save(ctx, id, title, content, false)
	}

	s.mu.Lock()
	s.state = StateClosed
	s.mu.Unlock()
	return err
}

// DeleteNote deletes the backing note (if one exists) and closes the
// session. A never-saved new note is simply discarded with no store call.
func (s *Session) DeleteNote(ctx context.Context) error {
	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return nil
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.mu.Unlock()

	// An in-flight save may still assign an id; wait for it.
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	id := s.noteID
	s.pendingEdits = false
	s.state = StateClosed
	s.mu.Unlock()

	if id == "" {
		return nil
	}
	return s.store.Delete(ctx, id)
}
