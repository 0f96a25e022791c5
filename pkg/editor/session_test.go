package editor_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/TheReal-Flo/SaveMyMind/pkg/core"
	"github.com/TheReal-Flo/SaveMyMind/pkg/editor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubStore is a minimal in-memory NoteStore with fault injection and an
// optional gate that holds saves open so tests can inject edits mid-save.
type stubStore struct {
	mu          sync.Mutex
	notes       map[string]core.Note
	seq         int
	failSaves   bool
	gate        chan struct{} // when non-nil, saves block until it closes
	saveStarted chan struct{} // signalled once per save entry
	deleteCalls int
}

var errSaveRejected = errors.New("save rejected")

func newStubStore() *stubStore {
	return &stubStore{notes: make(map[string]core.Note)}
}

func (st *stubStore) enter() error {
	st.mu.Lock()
	started := st.saveStarted
	gate := st.gate
	fail := st.failSaves
	st.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if gate != nil {
		<-gate
	}
	if fail {
		return errSaveRejected
	}
	return nil
}

func (st *stubStore) Create(ctx context.Context, input core.NoteInput) (core.Note, error) {
	if err := st.enter(); err != nil {
		return core.Note{}, err
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	st.seq++
	title := strings.TrimSpace(input.Title)
	if title == "" {
		title = core.TitleFromContent(input.Content)
	}
	now := time.Now()
	n := core.Note{
		ID:        string(rune('a' + st.seq - 1)),
		Title:     title,
		Content:   input.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	st.notes[n.ID] = n
	return n, nil
}

func (st *stubStore) Update(ctx context.Context, id string, patch core.NotePatch) (core.Note, error) {
	if err := st.enter(); err != nil {
		return core.Note{}, err
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	n, ok := st.notes[id]
	if !ok {
		return core.Note{}, core.ErrNotFound
	}
	if patch.Title != nil {
		n.Title = *patch.Title
	}
	if patch.Content != nil {
		n.Content = *patch.Content
	}
	if strings.TrimSpace(n.Title) == "" {
		n.Title = core.TitleFromContent(n.Content)
	}
	n.UpdatedAt = time.Now()
	st.notes[id] = n
	return n, nil
}

func (st *stubStore) Delete(ctx context.Context, id string) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.deleteCalls++
	delete(st.notes, id)
	return nil
}

func (st *stubStore) GetByID(id string) (core.Note, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	n, ok := st.notes[id]
	return n, ok
}

func (st *stubStore) get(t *testing.T, id string) core.Note {
	t.Helper()
	n, ok := st.GetByID(id)
	require.True(t, ok, "note %q not in store", id)
	return n
}

const testDebounce = 25 * time.Millisecond

func waitSave(t *testing.T, ch <-chan core.Note) core.Note {
	t.Helper()
	select {
	case n := <-ch:
		return n
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a save")
		return core.Note{}
	}
}

func waitError(t *testing.T, ch <-chan error) error {
	t.Helper()
	select {
	case err := <-ch:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a save error")
		return nil
	}
}

func TestNewSession_FirstSaveCreatesNote(t *testing.T) {
	st := newStubStore()
	saved := make(chan core.Note, 4)
	s := editor.NewSession(st,
		editor.WithDebounce(testDebounce),
		editor.WithOnSave(func(n core.Note) { saved <- n }),
	)

	assert.Equal(t, editor.StateReady, s.State())
	assert.Empty(t, s.NoteID())
	assert.Equal(t, core.DefaultTitle, s.DisplayTitle())

	s.SetContent("Buy milk\nand eggs")
	assert.Equal(t, editor.StateDirty, s.State())

	n := waitSave(t, saved)
	assert.Equal(t, "Buy milk", n.Title)
	assert.Equal(t, n.ID, s.NoteID())
	assert.Equal(t, editor.StateReady, s.State())
	// The generated title flows back into the buffer.
	assert.Equal(t, "Buy milk", s.Title())
}

func TestDebounce_KeystrokesRestartTheTimer(t *testing.T) {
	st := newStubStore()
	saved := make(chan core.Note, 4)
	s := editor.NewSession(st,
		editor.WithDebounce(100*time.Millisecond),
		editor.WithOnSave(func(n core.Note) { saved <- n }),
	)

	// Keep typing faster than the debounce window.
	for i := 0; i < 5; i++ {
		s.SetContent(strings.Repeat("x", i+1))
		time.Sleep(20 * time.Millisecond)
	}
	select {
	case <-saved:
		t.Fatal("save fired while keystrokes kept arriving")
	default:
	}

	n := waitSave(t, saved)
	assert.Equal(t, "xxxxx", n.Content, "save must carry the latest buffer")

	st.mu.Lock()
	count := len(st.notes)
	st.mu.Unlock()
	assert.Equal(t, 1, count, "one quiet period, one save")
}

func TestOpenSession(t *testing.T) {
	t.Run("Seeds Buffers From Existing Note", func(t *testing.T) {
		st := newStubStore()
		existing, err := st.Create(context.Background(), core.NoteInput{Title: "Plans", Content: "ski trip"})
		require.NoError(t, err)

		s, err := editor.OpenSession(st, existing.ID, editor.WithDebounce(testDebounce))
		require.NoError(t, err)
		defer s.Close(context.Background())

		assert.Equal(t, editor.StateReady, s.State())
		assert.Equal(t, "Plans", s.Title())
		assert.Equal(t, "ski trip", s.Content())
	})

	t.Run("Unknown ID Closes The Session", func(t *testing.T) {
		st := newStubStore()

		_, err := editor.OpenSession(st, "ghost")
		require.ErrorIs(t, err, editor.ErrNoteNotFound)
	})
}

func TestSaveFailure_RetainsBufferAndRetries(t *testing.T) {
	st := newStubStore()
	st.failSaves = true
	saved := make(chan core.Note, 4)
	failed := make(chan error, 4)
	s := editor.NewSession(st,
		editor.WithDebounce(testDebounce),
		editor.WithOnSave(func(n core.Note) { saved <- n }),
		editor.WithOnError(func(err error) { failed <- err }),
	)

	s.SetContent("precious edits")

	err := waitError(t, failed)
	var saveErr *editor.SaveError
	require.ErrorAs(t, err, &saveErr)
	assert.ErrorIs(t, err, errSaveRejected)

	// Buffer intact, error surfaced, session still editable.
	assert.Equal(t, "precious edits", s.Content())
	require.Error(t, s.Err())

	// Heal the store; the re-armed cycle retries on its own.
	st.mu.Lock()
	st.failSaves = false
	st.mu.Unlock()

	n := waitSave(t, saved)
	assert.Equal(t, "precious edits", n.Content)
	assert.NoError(t, s.Err(), "successful save clears the error")
}

func TestEditDuringSave_GetsItsOwnCycle(t *testing.T) {
	st := newStubStore()
	st.gate = make(chan struct{})
	st.saveStarted = make(chan struct{}, 4)
	saved := make(chan core.Note, 4)
	s := editor.NewSession(st,
		editor.WithDebounce(testDebounce),
		editor.WithOnSave(func(n core.Note) { saved <- n }),
	)

	s.SetContent("v1")
	<-st.saveStarted // first save is now in flight

	// A keystroke during Saving must not disturb the in-flight snapshot.
	s.SetContent("v2")
	close(st.gate)

	first := waitSave(t, saved)
	assert.Equal(t, "v1", first.Content)

	<-st.saveStarted
	second := waitSave(t, saved)
	assert.Equal(t, "v2", second.Content)
	assert.Equal(t, first.ID, second.ID, "second cycle updates, not creates")
	assert.Equal(t, editor.StateReady, s.State())
}

func TestGeneratedTitle_NotAdoptedOverNewerKeystrokes(t *testing.T) {
	st := newStubStore()
	st.gate = make(chan struct{})
	st.saveStarted = make(chan struct{}, 4)
	saved := make(chan core.Note, 4)
	s := editor.NewSession(st,
		editor.WithDebounce(testDebounce),
		editor.WithOnSave(func(n core.Note) { saved <- n }),
	)

	s.SetContent("Buy milk")
	<-st.saveStarted

	// The user types a title while the save is in flight; the generated
	// "Buy milk" must not clobber it.
	s.SetTitle("Shopping")
	close(st.gate)

	waitSave(t, saved)
	assert.Equal(t, "Shopping", s.Title())
}

func TestFlush_SavesWithoutWaitingForDebounce(t *testing.T) {
	st := newStubStore()
	s := editor.NewSession(st, editor.WithDebounce(time.Hour))

	s.SetContent("flush me")
	require.NoError(t, s.Flush(context.Background()))

	assert.Equal(t, editor.StateReady, s.State())
	n := st.get(t, s.NoteID())
	assert.Equal(t, "flush me", n.Content)

	// Clean buffer: Flush is a no-op.
	require.NoError(t, s.Flush(context.Background()))
}

func TestClose(t *testing.T) {
	t.Run("Flushes Unsaved Edits Synchronously", func(t *testing.T) {
		st := newStubStore()
		s := editor.NewSession(st, editor.WithDebounce(time.Hour))

		s.SetContent("last words")
		require.NoError(t, s.Close(context.Background()))

		assert.Equal(t, editor.StateClosed, s.State())
		n := st.get(t, s.NoteID())
		assert.Equal(t, "last words", n.Content)
	})

	t.Run("Closes Even When The Final Flush Fails", func(t *testing.T) {
		st := newStubStore()
		st.failSaves = true
		s := editor.NewSession(st, editor.WithDebounce(time.Hour))

		s.SetContent("doomed")
		err := s.Close(context.Background())

		var saveErr *editor.SaveError
		require.ErrorAs(t, err, &saveErr)
		assert.Equal(t, editor.StateClosed, s.State())
	})

	t.Run("Idempotent And Ignores Later Keystrokes", func(t *testing.T) {
		st := newStubStore()
		s := editor.NewSession(st, editor.WithDebounce(testDebounce))

		require.NoError(t, s.Close(context.Background()))
		require.NoError(t, s.Close(context.Background()))

		s.SetContent("into the void")
		assert.Equal(t, editor.StateClosed, s.State())
		assert.Empty(t, s.Content())
	})
}

func TestDeleteNote(t *testing.T) {
	t.Run("Never Saved Note Is Discarded Without A Store Call", func(t *testing.T) {
		st := newStubStore()
		s := editor.NewSession(st, editor.WithDebounce(time.Hour))

		s.SetContent("ephemeral")
		require.NoError(t, s.DeleteNote(context.Background()))

		assert.Equal(t, editor.StateClosed, s.State())
		assert.Zero(t, st.deleteCalls)
	})

	t.Run("Saved Note Is Deleted From The Store", func(t *testing.T) {
		st := newStubStore()
		existing, err := st.Create(context.Background(), core.NoteInput{Title: "Gone", Content: "soon"})
		require.NoError(t, err)

		s, err := editor.OpenSession(st, existing.ID)
		require.NoError(t, err)

		require.NoError(t, s.DeleteNote(context.Background()))
		assert.Equal(t, editor.StateClosed, s.State())
		_, ok := st.GetByID(existing.ID)
		assert.False(t, ok)
	})
}

func TestUsableTranscript(t *testing.T) {
	usable := []string{
		"hello world",
		"note about [1] a reference",
		"  spoken words  ",
	}
	for _, text := range usable {
		assert.True(t, editor.UsableTranscript(text), "%q should be usable", text)
	}

	noise := []string{
		"",
		"   ",
		"\n\t",
		"[Music]",
		"(applause)",
		"  [BLANK_AUDIO]  ",
	}
	for _, text := range noise {
		assert.False(t, editor.UsableTranscript(text), "%q should be filtered", text)
	}
}

func TestAppendTranscript(t *testing.T) {
	st := newStubStore()
	s := editor.NewSession(st, editor.WithDebounce(time.Hour))

	assert.False(t, s.AppendTranscript("[Music]"))
	assert.Empty(t, s.Content())
	assert.Equal(t, editor.StateReady, s.State(), "filtered result is not a keystroke")

	assert.True(t, s.AppendTranscript("first thought"))
	assert.Equal(t, "first thought", s.Content())
	assert.Equal(t, editor.StateDirty, s.State())

	assert.True(t, s.AppendTranscript("second thought"))
	assert.Equal(t, "first thought\n\nsecond thought", s.Content())
}
