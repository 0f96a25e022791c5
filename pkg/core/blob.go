package core

import "context"

// Persistence keys. The whole note collection lives under a single key and
// is always rewritten as one unit; the remaining keys hold small flags.
const (
	KeyNotes          = "notes"
	KeyBiometricPref  = "prefs/biometric"
	KeyAssetInstalled = "asset/installed"
	KeyAssetVersion   = "asset/version"
)

// BlobStore defines the contract for the durable key-value primitive.
// Adhering to this interface keeps the store independent of the underlying
// storage mechanism (BadgerDB, SQLite, filesystem, memory).
//
// Each call must be atomic from the caller's perspective: a reader never
// observes a partially written blob. Cross-key transactions are not required.
type BlobStore interface {
	// Get returns the blob stored under key. The boolean reports whether
	// the key exists; a missing key is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Put stores the blob under key, replacing any previous value.
	Put(ctx context.Context, key string, data []byte) error

	// Delete removes the key. Deleting a missing key is a no-op.
	Delete(ctx context.Context, key string) error

	// Close releases underlying resources.
	Close() error
}

// EventType represents the kind of change to the note collection.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change to a note, broadcast by the store after every
// persisted mutation so callers can re-derive the categorized view.
type Event struct {
	Type      EventType
	ID        string
	Timestamp int64 // Unix timestamp
}

// String implements fmt.Stringer (and the lifecycle event contract).
func (e Event) String() string {
	return string(e.Type) + " " + e.ID
}

// Watchable is implemented by adapters that can observe external changes to
// their keys (e.g. the fs adapter watching the data directory).
type Watchable interface {
	// Watch emits an Event whenever a key matching pattern changes outside
	// this process. The channel closes when ctx is cancelled.
	Watch(ctx context.Context, pattern string) (<-chan Event, error)
}
