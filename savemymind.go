package savemymind

import (
	"log/slog"
	"time"

	"github.com/TheReal-Flo/SaveMyMind/internal/platform"
	"github.com/TheReal-Flo/SaveMyMind/pkg/auth"
	"github.com/TheReal-Flo/SaveMyMind/pkg/core"
	"github.com/TheReal-Flo/SaveMyMind/pkg/voice"
)

// --- Configuration ---

// Option defines a functional option for configuring the app.
type Option = platform.Option

// WithLogger sets the logger for all components.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithAdapter selects the storage adapter by name ("badger", "sqlite",
// "fs", "memory").
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithBlobStore injects a custom storage adapter.
func WithBlobStore(blob core.BlobStore) Option {
	return platform.WithBlobStore(blob)
}

// WithDebounce overrides the editor auto-save quiet period.
func WithDebounce(d time.Duration) Option {
	return platform.WithDebounce(d)
}

// WithClock overrides the time source used for categorization.
func WithClock(now func() time.Time) Option {
	return platform.WithClock(now)
}

// WithEventBuffer sets the per-subscriber event channel capacity.
func WithEventBuffer(size int) Option {
	return platform.WithEventBuffer(size)
}

// WithAsset configures the transcription model download.
func WithAsset(url, version, path string) Option {
	return platform.WithAsset(url, version, path)
}

// WithAuthenticator injects the device authentication backend.
func WithAuthenticator(authn auth.Authenticator) Option {
	return platform.WithAuthenticator(authn)
}

// WithVoice injects the audio capture and transcription backends.
func WithVoice(rec voice.Recorder, tr voice.Transcriber) Option {
	return platform.WithVoice(rec, tr)
}
