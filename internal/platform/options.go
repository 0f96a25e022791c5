package platform

import (
	"log/slog"
	"time"

	"github.com/TheReal-Flo/SaveMyMind/pkg/auth"
	"github.com/TheReal-Flo/SaveMyMind/pkg/core"
	"github.com/TheReal-Flo/SaveMyMind/pkg/voice"
)

// Options holds the resolved configuration for the app.
type Options struct {
	Logger        *slog.Logger
	Adapter       string
	Blob          core.BlobStore
	Debounce      time.Duration
	Clock         func() time.Time
	EventBuffer   int
	AssetURL      string
	AssetVersion  string
	AssetPath     string
	Authenticator auth.Authenticator
	Recorder      voice.Recorder
	Transcriber   voice.Transcriber
}

// Option defines a functional option for configuring the app.
type Option func(*Options)

// DefaultOptions returns the default configuration.
func DefaultOptions() *Options {
	return &Options{
		Adapter: "badger",
	}
}

// Apply resolves the options against the defaults.
func Apply(opts ...Option) *Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the logger for all components.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithAdapter selects the storage adapter by name ("badger", "sqlite",
// "fs", "memory"). Defaults to "badger".
func WithAdapter(name string) Option {
	return func(o *Options) {
		o.Adapter = name
	}
}

// WithBlobStore injects a custom storage adapter. When provided, the named
// adapter is skipped.
func WithBlobStore(blob core.BlobStore) Option {
	return func(o *Options) {
		o.Blob = blob
	}
}

// WithDebounce overrides the editor auto-save quiet period.
func WithDebounce(d time.Duration) Option {
	return func(o *Options) {
		o.Debounce = d
	}
}

// WithClock overrides the time source used for categorization.
func WithClock(now func() time.Time) Option {
	return func(o *Options) {
		o.Clock = now
	}
}

// WithEventBuffer sets the per-subscriber event channel capacity.
// Zero means default (100).
func WithEventBuffer(size int) Option {
	return func(o *Options) {
		o.EventBuffer = size
	}
}

// WithAsset configures the transcription model download: where to fetch
// it, which version this build requires, and where it lives on disk.
// Leaving the URL empty disables provisioning entirely.
func WithAsset(url, version, path string) Option {
	return func(o *Options) {
		o.AssetURL = url
		o.AssetVersion = version
		o.AssetPath = path
	}
}

// WithAuthenticator injects the device authentication backend. Without
// one, the app lock is unavailable and access is always granted.
func WithAuthenticator(authn auth.Authenticator) Option {
	return func(o *Options) {
		o.Authenticator = authn
	}
}

// WithVoice injects the audio capture and transcription backends. Without
// both, voice input is the no-op variant.
func WithVoice(rec voice.Recorder, tr voice.Transcriber) Option {
	return func(o *Options) {
		o.Recorder = rec
		o.Transcriber = tr
	}
}
