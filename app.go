package savemymind

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/TheReal-Flo/SaveMyMind/internal/platform"
	"github.com/TheReal-Flo/SaveMyMind/pkg/auth"
	"github.com/TheReal-Flo/SaveMyMind/pkg/core"
	"github.com/TheReal-Flo/SaveMyMind/pkg/editor"
	"github.com/TheReal-Flo/SaveMyMind/pkg/provision"
	"github.com/TheReal-Flo/SaveMyMind/pkg/store"
	"github.com/TheReal-Flo/SaveMyMind/pkg/voice"
)

// App is the composition root: it wires the storage adapter, the note
// store, and the gates (auth, asset provisioning, voice) into one unit
// with the startup order the UI relies on.
type App struct {
	blob      core.BlobStore
	store     *store.Store
	authGate  *auth.Gate
	provGate  *provision.Gate
	voiceSvc  *voice.Service
	logger    *slog.Logger
	debounce  []editor.Option
	loadErr   error
}

// Open builds the app and runs the startup sequence:
//
//  1. the authentication gate (blocks until passed, or degrades),
//  2. asset provisioning (kicked off in the background),
//  3. the note collection load.
//
// A failed collection load is not fatal: the app comes up with an empty
// list and LoadErr reports the *core.LoadError so the UI can say so.
func Open(ctx context.Context, dataDir string, opts ...Option) (*App, error) {
	o := platform.Apply(opts...)

	logger := o.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	dir, err := platform.DataDir(dataDir)
	if err != nil {
		return nil, err
	}

	blob := o.Blob
	if blob == nil {
		blob, err = platform.NewBlobStore(o.Adapter, dir, logger)
		if err != nil {
			return nil, fmt.Errorf("open storage: %w", err)
		}
	}

	app := &App{
		blob:   blob,
		logger: logger,
	}

	if o.Authenticator != nil {
		app.authGate = auth.New(o.Authenticator, blob, auth.WithLogger(logger))
		if err := app.authGate.Require(ctx); err != nil {
			blob.Close()
			return nil, err
		}
	}

	assetPath := o.AssetPath
	if assetPath == "" {
		assetPath = filepath.Join(dir, "models", "transcribe.bin")
	}
	app.provGate = provision.New(blob, provision.Config{
		URL:      o.AssetURL,
		Version:  o.AssetVersion,
		Path:     assetPath,
		Required: o.AssetURL != "",
		Logger:   logger,
	})
	app.provGate.Start(ctx)

	app.voiceSvc = voice.New(voice.Config{
		Recorder:    o.Recorder,
		Transcriber: o.Transcriber,
		Gate:        app.provGate,
		Logger:      logger,
	})

	storeOpts := []store.Option{store.WithLogger(logger)}
	if o.Clock != nil {
		storeOpts = append(storeOpts, store.WithClock(o.Clock))
	}
	if o.EventBuffer > 0 {
		storeOpts = append(storeOpts, store.WithEventBuffer(o.EventBuffer))
	}
	app.store = store.New(blob, storeOpts...)

	if o.Debounce > 0 {
		app.debounce = append(app.debounce, editor.WithDebounce(o.Debounce))
	}

	if _, err := app.store.Load(ctx); err != nil {
		var lerr *core.LoadError
		if !errors.As(err, &lerr) {
			blob.Close()
			return nil, err
		}
		app.loadErr = err
		logger.Warn("starting with an empty collection", "error", err)
	}

	return app, nil
}

// Store returns the note store.
func (a *App) Store() *store.Store { return a.store }

// Auth returns the authentication gate, or nil when no authenticator was
// configured.
func (a *App) Auth() *auth.Gate { return a.authGate }

// Provision returns the asset provisioning gate.
func (a *App) Provision() *provision.Gate { return a.provGate }

// Voice returns the voice input service.
func (a *App) Voice() *voice.Service { return a.voiceSvc }

// LoadErr reports the startup load failure, if any.
func (a *App) LoadErr() error { return a.loadErr }

// NewEditor opens an editor session for a brand-new note.
func (a *App) NewEditor(opts ...editor.Option) *editor.Session {
	opts = append(a.editorOpts(), opts...)
	return editor.NewSession(a.store, opts...)
}

// OpenEditor opens an editor session for an existing note.
func (a *App) OpenEditor(id string, opts ...editor.Option) (*editor.Session, error) {
	opts = append(a.editorOpts(), opts...)
	return editor.OpenSession(a.store, id, opts...)
}

func (a *App) editorOpts() []editor.Option {
	opts := []editor.Option{editor.WithLogger(a.logger)}
	return append(opts, a.debounce...)
}

// Close releases the storage adapter.
func (a *App) Close() error {
	return a.blob.Close()
}
