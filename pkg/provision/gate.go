// Package provision gates voice features behind a one-time asset download.
// The gate is a state machine over the transcription model file: a feature
// is only offered once the asset is verified on disk with a matching
// version, and never on the strength of stale flags alone.
package provision

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"

	"github.com/TheReal-Flo/SaveMyMind/pkg/core"
)

// Status is the provisioning state of the asset.
type Status string

const (
	StatusUnchecked   Status = "unchecked"
	StatusChecking    Status = "checking"
	StatusDownloading Status = "downloading"
	StatusAvailable   Status = "available"
	StatusFailed      Status = "failed"
)

const installedFlag = "true"

// Progress is a download progress snapshot.
type Progress struct {
	Written  int64
	Expected int64 // -1 when the server sent no length
	Percent  int   // -1 when Expected is unknown
}

// Observer receives progress snapshots during a download. Observers are
// only notified when the whole-percent value changes, so UI updates stay
// cheap even for large assets.
type Observer func(Progress)

// Config describes the asset to provision.
type Config struct {
	// URL is the asset download location.
	URL string
	// Version is the asset version this build requires. A stored version
	// that differs invalidates the installed asset.
	Version string
	// Path is where the asset lives on disk.
	Path string
	// Required reports whether this platform needs the asset at all. When
	// false the gate short-circuits to Available and never downloads.
	Required bool
	// Client is the HTTP client for downloads. Defaults to a client with a
	// generous timeout.
	Client *http.Client
	// Attempts caps download attempts (first try included). Default 3.
	Attempts uint64
	// Logger receives gate activity. Defaults to discard.
	Logger *slog.Logger
}

// Gate tracks asset provisioning state and persists the installed/version
// flags through the blob store.
type Gate struct {
	cfg  Config
	blob core.BlobStore

	// runMu serializes check-or-download runs; concurrent Ensure calls
	// queue behind the active run and then observe its outcome.
	runMu sync.Mutex

	mu          sync.Mutex
	status      Status
	reason      string
	observers   []Observer
	lastPercent int
}

// New creates a Gate in the Unchecked state.
func New(blob core.BlobStore, cfg Config) *Gate {
	if cfg.Client == nil {
		cfg.Client = &http.Client{Timeout: 10 * time.Minute}
	}
	if cfg.Attempts == 0 {
		cfg.Attempts = 3
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	return &Gate{
		cfg:         cfg,
		blob:        blob,
		status:      StatusUnchecked,
		lastPercent: -1,
	}
}

// Status returns the current state and, for Failed, a user-facing reason.
func (g *Gate) Status() (Status, string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.status, g.reason
}

// Available reports whether the asset is ready for use right now.
func (g *Gate) Available() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.status == StatusAvailable
}

// Subscribe registers a progress observer for subsequent downloads.
func (g *Gate) Subscribe(fn Observer) {
	if fn == nil {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.observers = append(g.observers, fn)
}

// Ensure drives the gate to a terminal state: verify the installed asset,
// download it when missing or invalidated, and end Available or Failed.
// Only one run is active at a time; a caller arriving mid-run waits it
// out and reports its outcome.
func (g *Gate) Ensure(ctx context.Context) error {
	g.runMu.Lock()
	defer g.runMu.Unlock()

	g.mu.Lock()
	if !g.cfg.Required {
		// Nothing to provision on this platform.
		g.status = StatusAvailable
		g.reason = ""
		g.mu.Unlock()
		return nil
	}
	switch g.status {
	case StatusAvailable:
		g.mu.Unlock()
		return nil
	case StatusFailed:
		reason := g.reason
		g.mu.Unlock()
		return fmt.Errorf("asset provisioning failed: %s", reason)
	}
	g.status = StatusChecking
	g.reason = ""
	g.mu.Unlock()

	ok, err := g.verifyInstalled(ctx)
	if err != nil {
		g.fail(fmt.Sprintf("could not verify the voice model: %v", err))
		return err
	}
	if ok {
		g.mu.Lock()
		g.status = StatusAvailable
		g.mu.Unlock()
		g.cfg.Logger.Debug("asset already provisioned", "path", g.cfg.Path, "version", g.cfg.Version)
		return nil
	}

	return g.download(ctx)
}

// Start runs Ensure on a managed goroutine.
func (g *Gate) Start(ctx context.Context) {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		return g.Ensure(ctx)
	}, lifecycle.WithErrorHandler(func(err error) {
		g.cfg.Logger.Error("asset provisioning failed", "error", err)
	}))
}

// Retry restarts provisioning after a failure. A gate that is not Failed
// is left alone.
func (g *Gate) Retry(ctx context.Context) error {
	g.mu.Lock()
	if g.status != StatusFailed {
		g.mu.Unlock()
		return nil
	}
	g.status = StatusUnchecked
	g.reason = ""
	g.mu.Unlock()
	return g.Ensure(ctx)
}

// verifyInstalled decides whether the installed asset can be trusted. The
// stored flags alone are never enough: the version must match this build
// and the file must actually exist. Any mismatch tears down the stale
// asset and flags so the gate re-downloads from a clean slate.
func (g *Gate) verifyInstalled(ctx context.Context) (bool, error) {
	installed, ok, err := g.blob.Get(ctx, core.KeyAssetInstalled)
	if err != nil {
		return false, fmt.Errorf("read installed flag: %w", err)
	}
	if !ok || string(installed) != installedFlag {
		return false, nil
	}

	version, _, err := g.blob.Get(ctx, core.KeyAssetVersion)
	if err != nil {
		return false, fmt.Errorf("read asset version: %w", err)
	}
	if string(version) != g.cfg.Version {
		g.cfg.Logger.Info("asset version mismatch, invalidating",
			"stored", string(version), "required", g.cfg.Version)
		if err := g.invalidate(ctx); err != nil {
			return false, err
		}
		return false, nil
	}

	if _, err := os.Stat(g.cfg.Path); err != nil {
		// Flags say installed but the file is gone. Clear the flags and
		// re-download rather than trusting stale state.
		g.cfg.Logger.Warn("asset file missing despite installed flag", "path", g.cfg.Path)
		if err := g.invalidate(ctx); err != nil {
			return false, err
		}
		return false, nil
	}
	return true, nil
}

// invalidate removes the asset file and clears both flags.
func (g *Gate) invalidate(ctx context.Context) error {
	if err := os.Remove(g.cfg.Path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove stale asset: %w", err)
	}
	if err := g.blob.Delete(ctx, core.KeyAssetInstalled); err != nil {
		return fmt.Errorf("clear installed flag: %w", err)
	}
	if err := g.blob.Delete(ctx, core.KeyAssetVersion); err != nil {
		return fmt.Errorf("clear asset version: %w", err)
	}
	return nil
}

// markInstalled persists the flags after a verified download.
func (g *Gate) markInstalled(ctx context.Context) error {
	if err := g.blob.Put(ctx, core.KeyAssetInstalled, []byte(installedFlag)); err != nil {
		return fmt.Errorf("persist installed flag: %w", err)
	}
	if err := g.blob.Put(ctx, core.KeyAssetVersion, []byte(g.cfg.Version)); err != nil {
		return fmt.Errorf("persist asset version: %w", err)
	}
	return nil
}

func (g *Gate) fail(reason string) {
	g.mu.Lock()
	g.status = StatusFailed
	g.reason = reason
	g.mu.Unlock()
	g.cfg.Logger.Warn("asset provisioning failed", "reason", reason)
}

// notify pushes a progress snapshot to observers when the whole-percent
// value changed since the last notification.
func (g *Gate) notify(p Progress) {
	g.mu.Lock()
	if p.Percent >= 0 && p.Percent == g.lastPercent {
		g.mu.Unlock()
		return
	}
	g.lastPercent = p.Percent
	observers := make([]Observer, len(g.observers))
	copy(observers, g.observers)
	g.mu.Unlock()

	for _, fn := range observers {
		fn(p)
	}
}
