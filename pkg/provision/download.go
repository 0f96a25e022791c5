package provision

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/TheReal-Flo/SaveMyMind/pkg/core"
)

const partialSuffix = ".partial"

// download fetches the asset with retries, verifies the result landed on
// disk, then persists the flags and transitions to Available. Any failure
// cleans up the partial file and clears the flags before going Failed, so
// a later Check never mistakes debris for an installed asset.
func (g *Gate) download(ctx context.Context) error {
	g.mu.Lock()
	g.status = StatusDownloading
	g.lastPercent = -1
	g.mu.Unlock()
	g.cfg.Logger.Info("downloading asset", "url", g.cfg.URL, "version", g.cfg.Version)

	backoff := retry.WithMaxRetries(g.cfg.Attempts-1, retry.NewFibonacci(time.Second))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := g.fetch(ctx); err != nil {
			g.cfg.Logger.Warn("download attempt failed", "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		g.cleanup(ctx)
		g.fail(fmt.Sprintf("download failed: %v", err))
		return fmt.Errorf("download asset: %w", err)
	}

	// Verify the asset is really there before anything is promised.
	if _, err := os.Stat(g.cfg.Path); err != nil {
		g.cleanup(ctx)
		g.fail("downloaded asset missing from disk")
		return fmt.Errorf("verify asset: %w", err)
	}

	if err := g.markInstalled(ctx); err != nil {
		g.cleanup(ctx)
		g.fail(fmt.Sprintf("could not record the install: %v", err))
		return err
	}

	g.mu.Lock()
	g.status = StatusAvailable
	g.reason = ""
	g.mu.Unlock()
	g.cfg.Logger.Info("asset provisioned", "path", g.cfg.Path, "version", g.cfg.Version)
	return nil
}

// fetch performs one download attempt: stream to a partial file, then
// rename into place so the final path only ever holds a complete asset.
func (g *Gate) fetch(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.cfg.URL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := g.cfg.Client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", g.cfg.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch %s: unexpected status %s", g.cfg.URL, resp.Status)
	}

	if err := os.MkdirAll(filepath.Dir(g.cfg.Path), 0o755); err != nil {
		return fmt.Errorf("create asset dir: %w", err)
	}

	partial := g.cfg.Path + partialSuffix
	f, err := os.Create(partial)
	if err != nil {
		return fmt.Errorf("create partial file: %w", err)
	}

	pw := &progressWriter{gate: g, expected: resp.ContentLength}
	if _, err := io.Copy(io.MultiWriter(f, pw), resp.Body); err != nil {
		f.Close()
		os.Remove(partial)
		return fmt.Errorf("stream asset: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(partial)
		return fmt.Errorf("close partial file: %w", err)
	}

	if err := os.Rename(partial, g.cfg.Path); err != nil {
		os.Remove(partial)
		return fmt.Errorf("finalize asset: %w", err)
	}
	return nil
}

// cleanup removes download debris and clears the flags. Errors here are
// logged, not returned; the gate is already on a failure path.
func (g *Gate) cleanup(ctx context.Context) {
	for _, p := range []string{g.cfg.Path + partialSuffix, g.cfg.Path} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			g.cfg.Logger.Warn("could not remove download debris", "path", p, "error", err)
		}
	}
	if err := g.blob.Delete(ctx, core.KeyAssetInstalled); err != nil {
		g.cfg.Logger.Warn("could not clear installed flag", "error", err)
	}
	if err := g.blob.Delete(ctx, core.KeyAssetVersion); err != nil {
		g.cfg.Logger.Warn("could not clear asset version", "error", err)
	}
}

// progressWriter counts streamed bytes and feeds the gate's observers.
type progressWriter struct {
	gate     *Gate
	expected int64
	written  int64
}

func (w *progressWriter) Write(p []byte) (int, error) {
	w.written += int64(len(p))
	percent := -1
	if w.expected > 0 {
		percent = int(w.written * 100 / w.expected)
	}
	w.gate.notify(Progress{Written: w.written, Expected: w.expected, Percent: percent})
	return len(p), nil
}
