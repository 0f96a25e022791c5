// Package fs implements core.BlobStore on top of a plain directory: one
// file per key, written atomically. It also supports watching the data
// directory for changes made outside the process.
package fs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

const (
	// TempFilePrefix is the prefix used for temporary atomic write files.
	TempFilePrefix = "smm-tmp-"
)

// Config holds the configuration for the filesystem store.
type Config struct {
	Path   string
	Logger *slog.Logger
}

// Store implements core.BlobStore using one file per key.
type Store struct {
	path   string
	logger *slog.Logger
}

// New creates a filesystem-backed blob store rooted at config.Path.
// The directory is created if missing.
func New(config Config) (*Store, error) {
	if config.Path == "" {
		return nil, fmt.Errorf("fs: path is required")
	}
	if err := os.MkdirAll(config.Path, 0755); err != nil {
		return nil, fmt.Errorf("fs: failed to create data directory: %w", err)
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Store{path: config.Path, logger: logger}, nil
}

// keyPath maps a key like "asset/version" onto a path inside the root.
// Keys use forward slashes regardless of platform.
func (s *Store) keyPath(key string) (string, error) {
	if key == "" || strings.Contains(key, "..") {
		return "", fmt.Errorf("fs: invalid key %q", key)
	}
	return filepath.Join(s.path, filepath.FromSlash(key)), nil
}

// Get reads the blob stored under key. A missing file means a missing key,
// not an error.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	path, err := s.keyPath(key)
	if err != nil {
		return nil, false, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("fs: failed to read %q: %w", key, err)
	}
	return data, true, nil
}

// Put writes the blob under key atomically (temp file + rename), so a
// concurrent reader never observes a partial blob.
func (s *Store) Put(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := s.keyPath(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("fs: failed to create directories: %w", err)
	}

	if err := writeFileAtomic(path, data, 0644); err != nil {
		return fmt.Errorf("fs: failed to write %q: %w", key, err)
	}

	s.logger.Debug("blob written", "key", key, "bytes", len(data))
	return nil
}

// Delete removes the file for key. Missing keys are a no-op.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := s.keyPath(key)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("fs: failed to delete %q: %w", key, err)
	}
	return nil
}

// Close is a no-op; the store holds no open handles between calls.
func (s *Store) Close() error { return nil }

// Path returns the root data directory.
func (s *Store) Path() string { return s.path }

// writeFileAtomic writes data to a file atomically by writing to a temp
// file in the same directory and then renaming it over the target.
func writeFileAtomic(filename string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(filename)

	tmpFile, err := os.CreateTemp(dir, TempFilePrefix+"*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmpFile.Name()) // Clean up if we fail before rename

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write to temp file: %w", err)
	}

	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Chmod(tmpFile.Name(), perm); err != nil {
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}

	if err := os.Rename(tmpFile.Name(), filename); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", filename, err)
	}

	return nil
}
