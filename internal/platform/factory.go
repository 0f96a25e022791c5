package platform

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/TheReal-Flo/SaveMyMind/pkg/adapters/badgerdb"
	"github.com/TheReal-Flo/SaveMyMind/pkg/adapters/fs"
	"github.com/TheReal-Flo/SaveMyMind/pkg/adapters/memory"
	"github.com/TheReal-Flo/SaveMyMind/pkg/adapters/sqlite"
	"github.com/TheReal-Flo/SaveMyMind/pkg/core"
)

// NewBlobStore opens the storage adapter by name, rooted at dataDir.
// Supported names: "badger" (default), "sqlite", "fs", "memory".
func NewBlobStore(name, dataDir string, logger *slog.Logger) (core.BlobStore, error) {
	switch name {
	case "", "badger":
		cfg := badgerdb.DefaultConfig(filepath.Join(dataDir, "badger"))
		cfg.Logger = logger
		return badgerdb.Open(cfg)
	case "sqlite":
		return sqlite.Open(filepath.Join(dataDir, "notes.db"))
	case "fs":
		return fs.New(fs.Config{
			Path:   filepath.Join(dataDir, "blobs"),
			Logger: logger,
		})
	case "memory":
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown storage adapter %q", name)
	}
}
