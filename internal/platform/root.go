package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// DataDir resolves the directory holding the app's durable state. An
// explicit path wins; otherwise the platform user config dir is used and
// created on first run.
func DataDir(explicit string) (string, error) {
	if explicit != "" {
		abs, err := filepath.Abs(explicit)
		if err != nil {
			return "", err
		}
		if err := os.MkdirAll(abs, 0o755); err != nil {
			return "", fmt.Errorf("create data dir: %w", err)
		}
		return abs, nil
	}

	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	dir := filepath.Join(base, "savemymind")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create data dir: %w", err)
	}
	return dir, nil
}
