package savemymind

import (
	_ "embed"
)

// Version is the library version, embedded from the VERSION file so the
// release workflow only has to bump one place.
//
//go:embed VERSION
var Version string
