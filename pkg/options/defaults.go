package options

import (
	"io/fs"
	"runtime"
)

const (
	// Specifies the default base directory where ember will store its
	// field directories and segments. If no other directory is specified
	// during initialization, this path will be used.
	DefaultDataDir = "/var/lib/emberdb"

	// Defines the default permission bits for directories created by the
	// index (rwxr-xr-x).
	DefaultDirPermission fs.FileMode = 0755
)

// NewDefaultOptions returns the default configuration for an ember
// instance. Writer concurrency follows the machine's CPU count because
// per-field segment writing is CPU-and-disk bound with no shared state.
func NewDefaultOptions() Options {
	return Options{
		DataDir:           DefaultDataDir,
		WriterConcurrency: runtime.NumCPU(),
		DirPermission:     DefaultDirPermission,
	}
}
