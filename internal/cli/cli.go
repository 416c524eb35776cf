// Package cli implements the coursemap command-line interface.
//
// This package provides commands for computing roadmap layouts, playing
// transcripts in the terminal, serving the HTTP API, and managing the local
// layout cache. The CLI is built using cobra and supports verbose logging
// via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - layout: Compute node positions for a roadmap and export JSON, DOT, or SVG
//   - play: Follow a transcript in the terminal, synchronized to playback time
//   - serve: Run the HTTP API
//   - cache: Manage the local layout cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
//
// # Example
//
//	import "github.com/mlindner/coursemap/internal/cli"
//
//	func main() {
//	    if err := cli.Execute(); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"os"
	"path/filepath"
)

// appName is the application name used for directories and display.
const appName = "coursemap"

// cacheDir returns the cache directory using XDG standard (~/.cache/coursemap/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
