// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about layout computation, transcript playback, and cache
// operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetLayoutHooks(&myLayoutHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Layout().OnLayoutStart(ctx, nodeCount)
//	// ... compute layout ...
//	observability.Layout().OnLayoutComplete(ctx, positions, warnings, duration)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Layout Hooks
// =============================================================================

// LayoutHooks receives events from roadmap layout computation.
type LayoutHooks interface {
	// OnLayoutStart records the beginning of a layout run.
	OnLayoutStart(ctx context.Context, nodeCount int)

	// OnLayoutComplete records a finished layout run with the number of
	// positioned nodes and input warnings.
	OnLayoutComplete(ctx context.Context, positions, warnings int, duration time.Duration)
}

// =============================================================================
// Playback Hooks
// =============================================================================

// PlaybackHooks receives lifecycle events from transcript sync engines.
type PlaybackHooks interface {
	// OnPlay records a transition into the playing state.
	OnPlay(videoID string)

	// OnPause records a transition into the paused state.
	OnPause(videoID string, at float64)

	// OnSeek records an explicit seek.
	OnSeek(videoID string, to float64)

	// OnDestroy records engine teardown.
	OnDestroy(videoID string)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopLayoutHooks is a no-op implementation of LayoutHooks.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnLayoutStart(context.Context, int)                        {}
func (NoopLayoutHooks) OnLayoutComplete(context.Context, int, int, time.Duration) {}

// NoopPlaybackHooks is a no-op implementation of PlaybackHooks.
type NoopPlaybackHooks struct{}

func (NoopPlaybackHooks) OnPlay(string)           {}
func (NoopPlaybackHooks) OnPause(string, float64) {}
func (NoopPlaybackHooks) OnSeek(string, float64)  {}
func (NoopPlaybackHooks) OnDestroy(string)        {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	layoutHooks   LayoutHooks   = NoopLayoutHooks{}
	playbackHooks PlaybackHooks = NoopPlaybackHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	hooksMu       sync.RWMutex
)

// SetLayoutHooks registers custom layout hooks.
// This should be called once at application startup before any layout operations.
func SetLayoutHooks(h LayoutHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		layoutHooks = h
	}
}

// SetPlaybackHooks registers custom playback hooks.
// This should be called once at application startup before any engines start.
func SetPlaybackHooks(h PlaybackHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		playbackHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Layout returns the registered layout hooks.
func Layout() LayoutHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return layoutHooks
}

// Playback returns the registered playback hooks.
func Playback() PlaybackHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return playbackHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	layoutHooks = NoopLayoutHooks{}
	playbackHooks = NoopPlaybackHooks{}
	cacheHooks = NoopCacheHooks{}
}
