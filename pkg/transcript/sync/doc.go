// Package sync keeps an active transcript line and playback time in step
// with an external player clock.
//
// Embedded players report time too infrequently and too inaccurately for
// sub-second caption highlighting, so the engine samples an injected [Clock]
// on a fixed-rate poll (16 ms by default) instead of relying on
// player-fired events. Each tick adds a 300 ms lookahead to the sampled
// time to compensate for the player's reporting latency, then binary-searches
// the precomputed segment start boundaries for the active index.
//
// # Lifecycle
//
// An engine starts Paused. [Engine.Play] starts the poll, [Engine.Pause]
// stops it and runs one final synchronous tick so the caller sees the exact
// pause position, and [Engine.Destroy] tears everything down; after Destroy
// every call is a no-op. [Engine.SeekTo] recomputes the active segment
// synchronously without the lookahead, so a manual seek never shows the
// lookahead's visual lag.
//
// Callbacks are invoked synchronously from the poll tick or from the call
// that triggered them, never under the engine's lock, so a callback may
// safely call Destroy. The owner must call Destroy on teardown; a leaked
// poller is the primary resource-leak risk of this package.
package sync
