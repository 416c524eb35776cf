package sync

import (
	stdsync "sync"
	"time"
)

// Clock is the injected time source. Seconds returns the current playback
// position in seconds.
//
// A Clock may additionally implement [Sampler] to force a fresh read before
// each poll, and io.Closer to release player resources when the engine is
// destroyed.
type Clock interface {
	Seconds() float64
}

// Sampler is an optional Clock extension. Sample is called immediately
// before Seconds on every tick, for sources that buffer their readings.
type Sampler interface {
	Sample()
}

// PlaybackClock is a wall-clock time source for local playback: it reports
// the offset plus the time elapsed while running. Used by the CLI player,
// where no external video element exists.
type PlaybackClock struct {
	mu     stdsync.Mutex
	start  time.Time
	offset float64
	paused bool
}

// NewPlaybackClock creates a running playback clock starting at offset seconds.
func NewPlaybackClock(offset float64) *PlaybackClock {
	return &PlaybackClock{start: time.Now(), offset: offset}
}

// Seconds returns the playback position in seconds.
func (c *PlaybackClock) Seconds() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position()
}

// Pause freezes the reported position.
func (c *PlaybackClock) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.paused {
		return
	}
	c.offset = c.position()
	c.paused = true
}

// Resume continues advancing from the frozen position.
func (c *PlaybackClock) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.paused {
		return
	}
	c.start = time.Now()
	c.paused = false
}

// SeekTo jumps the position to t seconds, preserving the paused state.
func (c *PlaybackClock) SeekTo(t float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t < 0 {
		t = 0
	}
	c.offset = t
	c.start = time.Now()
}

func (c *PlaybackClock) position() float64 {
	if c.paused {
		return c.offset
	}
	return c.offset + time.Since(c.start).Seconds()
}
