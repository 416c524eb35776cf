package sync

import (
	"io"
	"math"
	"sort"
	stdsync "sync"
	"sync/atomic"
	"time"

	"github.com/mlindner/coursemap/pkg/errors"
	"github.com/mlindner/coursemap/pkg/transcript"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// DefaultInterval is the poll cadence (~60 Hz).
	DefaultInterval = 16 * time.Millisecond

	// DefaultLookahead compensates for the player's time-reporting latency
	// during normal playback. SeekTo bypasses it.
	DefaultLookahead = 300 * time.Millisecond

	// DefaultScrollDebounce is the minimum spacing between OnScroll
	// invocations. It throttles only the scroll side effect; OnActiveChange
	// always fires immediately.
	DefaultScrollDebounce = 300 * time.Millisecond
)

// NoActiveSegment is the active index when no segment has started yet.
const NoActiveSegment = -1

// =============================================================================
// State Machine
// =============================================================================

// State is the engine lifecycle state.
type State int

const (
	// Paused is the initial state; no poll is running.
	Paused State = iota
	// Playing means the fixed-rate poll is sampling the clock.
	Playing
	// Destroyed is terminal; every further call is a no-op.
	Destroyed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Paused:
		return "paused"
	case Playing:
		return "playing"
	case Destroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// =============================================================================
// Callbacks and Options
// =============================================================================

// Callbacks receive sync events. All callbacks are optional and are invoked
// synchronously, outside the engine's lock.
type Callbacks struct {
	// OnActiveChange fires immediately whenever the active segment index
	// changes. NoActiveSegment means no segment is active.
	OnActiveChange func(index int)

	// OnTimeUpdate fires on every effective tick and seek with the raw
	// sampled time in seconds.
	OnTimeUpdate func(t float64)

	// OnScroll fires on active-segment changes, debounced to at most one
	// invocation per scroll-debounce window. Intended for scroll-into-view
	// side effects that would jitter at full change rate.
	OnScroll func(index int)
}

// Option configures an Engine at construction.
type Option func(*Engine)

// WithInterval overrides the poll cadence. Values ≤0 keep the default.
func WithInterval(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.interval = d
		}
	}
}

// WithLookahead overrides the playback lookahead offset.
func WithLookahead(d time.Duration) Option {
	return func(e *Engine) {
		if d >= 0 {
			e.lookahead = d.Seconds()
		}
	}
}

// WithScrollDebounce overrides the OnScroll debounce window.
func WithScrollDebounce(d time.Duration) Option {
	return func(e *Engine) {
		if d >= 0 {
			e.scrollDebounce = d
		}
	}
}

// =============================================================================
// Engine
// =============================================================================

// Engine synchronizes an active transcript segment with a polled clock.
// One engine instance serves one playback session; the owning view must
// call Destroy on teardown.
type Engine struct {
	mu stdsync.Mutex

	clock    Clock
	segments []transcript.Segment
	starts   []float64 // segment start boundaries, for binary search
	ends     []float64 // segment end boundaries, for containment checks

	cb             Callbacks
	interval       time.Duration
	lookahead      float64 // seconds
	scrollDebounce time.Duration

	state      State
	active     int
	lastTime   float64
	lastScroll time.Time

	stop chan struct{}
	done chan struct{}

	// pollers counts live poll goroutines; it exists so pause/play cycling
	// can be asserted leak-free.
	pollers int32
}

// NewEngine creates a sync engine over a sorted, non-overlapping segment
// list. The clock and the segment slice must be non-nil (an empty slice is
// fine); violating that is a caller programming error and fails fast.
//
// The engine starts Paused with no active segment.
func NewEngine(clock Clock, segments []transcript.Segment, cb Callbacks, opts ...Option) (*Engine, error) {
	if clock == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "sync engine requires a time source")
	}
	if segments == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "sync engine requires a segment slice")
	}

	e := &Engine{
		clock:          clock,
		segments:       segments,
		starts:         make([]float64, len(segments)),
		ends:           make([]float64, len(segments)),
		cb:             cb,
		interval:       DefaultInterval,
		lookahead:      DefaultLookahead.Seconds(),
		scrollDebounce: DefaultScrollDebounce,
		state:          Paused,
		active:         NoActiveSegment,
	}
	for i, s := range segments {
		e.starts[i] = s.StartTime
		e.ends[i] = s.EndTime
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// ActiveIndex returns the current active segment index, or NoActiveSegment.
func (e *Engine) ActiveIndex() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active
}

// Time returns the last sampled playback time in seconds.
func (e *Engine) Time() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastTime
}

// Play transitions Paused → Playing and starts the fixed-rate poll.
// No-op when already Playing or Destroyed.
func (e *Engine) Play() {
	e.mu.Lock()
	if e.state != Paused {
		e.mu.Unlock()
		return
	}
	e.state = Playing
	stop := make(chan struct{})
	done := make(chan struct{})
	e.stop, e.done = stop, done
	atomic.AddInt32(&e.pollers, 1)
	e.mu.Unlock()

	go e.poll(stop, done)
}

// Pause transitions Playing → Paused, stops the poll and waits for it to
// exit, then runs one final synchronous tick so the caller reflects the
// exact pause position. No-op when already Paused or Destroyed.
func (e *Engine) Pause() {
	e.mu.Lock()
	if e.state != Playing {
		e.mu.Unlock()
		return
	}
	e.state = Paused
	stop, done := e.stop, e.done
	e.stop, e.done = nil, nil
	e.mu.Unlock()

	close(stop)
	<-done

	e.tick()
}

// SeekTo recomputes the active segment for t synchronously, using exact
// containment with no lookahead, and fires callbacks if anything changed.
// Callable while Paused or Playing; no-op after Destroy or for a
// non-finite time.
func (e *Engine) SeekTo(t float64) {
	if !finite(t) {
		return
	}

	e.mu.Lock()
	if e.state == Destroyed {
		e.mu.Unlock()
		return
	}
	e.lastTime = t
	idx := activeIndex(e.starts, t)
	changed := idx != e.active
	e.active = idx
	cb := e.cb
	e.mu.Unlock()

	if changed && cb.OnActiveChange != nil {
		cb.OnActiveChange(idx)
	}
	if cb.OnTimeUpdate != nil {
		cb.OnTimeUpdate(t)
	}
}

// Destroy tears the engine down: the poll is signalled to stop, the clock
// is closed when it implements io.Closer, and every further call becomes a
// no-op. Idempotent, and safe to call from within one of the engine's own
// callbacks.
func (e *Engine) Destroy() {
	e.mu.Lock()
	if e.state == Destroyed {
		e.mu.Unlock()
		return
	}
	e.state = Destroyed
	stop := e.stop
	e.stop, e.done = nil, nil
	e.mu.Unlock()

	// Signal without joining: Destroy may run on the poll goroutine itself
	// (from inside a callback), where waiting for poll exit would deadlock.
	if stop != nil {
		close(stop)
	}
	if c, ok := e.clock.(io.Closer); ok {
		c.Close()
	}
}

// =============================================================================
// Polling
// =============================================================================

func (e *Engine) poll(stop, done chan struct{}) {
	defer close(done)
	defer atomic.AddInt32(&e.pollers, -1)

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			e.tick()
		}
	}
}

// tick samples the clock and updates the active segment using the playback
// lookahead. A non-finite or non-positive reading makes the tick a no-op:
// players report zero before playback truly starts, and surfacing that
// would flash segment 0 active.
func (e *Engine) tick() {
	if s, ok := e.clock.(Sampler); ok {
		s.Sample()
	}
	t := e.clock.Seconds()
	if !finite(t) || t <= 0 {
		return
	}

	e.mu.Lock()
	if e.state == Destroyed {
		e.mu.Unlock()
		return
	}
	e.lastTime = t
	idx := activeIndex(e.starts, t+e.lookahead)
	changed := idx != e.active
	e.active = idx

	fireScroll := false
	if changed && e.cb.OnScroll != nil {
		now := time.Now()
		if e.lastScroll.IsZero() || now.Sub(e.lastScroll) >= e.scrollDebounce {
			e.lastScroll = now
			fireScroll = true
		}
	}
	cb := e.cb
	e.mu.Unlock()

	if changed && cb.OnActiveChange != nil {
		cb.OnActiveChange(idx)
	}
	if cb.OnTimeUpdate != nil {
		cb.OnTimeUpdate(t)
	}
	if fireScroll {
		cb.OnScroll(idx)
	}
}

// =============================================================================
// Segment Lookup
// =============================================================================

// activeIndex binary-searches the start boundaries for the segment active
// at time q. When q falls in a gap between segments, the most recently
// started (and therefore most recently ended) segment is returned so a line
// stays highlighted through silent gaps. Before the first segment the
// result is NoActiveSegment.
//
// O(log n) over a primitive float64 slice, cheap enough for a 60 Hz tick
// across thousands of segments.
func activeIndex(starts []float64, q float64) int {
	if len(starts) == 0 {
		return NoActiveSegment
	}
	i := sort.SearchFloat64s(starts, q)
	if i < len(starts) && starts[i] == q {
		return i
	}
	return i - 1
}

func finite(t float64) bool {
	return !math.IsNaN(t) && !math.IsInf(t, 0)
}
