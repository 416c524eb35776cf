package sync

import (
	"testing"
	"time"
)

func TestPlaybackClockStartsAtOffset(t *testing.T) {
	c := NewPlaybackClock(3)
	if got := c.Seconds(); got < 3 {
		t.Errorf("Seconds() = %v, want >= 3", got)
	}
}

func TestPlaybackClockPauseFreezes(t *testing.T) {
	c := NewPlaybackClock(0)
	c.Pause()

	first := c.Seconds()
	time.Sleep(5 * time.Millisecond)
	second := c.Seconds()

	if first != second {
		t.Errorf("paused clock advanced: %v -> %v", first, second)
	}
}

func TestPlaybackClockResumeAdvances(t *testing.T) {
	c := NewPlaybackClock(10)
	c.Pause()
	c.Resume()

	time.Sleep(5 * time.Millisecond)
	if got := c.Seconds(); got <= 10 {
		t.Errorf("resumed clock did not advance: %v", got)
	}
}

func TestPlaybackClockSeek(t *testing.T) {
	c := NewPlaybackClock(0)
	c.Pause()

	c.SeekTo(42)
	if got := c.Seconds(); got != 42 {
		t.Errorf("Seconds() after seek = %v, want 42", got)
	}

	c.SeekTo(-5)
	if got := c.Seconds(); got != 0 {
		t.Errorf("negative seek should clamp to 0, got %v", got)
	}
}
