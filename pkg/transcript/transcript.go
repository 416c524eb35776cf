// Package transcript defines timed transcript segments for video playback.
//
// A transcript is an immutable, sorted list of segments loaded once per
// video. Segments are non-overlapping and non-decreasing by construction of
// the input; [Transcript.Validate] checks those invariants on load so the
// sync engine can binary-search boundaries without re-checking per tick.
package transcript

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mlindner/coursemap/pkg/errors"
)

// Segment is one timed line of a video transcript. Times are in seconds.
type Segment struct {
	StartTime float64 `json:"start_time" bson:"start_time"`
	EndTime   float64 `json:"end_time" bson:"end_time"`
	Text      string  `json:"text" bson:"text"`
}

// UnmarshalJSON accepts both snake_case and camelCase time keys; the
// surrounding system emits both.
func (s *Segment) UnmarshalJSON(data []byte) error {
	type alias Segment
	aux := struct {
		*alias
		StartCamel *float64 `json:"startTime"`
		EndCamel   *float64 `json:"endTime"`
	}{alias: (*alias)(s)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.StartCamel != nil {
		s.StartTime = *aux.StartCamel
	}
	if aux.EndCamel != nil {
		s.EndTime = *aux.EndCamel
	}
	return nil
}

// Duration returns the segment length in seconds.
func (s Segment) Duration() float64 { return s.EndTime - s.StartTime }

// Contains reports whether t falls inside the segment, boundaries included.
func (s Segment) Contains(t float64) bool {
	return s.StartTime <= t && t <= s.EndTime
}

// Transcript is the stored form of a video transcript.
type Transcript struct {
	ID       string    `json:"id,omitempty" bson:"id,omitempty"`
	VideoID  string    `json:"video_id,omitempty" bson:"video_id,omitempty"`
	Language string    `json:"language,omitempty" bson:"language,omitempty"`
	Segments []Segment `json:"segments" bson:"segments"`
}

// Validate checks the segment invariants: start ≤ end per segment, and
// segments sorted without overlap. Returns a structured INVALID_SEGMENT
// error naming the first offending index.
func (t *Transcript) Validate() error {
	for i, s := range t.Segments {
		if s.EndTime < s.StartTime {
			return errors.New(errors.ErrCodeInvalidSegment, "segment %d ends (%.3f) before it starts (%.3f)", i, s.EndTime, s.StartTime)
		}
		if i > 0 && s.StartTime < t.Segments[i-1].EndTime {
			return errors.New(errors.ErrCodeInvalidSegment, "segment %d starts (%.3f) before segment %d ends (%.3f)", i, s.StartTime, i-1, t.Segments[i-1].EndTime)
		}
	}
	return nil
}

// Unmarshal deserializes JSON bytes to a Transcript. A bare segment list is
// accepted as well as the wrapped `{"segments": [...]}` form.
func Unmarshal(data []byte) (Transcript, error) {
	var t Transcript
	if err := json.Unmarshal(data, &t); err == nil && t.Segments != nil {
		return t, nil
	}

	var segs []Segment
	if err := json.Unmarshal(data, &segs); err != nil {
		return Transcript{}, fmt.Errorf("unmarshal transcript: %w", err)
	}
	return Transcript{Segments: segs}, nil
}

// ReadFile loads a transcript from disk, decoding by extension: .vtt is
// parsed as WebVTT, anything else as JSON. The transcript is validated.
func ReadFile(path string) (Transcript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Transcript{}, fmt.Errorf("read %s: %w", path, err)
	}

	var t Transcript
	if isVTT(path, data) {
		segs, err := ParseVTT(data)
		if err != nil {
			return Transcript{}, err
		}
		t = Transcript{Segments: segs}
	} else {
		t, err = Unmarshal(data)
		if err != nil {
			return Transcript{}, err
		}
	}

	if err := t.Validate(); err != nil {
		return Transcript{}, err
	}
	return t, nil
}
