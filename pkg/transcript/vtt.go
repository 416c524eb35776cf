package transcript

import (
	"bufio"
	"bytes"
	"strconv"
	"strings"

	"github.com/mlindner/coursemap/pkg/errors"
)

// isVTT sniffs whether a file should be parsed as WebVTT, by extension or
// by the mandatory WEBVTT header.
func isVTT(path string, data []byte) bool {
	if strings.HasSuffix(strings.ToLower(path), ".vtt") {
		return true
	}
	return bytes.HasPrefix(bytes.TrimLeft(data, "\ufeff\n\r\t "), []byte("WEBVTT"))
}

// ParseVTT parses WebVTT caption data into transcript segments.
//
// Cue identifiers, NOTE/STYLE blocks and cue settings are skipped; only the
// timing line and the text payload are kept. Multi-line cue text is joined
// with newlines.
func ParseVTT(data []byte) ([]Segment, error) {
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 64*1024), 1024*1024)

	var segs []Segment
	var cur *Segment
	lineNo := 0

	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r")
		if lineNo == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}

		switch {
		case strings.Contains(line, "-->"):
			start, end, err := parseCueTiming(line)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidTranscript, err, "line %d", lineNo)
			}
			segs = append(segs, Segment{StartTime: start, EndTime: end})
			cur = &segs[len(segs)-1]

		case strings.TrimSpace(line) == "":
			cur = nil

		case cur != nil:
			if cur.Text != "" {
				cur.Text += "\n"
			}
			cur.Text += line
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidTranscript, err, "scan vtt")
	}
	return segs, nil
}

// parseCueTiming parses "00:00:01.000 --> 00:00:05.000 [settings]".
func parseCueTiming(line string) (start, end float64, err error) {
	parts := strings.SplitN(line, "-->", 2)
	start, err = parseTimestamp(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, err
	}

	// Cue settings (position, align, ...) follow the end timestamp.
	endField := strings.Fields(strings.TrimSpace(parts[1]))
	if len(endField) == 0 {
		return 0, 0, errors.New(errors.ErrCodeInvalidTranscript, "cue timing missing end timestamp")
	}
	end, err = parseTimestamp(endField[0])
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// parseTimestamp parses "hh:mm:ss.mmm" or "mm:ss.mmm" into seconds.
func parseTimestamp(ts string) (float64, error) {
	parts := strings.Split(ts, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, errors.New(errors.ErrCodeInvalidTranscript, "malformed timestamp %q", ts)
	}

	var total float64
	for _, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil || v < 0 {
			return 0, errors.New(errors.ErrCodeInvalidTranscript, "malformed timestamp %q", ts)
		}
		total = total*60 + v
	}
	return total, nil
}
