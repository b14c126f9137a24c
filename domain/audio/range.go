package audio

import (
	"fmt"
	"strconv"
	"strings"
)

// Range is a span of a recording in seconds
type Range struct {
	Start float64
	End   float64
}

// songRanges holds the song boundaries of the recording, in playback order
var songRanges = [...]Range{
	{Start: 0, End: 215},
	{Start: 288, End: 524},
	{Start: 546, End: 731},
	{Start: 755, End: 995},
	{Start: 1054, End: 1272},
}

// SongCount is the number of clips produced per input file
const SongCount = len(songRanges)

// SongRanges returns a copy of the fixed range table
func SongRanges() [SongCount]Range {
	return songRanges
}

// Duration returns the length of the range in seconds
func (r Range) Duration() float64 {
	return r.End - r.Start
}

// Minutes returns the length of the range in minutes
func (r Range) Minutes() float64 {
	return r.Duration() / 60.0
}

// Validate checks that the range is non-negative and not empty
func (r Range) Validate() error {
	if r.Start < 0 {
		return fmt.Errorf("range start %s must not be negative", FormatSeconds(r.Start))
	}
	if r.End <= r.Start {
		return fmt.Errorf("range end %s must be after start %s", FormatSeconds(r.End), FormatSeconds(r.Start))
	}
	return nil
}

// String returns the range as start-end in seconds
func (r Range) String() string {
	return FormatSeconds(r.Start) + "-" + FormatSeconds(r.End)
}

// ValidateRanges checks every range and that the ranges are in order without overlapping
func ValidateRanges(ranges []Range) error {
	for i, r := range ranges {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("range %d: %w", i+1, err)
		}
		if i > 0 && r.Start < ranges[i-1].End {
			return fmt.Errorf("range %d (%s) overlaps range %d (%s)", i+1, r, i, ranges[i-1])
		}
	}
	return nil
}

// FormatSeconds renders a second count without superfluous digits, e.g. 546 or 12.5
func FormatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatMinutes renders a minute count as a decimal that always carries a fraction, e.g. 4.0
func FormatMinutes(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
