package timeline

import (
	"errors"
	"fmt"
)

// IdleLabel labels segments during which no process runs.
const IdleLabel = "Idle"

// ErrInvalidTimeline is returned by Validate.
var ErrInvalidTimeline = errors.New("timeline: invalid")

// Segment is a labelled half-open interval [Start, Finish) of simulated time.
type Segment struct {
	Label  string `json:"label" yaml:"label"`
	Start  int    `json:"start" yaml:"start"`
	Finish int    `json:"finish" yaml:"finish"`
}

// Duration returns Finish - Start.
func (s Segment) Duration() int {
	return s.Finish - s.Start
}

// IsIdle reports whether the segment is an idle gap.
func (s Segment) IsIdle() bool {
	return s.Label == IdleLabel
}

// Timeline is an ordered gap-free sequence of segments starting at zero.
type Timeline struct {
	Segments       []Segment `json:"segments" yaml:"segments"`
	KeepZeroLength bool      `json:"keepZeroLength,omitempty" yaml:"keepZeroLength,omitempty"`
}

// New creates an empty timeline. With keepZeroLength a process that
// executes for zero time still gets a zero-width segment.
func New(keepZeroLength bool) *Timeline {
	return &Timeline{Segments: []Segment{}, KeepZeroLength: keepZeroLength}
}

// Idle appends an idle gap. Empty gaps are never recorded.
func (t *Timeline) Idle(start, finish int) {
	if finish <= start {
		return
	}
	t.Segments = append(t.Segments, Segment{Label: IdleLabel, Start: start, Finish: finish})
}

// Run appends an execution segment for label.
func (t *Timeline) Run(label string, start, finish int) {
	if finish == start && !t.KeepZeroLength {
		return
	}
	t.Segments = append(t.Segments, Segment{Label: label, Start: start, Finish: finish})
}

// Len returns the number of segments.
func (t *Timeline) Len() int {
	return len(t.Segments)
}

// Empty reports whether the timeline has no segments.
func (t *Timeline) Empty() bool {
	return len(t.Segments) == 0
}

// End returns the finish time of the last segment or 0.
func (t *Timeline) End() int {
	if len(t.Segments) == 0 {
		return 0
	}
	return t.Segments[len(t.Segments)-1].Finish
}

// IdleTime returns total idle time.
func (t *Timeline) IdleTime() int {
	total := 0
	for _, s := range t.Segments {
		if s.IsIdle() {
			total += s.Duration()
		}
	}
	return total
}

// Busy returns the total execution time recorded for label.
func (t *Timeline) Busy(label string) int {
	total := 0
	for _, s := range t.Segments {
		if s.Label == label {
			total += s.Duration()
		}
	}
	return total
}

// Labels returns labels in segment order, idle gaps included.
func (t *Timeline) Labels() []string {
	result := make([]string, len(t.Segments))
	for i, s := range t.Segments {
		result[i] = s.Label
	}
	return result
}

// Validate checks that segments start at zero, are contiguous and do not overlap.
func (t *Timeline) Validate() error {
	expected := 0
	for i, s := range t.Segments {
		if s.Start != expected {
			return fmt.Errorf("%w: segment %d (%s) starts at %d, expected %d", ErrInvalidTimeline, i, s.Label, s.Start, expected)
		}
		switch {
		case s.Finish < s.Start:
			return fmt.Errorf("%w: segment %d (%s) finishes before it starts", ErrInvalidTimeline, i, s.Label)
		case s.Finish == s.Start && (s.IsIdle() || !t.KeepZeroLength):
			return fmt.Errorf("%w: segment %d (%s) has zero length", ErrInvalidTimeline, i, s.Label)
		}
		expected = s.Finish
	}
	return nil
}
