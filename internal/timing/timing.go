// Package timing measures the phases of a single API round-trip so they can
// be reported in debug logs.
package timing

import (
	"fmt"
	"strings"
	"time"
)

// Timer records named checkpoints relative to its start
type Timer struct {
	now   func() time.Time
	start time.Time
	marks map[string]time.Duration
	order []string
}

// NewTimer creates a timer started at the current time
func NewTimer() *Timer {
	return newTimer(time.Now)
}

func newTimer(now func() time.Time) *Timer {
	return &Timer{
		now:   now,
		start: now(),
		marks: make(map[string]time.Duration),
	}
}

// Mark records a checkpoint with a label and returns the time since start.
// Marking the same label twice keeps the latest value.
func (t *Timer) Mark(label string) time.Duration {
	elapsed := t.now().Sub(t.start)
	if _, seen := t.marks[label]; !seen {
		t.order = append(t.order, label)
	}
	t.marks[label] = elapsed
	return elapsed
}

// Elapsed returns total elapsed time since the timer started
func (t *Timer) Elapsed() time.Duration {
	return t.now().Sub(t.start)
}

// Summary formats the total and every mark in milliseconds,
// e.g. "total=12.500ms (headers=10.000ms, body=12.000ms)".
func (t *Timer) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "total=%s", ms(t.Elapsed()))

	if len(t.order) > 0 {
		parts := make([]string, 0, len(t.order))
		for _, label := range t.order {
			parts = append(parts, fmt.Sprintf("%s=%s", label, ms(t.marks[label])))
		}
		fmt.Fprintf(&b, " (%s)", strings.Join(parts, ", "))
	}

	return b.String()
}

func ms(d time.Duration) string {
	return fmt.Sprintf("%.3fms", float64(d.Microseconds())/1000.0)
}
