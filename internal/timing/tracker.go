package timing

import (
	"fmt"
	"sort"
	"time"
)

// Tracker keeps one stopwatch per level ordinal.
// At most one stopwatch runs at a time.
type Tracker struct {
	clock  Clock
	timers map[int]*Stopwatch
}

// NewTracker creates a tracker whose stopwatches read from clock.
// A nil clock uses the system clock.
func NewTracker(clock Clock) *Tracker {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Tracker{
		clock:  clock,
		timers: make(map[int]*Stopwatch),
	}
}

// StartTimer creates and starts a fresh stopwatch for level, replacing any
// previous one for the same ordinal. Other running stopwatches are stopped.
func (t *Tracker) StartTimer(level int) {
	for ordinal, sw := range t.timers {
		if ordinal != level {
			sw.Stop()
		}
	}
	sw := NewStopwatch(t.clock)
	sw.Start()
	t.timers[level] = sw
}

// StopTimer stops the stopwatch for level if one exists.
func (t *Tracker) StopTimer(level int) {
	if sw, ok := t.timers[level]; ok {
		sw.Stop()
	}
}

// Pause stops the stopwatch for level without discarding its time.
func (t *Tracker) Pause(level int) {
	t.StopTimer(level)
}

// Resume restarts a paused stopwatch for level, keeping its accumulated time.
// Unknown ordinals are ignored.
func (t *Tracker) Resume(level int) {
	sw, ok := t.timers[level]
	if !ok {
		return
	}
	for ordinal, other := range t.timers {
		if ordinal != level {
			other.Stop()
		}
	}
	sw.Start()
}

// Reset stops and discards all stopwatches.
func (t *Tracker) Reset() {
	for _, sw := range t.timers {
		sw.Stop()
	}
	t.timers = make(map[int]*Stopwatch)
}

// TotalElapsed sums the elapsed time of every tracked level.
func (t *Tracker) TotalElapsed() time.Duration {
	var total time.Duration
	for _, sw := range t.timers {
		total += sw.Elapsed()
	}
	return total
}

// Elapsed returns the time recorded for level.
// The second result is false when no timer was ever started for it.
func (t *Tracker) Elapsed(level int) (time.Duration, bool) {
	sw, ok := t.timers[level]
	if !ok {
		return 0, false
	}
	return sw.Elapsed(), true
}

// Running reports whether the stopwatch for level is accumulating.
func (t *Tracker) Running(level int) bool {
	sw, ok := t.timers[level]
	return ok && sw.Running()
}

// Levels returns the tracked ordinals in ascending order.
func (t *Tracker) Levels() []int {
	levels := make([]int, 0, len(t.timers))
	for ordinal := range t.timers {
		levels = append(levels, ordinal)
	}
	sort.Ints(levels)
	return levels
}

// FormatClock renders a duration as hh:mm:ss, truncating fractions of a second.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}
