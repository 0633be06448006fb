// Package score tracks progress toward completing a level.
package score

import "github.com/vovakirdan/tumble/internal/event"

// TargetCounter reports how many hittable targets the active level holds.
// The physics world implements it; the count becomes the level's target score.
type TargetCounter interface {
	HittableTargets() int
}

// Tracker holds the current and target score for a level.
// It is re-initialized at the start of every level.
type Tracker struct {
	score  int
	target int

	// OnScoreChanged fires with the new score after every change.
	OnScoreChanged event.Signal[int]
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Initialize resets the score and recomputes the target from counter.
// A nil counter yields a target of zero.
func (t *Tracker) Initialize(counter TargetCounter) {
	t.score = 0
	t.target = 0
	if counter != nil {
		t.target = counter.HittableTargets()
	}
}

// IncrementScore adds one to the score and notifies subscribers.
func (t *Tracker) IncrementScore() {
	t.SetScore(t.score + 1)
}

// SetScore sets the score and synchronously notifies subscribers with the
// new value.
func (t *Tracker) SetScore(n int) {
	t.score = n
	t.OnScoreChanged.Emit(n)
}

// Score returns the current score.
func (t *Tracker) Score() int {
	return t.score
}

// Target returns the score needed to complete the level.
func (t *Tracker) Target() int {
	return t.target
}

// Completed reports whether the score has reached the target.
func (t *Tracker) Completed() bool {
	return t.score >= t.target
}
