// Package fade provides opacity transitions for on-screen text and buttons.
//
// Fades advance explicitly once per tick; there are no background timers.
// A fade completes on the tick its opacity reaches the requested target and
// reports that exactly once per request.
package fade

import "github.com/vovakirdan/tumble/internal/core"

// epsilon is the distance at which a fade snaps to its target.
const epsilon = 0.001

// Fade interpolates an opacity in [0,1] toward a target.
type Fade struct {
	value    float64
	target   float64
	duration float64
	progress float64
	active   bool
}

// NewFade creates a fade holding the given opacity.
func NewFade(value float64) Fade {
	v := core.ClampF(value, 0, 1)
	return Fade{value: v, target: v}
}

// To starts a transition toward target over duration seconds.
// A new request replaces any transition in flight. Requesting the opacity
// the fade already holds finishes immediately without reporting completion.
func (f *Fade) To(target, duration float64) {
	target = core.ClampF(target, 0, 1)
	f.target = target
	f.progress = 0
	f.duration = duration
	f.active = f.value != target
}

// Advance steps the fade by dt seconds. It returns true on the tick the fade
// reaches its target.
func (f *Fade) Advance(dt float64) bool {
	if !f.active {
		return false
	}
	if f.duration <= 0 {
		f.progress = 1
	} else {
		f.progress += dt / f.duration
	}
	f.value = core.Lerp(f.value, f.target, f.progress)

	diff := f.value - f.target
	if diff < 0 {
		diff = -diff
	}
	if diff < epsilon || f.progress >= 1 {
		f.value = f.target
		f.active = false
		return true
	}
	return false
}

// Value returns the current opacity.
func (f *Fade) Value() float64 {
	return f.value
}

// Target returns the opacity the fade is heading toward.
func (f *Fade) Target() float64 {
	return f.target
}

// Active reports whether a transition is in flight.
func (f *Fade) Active() bool {
	return f.active
}
