package game

import (
	"math/rand"

	"github.com/vovakirdan/tumble/internal/core"
	"github.com/vovakirdan/tumble/internal/sequencer"
)

// Autopilot plays a session without a human: it waits for the cube to
// settle, then turns gravity a random quarter, and presses the advance
// button once a level is done. The same seed always produces the same run.
type Autopilot struct {
	rng      *rand.Rand
	last     sequencer.Phase
	cooldown int
	minWait  int
	maxWait  int
}

// NewAutopilot creates an autopilot for a session running at tickRate.
func NewAutopilot(seed int64, tickRate int) *Autopilot {
	if tickRate <= 0 {
		tickRate = 60
	}
	return &Autopilot{
		rng:     rand.New(rand.NewSource(seed)),
		minWait: tickRate / 2,
		maxWait: tickRate * 2,
	}
}

// Next returns the input for the session's next frame.
func (a *Autopilot) Next(s *Session) core.InputFrame {
	in := core.NewInputFrame()
	if s.finished {
		in.Set(core.ActionQuit)
		return in
	}
	if s.paused {
		in.Set(core.ActionPause)
		return in
	}

	phase := s.Phase()
	if phase == sequencer.Playing && a.last != sequencer.Playing {
		// Let the cube fall under the starting gravity first.
		a.cooldown = a.maxWait
	}
	a.last = phase

	switch phase {
	case sequencer.OutroFading:
		if s.button.Interactive() && !s.button.Fading() {
			in.Set(core.ActionConfirm)
		}
	case sequencer.Playing:
		if a.cooldown > 0 {
			a.cooldown--
			return in
		}
		if s.world.CubeVelocity().Length() > 1 {
			return in
		}
		if a.rng.Intn(2) == 0 {
			in.Set(core.ActionRotateCW)
		} else {
			in.Set(core.ActionRotateCCW)
		}
		a.cooldown = a.minWait + a.rng.Intn(a.maxWait-a.minWait+1)
	}
	return in
}
