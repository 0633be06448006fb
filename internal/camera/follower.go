// Package camera keeps the view centred on the cube.
package camera

import "github.com/jakecoffman/cp"

// Positioner is anything with a world position the camera can follow.
type Positioner interface {
	Position() cp.Vector
}

// Follower eases the camera toward a target with an offset.
//
// LateUpdate captures where the target ended up after physics ran; the next
// Update moves toward that captured point. The follower starts disabled and
// is switched on by the level sequencer once the intro has faded out.
type Follower struct {
	speed    float64
	offset   cp.Vector
	target   Positioner
	position cp.Vector
	goal     cp.Vector
	enabled  bool
}

// NewFollower creates a disabled follower. Speeds below 1 are raised to 1.
func NewFollower(target Positioner, speed float64, offset cp.Vector) *Follower {
	f := &Follower{target: target, offset: offset}
	f.SetSpeed(speed)
	if target != nil {
		f.position = target.Position().Add(offset)
		f.goal = f.position
	}
	return f
}

// SetSpeed sets the follow speed, clamped to a minimum of 1.
func (f *Follower) SetSpeed(speed float64) {
	if speed < 1 {
		speed = 1
	}
	f.speed = speed
}

// Speed returns the follow speed.
func (f *Follower) Speed() float64 {
	return f.speed
}

// Offset returns the offset added to the target position.
func (f *Follower) Offset() cp.Vector {
	return f.offset
}

// SetTarget changes what the camera follows.
func (f *Follower) SetTarget(target Positioner) {
	f.target = target
}

// SetEnabled turns following on or off.
func (f *Follower) SetEnabled(enabled bool) {
	f.enabled = enabled
}

// Enabled reports whether the camera is following.
func (f *Follower) Enabled() bool {
	return f.enabled
}

// Position returns the camera position.
func (f *Follower) Position() cp.Vector {
	return f.position
}

// Update moves the camera toward the last captured goal.
func (f *Follower) Update(dt float64) {
	if !f.enabled {
		return
	}
	t := dt * f.speed
	if t > 1 {
		t = 1
	}
	f.position = f.position.Add(f.goal.Sub(f.position).Mult(t))
}

// LateUpdate captures the target position plus offset as the new goal.
func (f *Follower) LateUpdate() {
	if f.target == nil {
		return
	}
	f.goal = f.target.Position().Add(f.offset)
}
