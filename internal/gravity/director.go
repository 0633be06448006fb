// Package gravity rotates the arena's gravity in quarter turns.
package gravity

import (
	"math"

	"github.com/jakecoffman/cp"
)

// DefaultAffectSpeed is how quickly gravity and the view swing to a new
// orientation when no setting is given.
const DefaultAffectSpeed = 4.0

// snapAngle is the angular distance, in radians, below which an
// interpolation lands exactly on its target.
const snapAngle = 1e-4

// Settings is shared by the director of every level.
type Settings struct {
	Default     cp.Vector // gravity with no rotation applied
	AffectSpeed float64   // interpolation rate per second, at least 1
}

// DefaultSettings returns downward gravity at the default rate.
func DefaultSettings() Settings {
	return Settings{
		Default:     cp.Vector{X: 0, Y: 250},
		AffectSpeed: DefaultAffectSpeed,
	}
}

// Normalize clamps AffectSpeed to at least 1 and reports whether it changed.
func (s *Settings) Normalize() bool {
	if s.AffectSpeed < 1 {
		s.AffectSpeed = 1
		return true
	}
	return false
}

// Space is the physics side the director drives.
type Space interface {
	SetGravity(g cp.Vector)
	Freeze()
	Unfreeze()
}

// Director owns the gravity direction and the matching view rotation.
//
// Targets are stored as a count of clockwise quarter turns so that any
// sequence of rotations returning to the start yields exactly the default
// gravity. Screen coordinates have y pointing down.
type Director struct {
	settings Settings
	space    Space

	quarter   int
	gravity   cp.Vector
	viewAngle float64
	enabled   bool
}

// NewDirector creates a disabled director. The space receives the default
// gravity and its body is frozen until the director is enabled.
func NewDirector(settings Settings, space Space) *Director {
	settings.Normalize()
	d := &Director{
		settings: settings,
		space:    space,
		gravity:  settings.Default,
	}
	if space != nil {
		space.SetGravity(d.gravity)
	}
	d.SetEnabled(false)
	return d
}

// RotateGravity turns the target gravity and view by a quarter turn.
// It is ignored while the director is disabled.
func (d *Director) RotateGravity(clockwise bool) {
	if !d.enabled {
		return
	}
	if clockwise {
		d.quarter++
	} else {
		d.quarter--
	}
	// Keep the turn count in [0,4) and shift the current view angle by a full
	// turn alongside it so the displayed orientation does not jump.
	if d.quarter >= 4 {
		d.quarter -= 4
		d.viewAngle -= 2 * math.Pi
	} else if d.quarter < 0 {
		d.quarter += 4
		d.viewAngle += 2 * math.Pi
	}
}

// FixedUpdate swings the current gravity toward its target and applies it
// to the space. Nothing happens while disabled.
func (d *Director) FixedUpdate(dt float64) {
	if !d.enabled {
		return
	}
	d.gravity = slerp(d.gravity, d.TargetGravity(), d.factor(dt))
	if d.space != nil {
		d.space.SetGravity(d.gravity)
	}
}

// LateUpdate eases the view angle toward its target.
func (d *Director) LateUpdate(dt float64) {
	target := d.TargetViewAngle()
	d.viewAngle += (target - d.viewAngle) * d.factor(dt)
	if math.Abs(target-d.viewAngle) < snapAngle {
		d.viewAngle = target
	}
}

// SetEnabled turns player control on or off. A disabled director holds the
// body still.
func (d *Director) SetEnabled(enabled bool) {
	d.enabled = enabled
	if d.space == nil {
		return
	}
	if enabled {
		d.space.Unfreeze()
	} else {
		d.space.Freeze()
	}
}

// Enabled reports whether rotations are accepted.
func (d *Director) Enabled() bool {
	return d.enabled
}

// Gravity returns the gravity currently applied.
func (d *Director) Gravity() cp.Vector {
	return d.gravity
}

// TargetGravity returns the gravity the director is swinging toward.
func (d *Director) TargetGravity() cp.Vector {
	return rotateQuarters(d.settings.Default, d.quarter)
}

// ViewAngle returns the current view rotation in radians.
func (d *Director) ViewAngle() float64 {
	return d.viewAngle
}

// TargetViewAngle returns the view rotation matching the target gravity.
func (d *Director) TargetViewAngle() float64 {
	return float64(d.quarter) * math.Pi / 2
}

// Quarter returns the number of clockwise quarter turns applied, in [0,4).
func (d *Director) Quarter() int {
	return d.quarter
}

// Settings returns the director's settings.
func (d *Director) Settings() Settings {
	return d.settings
}

func (d *Director) factor(dt float64) float64 {
	t := dt * d.settings.AffectSpeed
	if t > 1 {
		return 1
	}
	if t < 0 {
		return 0
	}
	return t
}

// rotateQuarters rotates v clockwise on screen by n quarter turns.
// Swapping components keeps the result exact.
func rotateQuarters(v cp.Vector, n int) cp.Vector {
	switch ((n % 4) + 4) % 4 {
	case 1:
		return cp.Vector{X: -v.Y, Y: v.X}
	case 2:
		return cp.Vector{X: -v.X, Y: -v.Y}
	case 3:
		return cp.Vector{X: v.Y, Y: -v.X}
	default:
		return v
	}
}

// slerp interpolates direction and length from a toward b by t.
func slerp(a, b cp.Vector, t float64) cp.Vector {
	if t >= 1 {
		return b
	}
	la, lb := a.Length(), b.Length()
	if la == 0 || lb == 0 {
		return a.Add(b.Sub(a).Mult(t))
	}

	angA := math.Atan2(a.Y, a.X)
	angB := math.Atan2(b.Y, b.X)
	diff := angB - angA
	for diff > math.Pi {
		diff -= 2 * math.Pi
	}
	for diff <= -math.Pi {
		diff += 2 * math.Pi
	}
	if math.Abs(diff) < snapAngle && math.Abs(la-lb) < snapAngle {
		return b
	}

	ang := angA + diff*t
	length := la + (lb-la)*t
	return cp.Vector{X: math.Cos(ang) * length, Y: math.Sin(ang) * length}
}
