package gravity

import (
	"math"
	"testing"

	"github.com/jakecoffman/cp"
)

type fakeSpace struct {
	gravity cp.Vector
	frozen  bool
	sets    int
}

func (f *fakeSpace) SetGravity(g cp.Vector) {
	f.gravity = g
	f.sets++
}
func (f *fakeSpace) Freeze()   { f.frozen = true }
func (f *fakeSpace) Unfreeze() { f.frozen = false }

func newTestDirector() (*Director, *fakeSpace) {
	space := &fakeSpace{}
	d := NewDirector(Settings{Default: cp.Vector{X: 0, Y: 10}, AffectSpeed: 5}, space)
	return d, space
}

func closeTo(a, b cp.Vector) bool {
	return math.Abs(a.X-b.X) < 1e-6 && math.Abs(a.Y-b.Y) < 1e-6
}

func TestNewDirectorDisabledAndFrozen(t *testing.T) {
	d, space := newTestDirector()

	if d.Enabled() {
		t.Error("director should start disabled")
	}
	if !space.frozen {
		t.Error("body should be frozen while disabled")
	}
	if space.gravity != (cp.Vector{X: 0, Y: 10}) {
		t.Errorf("space gravity = %v, expected default", space.gravity)
	}
}

func TestAffectSpeedClamp(t *testing.T) {
	d := NewDirector(Settings{Default: cp.Vector{Y: 1}, AffectSpeed: 0.2}, nil)
	if d.Settings().AffectSpeed != 1 {
		t.Errorf("AffectSpeed = %v, expected clamp to 1", d.Settings().AffectSpeed)
	}
}

func TestRotateIgnoredWhileDisabled(t *testing.T) {
	d, _ := newTestDirector()
	d.RotateGravity(true)

	if d.Quarter() != 0 {
		t.Errorf("Quarter() = %d, expected 0 while disabled", d.Quarter())
	}
}

func TestRotateTargets(t *testing.T) {
	tests := []struct {
		name      string
		clockwise []bool
		gravity   cp.Vector
		quarter   int
	}{
		{"one cw", []bool{true}, cp.Vector{X: -10, Y: 0}, 1},
		{"two cw", []bool{true, true}, cp.Vector{X: 0, Y: -10}, 2},
		{"one ccw", []bool{false}, cp.Vector{X: 10, Y: 0}, 3},
		{"cw then ccw", []bool{true, false}, cp.Vector{X: 0, Y: 10}, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d, _ := newTestDirector()
			d.SetEnabled(true)
			for _, cw := range tc.clockwise {
				d.RotateGravity(cw)
			}
			if d.TargetGravity() != tc.gravity {
				t.Errorf("TargetGravity() = %v, expected %v", d.TargetGravity(), tc.gravity)
			}
			if d.Quarter() != tc.quarter {
				t.Errorf("Quarter() = %d, expected %d", d.Quarter(), tc.quarter)
			}
		})
	}
}

func TestFourRotationsClose(t *testing.T) {
	for _, clockwise := range []bool{true, false} {
		d, space := newTestDirector()
		d.SetEnabled(true)

		for i := 0; i < 4; i++ {
			d.RotateGravity(clockwise)
			for j := 0; j < 120; j++ {
				d.FixedUpdate(1.0 / 60.0)
				d.LateUpdate(1.0 / 60.0)
			}
		}

		if d.TargetGravity() != d.Settings().Default {
			t.Errorf("clockwise=%v: TargetGravity() = %v, expected exact default", clockwise, d.TargetGravity())
		}
		if !closeTo(space.gravity, d.Settings().Default) {
			t.Errorf("clockwise=%v: applied gravity = %v, expected default", clockwise, space.gravity)
		}
		if d.Quarter() != 0 || d.TargetViewAngle() != 0 {
			t.Errorf("clockwise=%v: orientation not closed: quarter=%d angle=%v", clockwise, d.Quarter(), d.TargetViewAngle())
		}
		if math.Abs(d.ViewAngle()) > 1e-6 {
			t.Errorf("clockwise=%v: ViewAngle() = %v, expected 0", clockwise, d.ViewAngle())
		}
	}
}

func TestFixedUpdateOnlyWhileEnabled(t *testing.T) {
	d, space := newTestDirector()
	before := space.sets

	d.FixedUpdate(1.0 / 60.0)
	if space.sets != before {
		t.Error("FixedUpdate should not touch the space while disabled")
	}

	d.SetEnabled(true)
	if space.frozen {
		t.Error("enabling should release the body")
	}
	d.RotateGravity(true)
	d.FixedUpdate(1.0 / 60.0)

	if space.sets != before+1 {
		t.Errorf("space gravity set %d times, expected %d", space.sets, before+1)
	}
	g := space.gravity
	if closeTo(g, d.Settings().Default) || closeTo(g, d.TargetGravity()) {
		t.Errorf("gravity %v should be between default and target after one step", g)
	}
	if math.Abs(g.Length()-10) > 1e-6 {
		t.Errorf("slerp changed gravity magnitude to %v", g.Length())
	}

	d.SetEnabled(false)
	if !space.frozen {
		t.Error("disabling should freeze the body")
	}
}

func TestRotateQuarters(t *testing.T) {
	v := cp.Vector{X: 3, Y: 7}
	for n := -8; n <= 8; n++ {
		got := rotateQuarters(rotateQuarters(v, n), -n)
		if got != v {
			t.Errorf("rotateQuarters round trip with n=%d = %v, expected %v", n, got, v)
		}
	}
}
