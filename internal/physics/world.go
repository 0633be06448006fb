// Package physics simulates the arena: static walls and targets built from
// a level map, and the dynamic cube that falls under the current gravity.
package physics

import (
	"github.com/jakecoffman/cp"

	"github.com/vovakirdan/tumble/internal/level"
)

// TileSize is the side of one map tile in world units.
const TileSize = 10.0

const (
	collisionTypeSolid cp.CollisionType = iota + 1
	collisionTypeTarget
	collisionTypeCube
)

// Settings shapes the cube and its contacts.
type Settings struct {
	CubeSize   float64 // side length as a fraction of a tile
	Elasticity float64
	Friction   float64
}

// DefaultSettings returns the settings used when no configuration is given.
func DefaultSettings() Settings {
	return Settings{
		CubeSize:   0.8,
		Elasticity: 0.2,
		Friction:   0.6,
	}
}

// World owns the Chipmunk space for one level.
type World struct {
	level *level.Level
	space *cp.Space

	cube      *cp.Body
	cubeShape *cp.Shape
	frozen    bool
	gravity   cp.Vector

	targets       []*Target
	shapeToTarget map[*cp.Shape]*Target
	tileToTarget  map[level.Point]*Target
}

// NewWorld builds the physics world for a level. Every target reports its
// first hit to sink.
func NewWorld(lvl *level.Level, settings Settings, sink HitSink) *World {
	if settings.CubeSize <= 0 || settings.CubeSize > 1 {
		settings.CubeSize = DefaultSettings().CubeSize
	}

	space := cp.NewSpace()
	space.Iterations = 20

	w := &World{
		level:         lvl,
		space:         space,
		shapeToTarget: make(map[*cp.Shape]*Target),
		tileToTarget:  make(map[level.Point]*Target),
	}
	w.buildWalls(settings)
	w.buildTargets(settings, sink)
	w.buildCube(settings)
	w.setupHandlers()
	return w
}

// Space returns the underlying Chipmunk space.
func (w *World) Space() *cp.Space {
	return w.space
}

// Level returns the level the world was built from.
func (w *World) Level() *level.Level {
	return w.level
}

// Step advances the simulation by dt seconds.
func (w *World) Step(dt float64) {
	if dt <= 0 {
		return
	}
	w.space.Step(dt)
}

// SetGravity changes the gravity applied to the cube.
func (w *World) SetGravity(g cp.Vector) {
	w.gravity = g
	w.space.SetGravity(g)
}

// Gravity returns the gravity currently applied.
func (w *World) Gravity() cp.Vector {
	return w.gravity
}

// Freeze holds the cube in place regardless of gravity or momentum.
func (w *World) Freeze() {
	w.frozen = true
	w.cube.SetVelocityVector(cp.Vector{})
	w.cube.SetAngularVelocity(0)
	w.cube.SetVelocityUpdateFunc(func(body *cp.Body, gravity cp.Vector, damping float64, dt float64) {
		body.SetVelocityVector(cp.Vector{})
		body.SetAngularVelocity(0)
	})
}

// Unfreeze lets the cube move under gravity again.
func (w *World) Unfreeze() {
	w.frozen = false
	w.cube.SetVelocityUpdateFunc(cp.BodyUpdateVelocity)
}

// Frozen reports whether the cube is held.
func (w *World) Frozen() bool {
	return w.frozen
}

// Position returns the cube's centre in world units.
func (w *World) Position() cp.Vector {
	return w.cube.Position()
}

// CubeAngle returns the cube's rotation in radians.
func (w *World) CubeAngle() float64 {
	return w.cube.Angle()
}

// CubeVelocity returns the cube's velocity in world units per second.
func (w *World) CubeVelocity() cp.Vector {
	return w.cube.Velocity()
}

// Targets returns every target in the level.
func (w *World) Targets() []*Target {
	return w.targets
}

// TargetAt returns the target covering the tile at p, if any.
func (w *World) TargetAt(p level.Point) (*Target, bool) {
	t, ok := w.tileToTarget[p]
	return t, ok
}

// HittableTargets returns how many targets the level holds.
func (w *World) HittableTargets() int {
	return len(w.targets)
}

// HitTargets returns how many targets have been struck.
func (w *World) HitTargets() int {
	n := 0
	for _, t := range w.targets {
		if t.Hit() {
			n++
		}
	}
	return n
}

// TileCenter converts a tile coordinate to the world position of its centre.
func TileCenter(p level.Point) cp.Vector {
	return cp.Vector{
		X: (float64(p.X) + 0.5) * TileSize,
		Y: (float64(p.Y) + 0.5) * TileSize,
	}
}

// buildWalls merges horizontal runs of wall tiles into static boxes and
// closes the arena with boundary segments.
func (w *World) buildWalls(settings Settings) {
	lvl := w.level
	for y := 0; y < lvl.Height; y++ {
		x := 0
		for x < lvl.Width {
			if lvl.At(x, y) != level.TileWall {
				x++
				continue
			}
			run := 1
			for x+run < lvl.Width && lvl.At(x+run, y) == level.TileWall {
				run++
			}
			x0 := float64(x) * TileSize
			y0 := float64(y) * TileSize
			bb := cp.BB{L: x0, B: y0, R: x0 + float64(run)*TileSize, T: y0 + TileSize}
			shape := cp.NewBox2(w.space.StaticBody, bb, 0)
			shape.SetFriction(settings.Friction)
			shape.SetElasticity(1)
			shape.SetCollisionType(collisionTypeSolid)
			w.space.AddShape(shape)
			x += run
		}
	}

	worldW := float64(lvl.Width) * TileSize
	worldH := float64(lvl.Height) * TileSize
	segments := []struct {
		a cp.Vector
		b cp.Vector
	}{
		{a: cp.Vector{X: 0, Y: 0}, b: cp.Vector{X: worldW, Y: 0}},
		{a: cp.Vector{X: 0, Y: worldH}, b: cp.Vector{X: worldW, Y: worldH}},
		{a: cp.Vector{X: 0, Y: 0}, b: cp.Vector{X: 0, Y: worldH}},
		{a: cp.Vector{X: worldW, Y: 0}, b: cp.Vector{X: worldW, Y: worldH}},
	}
	for _, seg := range segments {
		shape := cp.NewSegment(w.space.StaticBody, seg.a, seg.b, 1)
		shape.SetFriction(settings.Friction)
		shape.SetElasticity(1)
		shape.SetCollisionType(collisionTypeSolid)
		w.space.AddShape(shape)
	}
}

func (w *World) buildTargets(settings Settings, sink HitSink) {
	for i, tiles := range w.level.Targets() {
		target := &Target{ID: i + 1, Tiles: tiles, sink: sink}
		w.targets = append(w.targets, target)
		for _, p := range tiles {
			x0 := float64(p.X) * TileSize
			y0 := float64(p.Y) * TileSize
			bb := cp.BB{L: x0, B: y0, R: x0 + TileSize, T: y0 + TileSize}
			shape := cp.NewBox2(w.space.StaticBody, bb, 0)
			shape.SetFriction(settings.Friction)
			shape.SetElasticity(1)
			shape.SetCollisionType(collisionTypeTarget)
			w.space.AddShape(shape)
			w.shapeToTarget[shape] = target
			w.tileToTarget[p] = target
		}
	}
}

func (w *World) buildCube(settings Settings) {
	size := settings.CubeSize * TileSize
	mass := 1.0
	body := cp.NewBody(mass, cp.MomentForBox(mass, size, size))
	body.SetPosition(TileCenter(w.level.Spawn))
	shape := cp.NewBox(body, size, size, 0)
	shape.SetElasticity(settings.Elasticity)
	shape.SetFriction(settings.Friction)
	shape.SetCollisionType(collisionTypeCube)

	w.space.AddBody(body)
	w.space.AddShape(shape)
	w.cube = body
	w.cubeShape = shape
}

func (w *World) setupHandlers() {
	handler := w.space.NewCollisionHandler(collisionTypeCube, collisionTypeTarget)
	handler.UserData = w
	handler.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		world, ok := userData.(*World)
		if !ok || world == nil {
			return true
		}
		shapeA, shapeB := arb.Shapes()
		if target, ok := world.shapeToTarget[shapeA]; ok {
			target.SetHit()
		} else if target, ok := world.shapeToTarget[shapeB]; ok {
			target.SetHit()
		}
		return true
	}
}
