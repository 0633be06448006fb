package physics

import "github.com/vovakirdan/tumble/internal/level"

// HitSink is told once about every target the cube strikes.
// The score tracker satisfies it.
type HitSink interface {
	IncrementScore()
}

// Target is a group of target tiles that scores once when first struck.
type Target struct {
	ID    int
	Tiles []level.Point

	hit  bool
	sink HitSink
}

// SetHit marks the target as struck and reports it to the sink.
// Only the first call has any effect.
func (t *Target) SetHit() {
	if t.hit {
		return
	}
	t.hit = true
	if t.sink != nil {
		t.sink.IncrementScore()
	}
}

// Hit reports whether the target has been struck.
func (t *Target) Hit() bool {
	return t.hit
}
