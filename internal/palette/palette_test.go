package palette

import (
	"math"
	"testing"

	"github.com/vovakirdan/tumble/internal/core"
)

func TestHueShift(t *testing.T) {
	tests := []struct {
		level, max int
		expected   int
	}{
		{1, 5, 0},
		{2, 5, 72},
		{3, 5, -144},
		{4, 5, 180},  // 216 clamped
		{5, 5, -180}, // -288 clamped
		{2, 4, 90},
		{3, 4, -180},
		{1, 0, 0},
		{0, 5, 0},
	}

	for _, tc := range tests {
		if got := HueShift(tc.level, tc.max); got != tc.expected {
			t.Errorf("HueShift(%d, %d) = %d, expected %d", tc.level, tc.max, got, tc.expected)
		}
	}
}

func TestForLevelFirstIsBase(t *testing.T) {
	if ForLevel(1, 5) != Base {
		t.Error("level 1 should use the base palette")
	}
}

func TestShiftRotatesHue(t *testing.T) {
	shifted := Base.Shift(90)

	h0, _, _ := Base.Wall.Hsv()
	h1, _, _ := shifted.Wall.Hsv()
	diff := math.Mod(h1-h0+360, 360)
	if math.Abs(diff-90) > 0.5 {
		t.Errorf("wall hue moved by %.2f, expected 90", diff)
	}
	if shifted.Background != Base.Background {
		t.Error("background should keep its colour")
	}
}

func TestHexAlpha(t *testing.T) {
	p := Base

	if got := p.Hex(core.ColorText, 1); got != "#ffffff" {
		t.Errorf("opaque text = %s, expected #ffffff", got)
	}
	if got, bg := p.Hex(core.ColorText, 0), p.Background.Hex(); got != bg {
		t.Errorf("transparent text = %s, expected background %s", got, bg)
	}
}
