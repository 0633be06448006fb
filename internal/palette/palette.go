// Package palette tints each level by rotating a base palette's hue.
package palette

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/vovakirdan/tumble/internal/core"
)

// maxShift bounds the hue rotation in degrees either way.
const maxShift = 180

// Palette holds the colours used to draw one level.
type Palette struct {
	Background colorful.Color
	Wall       colorful.Color
	Target     colorful.Color
	TargetHit  colorful.Color
	Cube       colorful.Color
	HUD        colorful.Color
	Text       colorful.Color
	Button     colorful.Color
	Dim        colorful.Color
}

// Base is the palette of the first level.
var Base = Palette{
	Background: colorful.Color{R: 0.06, G: 0.07, B: 0.10},
	Wall:       colorful.Color{R: 0.36, G: 0.42, B: 0.56},
	Target:     colorful.Color{R: 0.96, G: 0.62, B: 0.20},
	TargetHit:  colorful.Color{R: 0.32, G: 0.86, B: 0.52},
	Cube:       colorful.Color{R: 0.95, G: 0.95, B: 0.98},
	HUD:        colorful.Color{R: 0.55, G: 0.80, B: 0.95},
	Text:       colorful.Color{R: 1.00, G: 1.00, B: 1.00},
	Button:     colorful.Color{R: 0.98, G: 0.85, B: 0.35},
	Dim:        colorful.Color{R: 0.40, G: 0.40, B: 0.45},
}

// HueShift returns the hue rotation in whole degrees for a level.
// Successive levels alternate direction and move further from the base hue,
// clamped to ±180.
func HueShift(level, maxLevels int) int {
	if maxLevels <= 0 || level < 1 {
		return 0
	}
	step := float64(2*maxShift) / float64(maxLevels)
	shift := float64(level-1) * step * math.Pow(-1, float64(level))
	return int(core.ClampF(shift, -maxShift, maxShift))
}

// ForLevel returns the base palette rotated for the given level.
func ForLevel(level, maxLevels int) Palette {
	return Base.Shift(float64(HueShift(level, maxLevels)))
}

// Shift rotates every colour's hue by deg degrees. The background and
// neutral text keep their hue.
func (p Palette) Shift(deg float64) Palette {
	if deg == 0 {
		return p
	}
	return Palette{
		Background: p.Background,
		Wall:       rotate(p.Wall, deg),
		Target:     rotate(p.Target, deg),
		TargetHit:  rotate(p.TargetHit, deg),
		Cube:       p.Cube,
		HUD:        rotate(p.HUD, deg),
		Text:       p.Text,
		Button:     rotate(p.Button, deg),
		Dim:        p.Dim,
	}
}

// Color returns the colour for a render role.
func (p Palette) Color(role core.Color) colorful.Color {
	switch role {
	case core.ColorWall:
		return p.Wall
	case core.ColorTarget:
		return p.Target
	case core.ColorTargetHit:
		return p.TargetHit
	case core.ColorCube:
		return p.Cube
	case core.ColorHUD:
		return p.HUD
	case core.ColorText:
		return p.Text
	case core.ColorButton:
		return p.Button
	case core.ColorDim:
		return p.Dim
	default:
		return p.Text
	}
}

// Hex returns the colour for role as a #rrggbb string, blended toward the
// background by 1-alpha so faded text sinks into the arena.
func (p Palette) Hex(role core.Color, alpha float64) string {
	c := p.Color(role)
	alpha = core.ClampF(alpha, 0, 1)
	if alpha < 1 {
		c = p.Background.BlendRgb(c, alpha)
	}
	return c.Clamped().Hex()
}

func rotate(c colorful.Color, deg float64) colorful.Color {
	h, s, v := c.Hsv()
	h = math.Mod(h+deg, 360)
	if h < 0 {
		h += 360
	}
	return colorful.Hsv(h, s, v)
}
