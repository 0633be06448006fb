package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tumble/internal/core"
	"github.com/vovakirdan/tumble/internal/palette"
)

// alphaSteps quantizes fade opacity so a fading text needs few styles.
const alphaSteps = 10

type styleKey struct {
	color core.Color
	alpha int
}

// Renderer converts Screen buffers to styled strings using a palette.
type Renderer struct {
	pal    palette.Palette
	styles map[styleKey]lipgloss.Style
}

// NewRenderer creates a renderer for the given palette.
func NewRenderer(pal palette.Palette) *Renderer {
	return &Renderer{pal: pal, styles: make(map[styleKey]lipgloss.Style)}
}

// SetPalette switches palettes, dropping cached styles when it changes.
func (r *Renderer) SetPalette(pal palette.Palette) {
	if pal == r.pal {
		return
	}
	r.pal = pal
	clear(r.styles)
}

func (r *Renderer) style(k styleKey) lipgloss.Style {
	if st, ok := r.styles[k]; ok {
		return st
	}
	bg := r.pal.Background.Clamped().Hex()
	fg := r.pal.Hex(k.color, float64(k.alpha)/alphaSteps)
	st := lipgloss.NewStyle().
		Foreground(lipgloss.Color(fg)).
		Background(lipgloss.Color(bg))
	r.styles[k] = st
	return st
}

// Render converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same style to minimize ANSI escape sequences.
func (r *Renderer) Render(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			start := keyOf(s.GetCell(x, y))

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if keyOf(cell) != start {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}
			sb.WriteString(r.style(start).Render(run.String()))
		}
	}
	return sb.String()
}

func keyOf(c core.Cell) styleKey {
	a := int(math.Round(core.ClampF(c.Alpha, 0, 1) * alphaSteps))
	return styleKey{color: c.Color, alpha: a}
}

// RenderScreen renders a screen with the base palette.
func RenderScreen(s *core.Screen) string {
	return NewRenderer(palette.Base).Render(s)
}
