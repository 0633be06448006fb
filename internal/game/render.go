package game

import (
	"fmt"
	"math"
	"strings"

	"github.com/jakecoffman/cp"

	"github.com/vovakirdan/tumble/internal/core"
	"github.com/vovakirdan/tumble/internal/level"
	"github.com/vovakirdan/tumble/internal/physics"
	"github.com/vovakirdan/tumble/internal/timing"
)

// cellWidth is how many columns one tile takes, keeping tiles roughly square.
const cellWidth = 2

const (
	runeWall   = '█'
	runeTarget = '▒'
	runeHit    = '░'
	runeCube   = '█'
)

// Render draws the current frame onto dst.
func (s *Session) Render(dst *core.Screen) {
	dst.Clear()
	if s.finished {
		s.renderFinish(dst)
		return
	}
	if s.world != nil {
		s.renderArena(dst)
	}
	s.renderHUD(dst)
	s.renderTexts(dst)
	if s.paused {
		panel := drawPanel(dst, 34, 4)
		dst.DrawTextCenteredStyled(panel.Y+1, "PAUSED", core.ColorHUD, 1)
		dst.DrawTextCenteredStyled(panel.Y+2, "p resume  r restart  b menu", core.ColorDim, 1)
	}
}

// drawPanel blanks and outlines a w by h box centred on the screen.
func drawPanel(dst *core.Screen, w, h int) core.Rect {
	screen := core.NewRect(0, 0, dst.Width(), dst.Height())
	cx, cy := screen.Center()
	panel := core.NewRect(cx-w/2, cy-h/2, w, h)
	dst.DrawRect(panel, ' ')
	dst.DrawBox(panel, core.ColorDim)
	return panel
}

// renderArena samples the world for every arena cell, rotated so that
// gravity always points down the screen.
func (s *Session) renderArena(dst *core.Screen) {
	lvl := s.world.Level()
	arena := core.NewRect(0, 1, dst.Width(), dst.Height()-2)
	cx := float64(arena.X+arena.Right()) / 2
	cy := float64(arena.Y+arena.Bottom()) / 2

	cam := s.follower.Position().Mult(1.0 / physics.TileSize)
	theta := s.director.ViewAngle()
	sin, cos := math.Sincos(theta)

	for sy := arena.Y; sy < arena.Bottom(); sy++ {
		for sx := arena.X; sx < arena.Right(); sx++ {
			dx := (float64(sx) + 0.5 - cx) / cellWidth
			dy := float64(sy) + 0.5 - cy
			wx := cam.X + dx*cos - dy*sin
			wy := cam.Y + dx*sin + dy*cos
			p := level.Point{X: int(math.Floor(wx)), Y: int(math.Floor(wy))}

			switch lvl.At(p.X, p.Y) {
			case level.TileWall:
				dst.SetColored(sx, sy, runeWall, core.ColorWall)
			case level.TileTarget:
				if t, ok := s.world.TargetAt(p); ok && t.Hit() {
					dst.SetColored(sx, sy, runeHit, core.ColorTargetHit)
				} else {
					dst.SetColored(sx, sy, runeTarget, core.ColorTarget)
				}
			}
		}
	}

	// Cube: inverse rotation of its offset from the camera.
	rel := s.world.Position().Mult(1.0 / physics.TileSize).Sub(cam)
	ox := rel.X*cos + rel.Y*sin
	oy := -rel.X*sin + rel.Y*cos
	x := int(math.Floor(cx + ox*cellWidth - cellWidth/2.0 + 0.5))
	y := int(math.Floor(cy + oy))
	for i := 0; i < cellWidth; i++ {
		if arena.Contains(x+i, y) {
			dst.SetColored(x+i, y, runeCube, core.ColorCube)
		}
	}
}

func (s *Session) renderHUD(dst *core.Screen) {
	st := s.State()
	left := fmt.Sprintf(" Level %d/%d", st.Level, st.Levels)
	if s.lvl != nil && s.lvl.Name != "" {
		left += "  " + s.lvl.Name
	}
	dst.DrawTextStyled(0, 0, left, core.ColorHUD, 1)

	right := fmt.Sprintf("Targets %d/%d  %s ", st.Score, st.Target, timing.FormatClock(s.Elapsed()))
	dst.DrawTextStyled(dst.Width()-len(right), 0, right, core.ColorHUD, 1)

	help := " a/d rotate  p pause  r restart  q quit"
	if s.pending != nil {
		help = " loading..."
	}
	dst.DrawTextStyled(0, dst.Height()-1, help, core.ColorDim, 1)

	if err := s.loadErr; err != nil {
		dst.DrawTextCenteredStyled(dst.Height()-2, err.Error(), core.ColorTargetHit, 1)
	}
}

func (s *Session) renderTexts(dst *core.Screen) {
	mid := dst.Height() / 2
	if s.intro.Visible() {
		drawLines(dst, mid, s.intro.Content(), core.ColorText, s.intro.Alpha())
	}
	if s.outro.Visible() {
		lines := strings.Split(s.outro.Content(), "\n")
		drawLines(dst, mid-len(lines), s.outro.Content(), core.ColorText, s.outro.Alpha())
	}
	if s.button.Visible() {
		label := "[ " + s.button.Content() + " ]"
		dst.DrawTextCenteredStyled(mid+1, label, core.ColorButton, s.button.Alpha())
	}
}

func (s *Session) renderFinish(dst *core.Screen) {
	panel := drawPanel(dst, 36, 7)
	drawLines(dst, panel.Y+1, s.finishText, core.ColorText, 1)
	dst.DrawTextCenteredStyled(panel.Y+4, "[ Play Again ]", core.ColorButton, 1)
	dst.DrawTextCenteredStyled(dst.Height()-1, "enter play again  b menu  q quit", core.ColorDim, 1)
}

func drawLines(dst *core.Screen, y int, text string, c core.Color, alpha float64) {
	for i, line := range strings.Split(text, "\n") {
		dst.DrawTextCenteredStyled(y+i, line, c, alpha)
	}
}

// screenDown returns the world direction that currently points down the
// screen.
func screenDown(viewAngle float64) cp.Vector {
	sin, cos := math.Sincos(viewAngle)
	return cp.Vector{X: -sin, Y: cos}
}
