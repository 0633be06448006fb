package tui

import (
	"strings"
	"testing"

	"github.com/vovakirdan/tumble/internal/core"
	"github.com/vovakirdan/tumble/internal/palette"
)

func TestRendererKeepsText(t *testing.T) {
	scr := core.NewScreen(12, 2)
	scr.DrawTextStyled(0, 0, "tumble", core.ColorText, 1)
	scr.DrawTextStyled(0, 1, "faded", core.ColorText, 0.5)

	out := NewRenderer(palette.Base).Render(scr)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if !strings.Contains(lines[0], "tumble") || !strings.Contains(lines[1], "faded") {
		t.Errorf("rendered output lost text: %q", out)
	}
}

func TestKeyOfQuantizesAlpha(t *testing.T) {
	tests := []struct {
		alpha float64
		want  int
	}{
		{1, alphaSteps},
		{0, 0},
		{0.51, 5},
		{1.7, alphaSteps},
		{-1, 0},
	}
	for _, tt := range tests {
		got := keyOf(core.Cell{Rune: 'x', Color: core.ColorText, Alpha: tt.alpha})
		if got.alpha != tt.want || got.color != core.ColorText {
			t.Errorf("keyOf(alpha %v) = %+v, want alpha %d", tt.alpha, got, tt.want)
		}
	}
}

func TestSetPaletteResetsCache(t *testing.T) {
	r := NewRenderer(palette.Base)
	r.style(styleKey{color: core.ColorWall, alpha: alphaSteps})
	if len(r.styles) != 1 {
		t.Fatalf("styles cached = %d, want 1", len(r.styles))
	}

	r.SetPalette(palette.Base)
	if len(r.styles) != 1 {
		t.Error("same palette should keep the cache")
	}
	r.SetPalette(palette.ForLevel(2, 5))
	if len(r.styles) != 0 {
		t.Error("new palette should drop cached styles")
	}
}
