package core

// Color represents the role of a screen cell.
// The platform layer resolves roles to concrete terminal colors using the
// current level palette, so the game core never deals with ANSI codes.
type Color uint8

// Predefined color roles for game elements.
const (
	ColorDefault Color = iota
	ColorWall
	ColorTarget
	ColorTargetHit
	ColorCube
	ColorHUD
	ColorText
	ColorButton
	ColorDim
)
