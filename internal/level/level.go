// Package level parses arena maps, groups them into packs and loads them
// by ordinal.
//
// A map is a block of ASCII rows:
//
//	#  wall
//	T  target wall tile (adjacent T tiles form one target)
//	o  cube spawn point (exactly one)
//	.  empty (a space also counts as empty)
package level

import (
	"errors"
	"fmt"
	"strings"
)

// Tile is a single cell of an arena.
type Tile byte

const (
	TileEmpty Tile = iota
	TileWall
	TileTarget
)

// Point is a tile coordinate.
type Point struct {
	X, Y int
}

// ErrInvalidLevel is returned when a map cannot be parsed.
var ErrInvalidLevel = errors.New("level: invalid map")

// Level is a parsed arena ready to be turned into a physics world.
type Level struct {
	Ordinal int    // 1-based position in its pack
	Name    string // display name
	Width   int
	Height  int
	Spawn   Point
	Music   int      // BGM track; 0 picks the track from the ordinal
	Hue     *float64 // optional hue shift override in degrees

	tiles   [][]Tile
	targets [][]Point
}

// Parse builds a level from a definition.
func Parse(def Definition, ordinal int) (*Level, error) {
	rows := splitRows(def.Map)
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %q has an empty map", ErrInvalidLevel, def.Name)
	}

	width := 0
	for _, row := range rows {
		if n := len([]rune(row)); n > width {
			width = n
		}
	}

	lvl := &Level{
		Ordinal: ordinal,
		Name:    def.Name,
		Width:   width,
		Height:  len(rows),
		Music:   def.Music,
		Hue:     def.Hue,
		tiles:   make([][]Tile, len(rows)),
	}
	if lvl.Name == "" {
		lvl.Name = fmt.Sprintf("Level %d", ordinal)
	}

	spawns := 0
	for y, row := range rows {
		lvl.tiles[y] = make([]Tile, width)
		for x, r := range []rune(row) {
			switch r {
			case '#':
				lvl.tiles[y][x] = TileWall
			case 'T':
				lvl.tiles[y][x] = TileTarget
			case 'o':
				lvl.Spawn = Point{X: x, Y: y}
				spawns++
			case '.', ' ':
			default:
				return nil, fmt.Errorf("%w: %q has unknown tile %q at %d,%d", ErrInvalidLevel, lvl.Name, r, x, y)
			}
		}
	}
	if spawns != 1 {
		return nil, fmt.Errorf("%w: %q needs exactly one spawn, found %d", ErrInvalidLevel, lvl.Name, spawns)
	}

	lvl.targets = groupTargets(lvl.tiles, width, len(rows))
	return lvl, nil
}

// At returns the tile at x, y. Out-of-bounds cells are empty.
func (l *Level) At(x, y int) Tile {
	if y < 0 || y >= l.Height || x < 0 || x >= l.Width {
		return TileEmpty
	}
	return l.tiles[y][x]
}

// Targets returns the tiles of each target, in reading order of each
// target's first tile.
func (l *Level) Targets() [][]Point {
	return l.targets
}

// HittableTargets returns how many targets the level holds.
func (l *Level) HittableTargets() int {
	return len(l.targets)
}

func splitRows(m string) []string {
	lines := strings.Split(strings.ReplaceAll(m, "\r\n", "\n"), "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// groupTargets flood-fills orthogonally adjacent target tiles.
func groupTargets(tiles [][]Tile, w, h int) [][]Point {
	seen := make([]bool, w*h)
	var groups [][]Point

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if tiles[y][x] != TileTarget || seen[y*w+x] {
				continue
			}
			var group []Point
			stack := []Point{{X: x, Y: y}}
			seen[y*w+x] = true
			for len(stack) > 0 {
				p := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				group = append(group, p)
				for _, d := range [4]Point{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
					nx, ny := p.X+d.X, p.Y+d.Y
					if nx < 0 || ny < 0 || nx >= w || ny >= h {
						continue
					}
					if tiles[ny][nx] == TileTarget && !seen[ny*w+nx] {
						seen[ny*w+nx] = true
						stack = append(stack, Point{X: nx, Y: ny})
					}
				}
			}
			groups = append(groups, group)
		}
	}
	return groups
}
