package dungeon

import (
	"fmt"
	"strings"
)

// Size selects the overall scale of a generated dungeon.
type Size string

// Dungeon sizes.
const (
	Small  Size = "small"
	Medium Size = "medium"
	Large  Size = "large"
)

// Algorithm selects a layout generator.
type Algorithm string

// Layout algorithms.
const (
	AlgorithmRooms Algorithm = "rooms"
	AlgorithmBSP   Algorithm = "bsp"
	AlgorithmCaves Algorithm = "caves"
)

// Theme selects the flavour tables used for room descriptions.
type Theme string

// Themes with atmosphere tables.
const (
	Classic Theme = "classic"
	Undead  Theme = "undead"
	Cavern  Theme = "cavern"
	Arcane  Theme = "arcane"
)

// Themes lists every supported theme.
var Themes = []Theme{Classic, Undead, Cavern, Arcane}

// Prompt returns a one-line summary of the theme.
func (t Theme) Prompt() string {
	switch t {
	case Undead:
		return "Undead crypt: bones, sarcophagi, necromantic energies."
	case Cavern:
		return "Natural caverns: stalactites, underground lakes, strange fungi."
	case Arcane:
		return "Arcane ruin: magical traps, glyphs, summoning circles."
	default:
		return "Classic dungeon: stone corridors, doors, traps, treasure."
	}
}

// Grid is the fixed cell extent of a map.
type Grid struct {
	Cols int
	Rows int
}

// DefaultGrid matches an 800x600 canvas at 20 px per cell.
var DefaultGrid = Grid{Cols: 40, Rows: 30}

// GridFromCanvas derives the grid from a pixel canvas and cell size.
//
// Precondition: cellPx > 0.
func GridFromCanvas(widthPx, heightPx, cellPx int) Grid {
	return Grid{Cols: widthPx / cellPx, Rows: heightPx / cellPx}
}

// InBounds reports whether (x, y) is a cell of g.
func (g Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.Cols && y >= 0 && y < g.Rows
}

// Interior returns the grid rectangle minus a one-cell margin.
func (g Grid) Interior() Rect {
	return Rect{X: 1, Y: 1, W: g.Cols - 2, H: g.Rows - 2}
}

// Params holds every knob a generation run accepts.
type Params struct {
	Size         Size      `json:"size"`
	Density      int       `json:"density"`
	Algorithm    Algorithm `json:"algorithm"`
	Theme        Theme     `json:"theme"`
	DungeonLevel int       `json:"dungeonLevel"`
	// MinRoomSize and MaxRoomSize override the size table for room packing;
	// zero keeps the table value.
	MinRoomSize int `json:"minRoomSize,omitempty"`
	MaxRoomSize int `json:"maxRoomSize,omitempty"`
}

// DefaultParams returns medium, density 5, room packing, classic, level 1.
func DefaultParams() Params {
	return Params{
		Size:         Medium,
		Density:      5,
		Algorithm:    AlgorithmRooms,
		Theme:        Classic,
		DungeonLevel: 1,
	}
}

// Validate checks every parameter and reports all violations at once.
func (p Params) Validate() error {
	var errs []string
	switch p.Size {
	case Small, Medium, Large:
	default:
		errs = append(errs, fmt.Sprintf("size must be one of [small, medium, large], got %q", p.Size))
	}
	if p.Density < 0 {
		errs = append(errs, fmt.Sprintf("density must be >= 0, got %d", p.Density))
	}
	switch p.Algorithm {
	case AlgorithmRooms, AlgorithmBSP, AlgorithmCaves:
	default:
		errs = append(errs, fmt.Sprintf("algorithm must be one of [rooms, bsp, caves], got %q", p.Algorithm))
	}
	validTheme := false
	for _, t := range Themes {
		if p.Theme == t {
			validTheme = true
		}
	}
	if !validTheme {
		errs = append(errs, fmt.Sprintf("theme must be one of [classic, undead, cavern, arcane], got %q", p.Theme))
	}
	if p.DungeonLevel < 1 {
		errs = append(errs, fmt.Sprintf("dungeon level must be >= 1, got %d", p.DungeonLevel))
	}
	if p.MinRoomSize < 0 || p.MaxRoomSize < 0 {
		errs = append(errs, "room size overrides must not be negative")
	}
	if p.MinRoomSize > 0 && p.MaxRoomSize > 0 && p.MinRoomSize > p.MaxRoomSize {
		errs = append(errs, fmt.Sprintf("min room size %d exceeds max room size %d", p.MinRoomSize, p.MaxRoomSize))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid generation params: %s", strings.Join(errs, "; "))
	}
	return nil
}
