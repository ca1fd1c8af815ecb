package connectivity

import "github.com/cory-johannsen/dungeonmap/internal/game/dungeon"

// Cell classifies one grid cell.
type Cell uint8

// Cell kinds.
const (
	Wall Cell = iota
	Floor
	Passage
)

// WallGrid is the wall-occupancy grid of a level: every cell starts as wall,
// room interiors become floor and corridor paths become passage.
type WallGrid struct {
	grid  dungeon.Grid
	cells []Cell
}

// NewWallGrid carves rooms and corridors out of a solid grid. Each corridor
// leg is two cells wide, padded one cell right of vertical legs and one cell
// below horizontal legs. Cells outside grid are ignored.
func NewWallGrid(grid dungeon.Grid, rooms []dungeon.Room, corridors []Corridor) *WallGrid {
	w := &WallGrid{grid: grid, cells: make([]Cell, grid.Cols*grid.Rows)}
	for _, c := range corridors {
		for _, leg := range c.Legs() {
			w.carveLeg(leg)
		}
	}
	for _, r := range rooms {
		for y := r.Y; y < r.Bottom(); y++ {
			for x := r.X; x < r.Right(); x++ {
				w.set(x, y, Floor)
			}
		}
	}
	return w
}

func (w *WallGrid) carveLeg(s Segment) {
	if s.Y1 == s.Y2 {
		for x := min(s.X1, s.X2); x <= max(s.X1, s.X2); x++ {
			w.set(x, s.Y1, Passage)
			w.set(x, s.Y1+1, Passage)
		}
		return
	}
	for y := min(s.Y1, s.Y2); y <= max(s.Y1, s.Y2); y++ {
		w.set(s.X1, y, Passage)
		w.set(s.X1+1, y, Passage)
	}
}

func (w *WallGrid) set(x, y int, c Cell) {
	if w.grid.InBounds(x, y) {
		w.cells[y*w.grid.Cols+x] = c
	}
}

// Grid returns the grid dimensions.
func (w *WallGrid) Grid() dungeon.Grid { return w.grid }

// At returns the kind of cell (x, y). Cells outside the grid are walls.
func (w *WallGrid) At(x, y int) Cell {
	if !w.grid.InBounds(x, y) {
		return Wall
	}
	return w.cells[y*w.grid.Cols+x]
}

// IsWall reports whether (x, y) is solid.
func (w *WallGrid) IsWall(x, y int) bool { return w.At(x, y) == Wall }

// IsCorridorAt reports whether (x, y) is open and outside every room.
func (w *WallGrid) IsCorridorAt(x, y int) bool { return w.At(x, y) == Passage }

// String draws the grid one row per line: '#' wall, '.' room floor, ','
// corridor.
func (w *WallGrid) String() string {
	out := make([]byte, 0, (w.grid.Cols+1)*w.grid.Rows)
	for y := 0; y < w.grid.Rows; y++ {
		for x := 0; x < w.grid.Cols; x++ {
			out = append(out, w.At(x, y).Glyph())
		}
		out = append(out, '\n')
	}
	return string(out)
}

// Glyph returns the map character for c.
func (c Cell) Glyph() byte {
	switch c {
	case Floor:
		return '.'
	case Passage:
		return ','
	default:
		return '#'
	}
}
