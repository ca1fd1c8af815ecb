package generator

import (
	"context"

	"github.com/cory-johannsen/dungeonmap/internal/game/dice"
	"github.com/cory-johannsen/dungeonmap/internal/game/dungeon"
)

const (
	// smoothingPasses is the number of automaton iterations.
	smoothingPasses = 4
	// rockNeighbours is the neighbour count at which a cell turns to rock.
	rockNeighbours = 5
	// MinCaveCells is the smallest region kept as a room.
	MinCaveCells = 16
	// MaxCaveRooms caps the rooms a cave layout emits.
	MaxCaveRooms = 15
)

// OpenProbability is the chance an interior cell starts open. Higher density
// leaves fewer open cells.
//
// Postcondition: result is in [0, 1].
func OpenProbability(density int) float64 {
	return min(max(0.45-float64(density)*0.02, 0), 1)
}

// CaveMap is a cell grid where every cell is rock or open floor. Cells on the
// outer ring are always rock.
type CaveMap struct {
	Cols int
	Rows int
	rock []bool
}

// Rock reports whether (x, y) is rock. Cells outside the map are rock.
func (m *CaveMap) Rock(x, y int) bool {
	if x < 0 || x >= m.Cols || y < 0 || y >= m.Rows {
		return true
	}
	return m.rock[y*m.Cols+x]
}

func (m *CaveMap) rockNeighbours(x, y int) int {
	n := 0
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if (dx != 0 || dy != 0) && m.Rock(x+dx, y+dy) {
				n++
			}
		}
	}
	return n
}

// Carve seeds the interior of grid with open cells at OpenProbability(density)
// and runs the smoothing automaton: a cell becomes rock when at least five of
// its eight neighbours are rock, open otherwise.
func Carve(src dice.Source, grid dungeon.Grid, density int) *CaveMap {
	m := &CaveMap{Cols: grid.Cols, Rows: grid.Rows, rock: make([]bool, grid.Cols*grid.Rows)}
	open := OpenProbability(density)
	for y := 0; y < m.Rows; y++ {
		for x := 0; x < m.Cols; x++ {
			m.rock[y*m.Cols+x] = !m.interior(x, y) || !dice.Probability(src, open)
		}
	}

	next := make([]bool, len(m.rock))
	for pass := 0; pass < smoothingPasses; pass++ {
		copy(next, m.rock)
		for y := 1; y < m.Rows-1; y++ {
			for x := 1; x < m.Cols-1; x++ {
				next[y*m.Cols+x] = m.rockNeighbours(x, y) >= rockNeighbours
			}
		}
		m.rock, next = next, m.rock
	}
	return m
}

func (m *CaveMap) interior(x, y int) bool {
	return x > 0 && x < m.Cols-1 && y > 0 && y < m.Rows-1
}

// Region is a 4-connected set of open cells.
type Region struct {
	Cells  int
	Bounds dungeon.Rect
}

// Regions flood-fills every open area, scanning rows top to bottom, and
// returns the regions of at least minCells cells in discovery order.
func (m *CaveMap) Regions(minCells int) []Region {
	visited := make([]bool, len(m.rock))
	var out []Region
	var queue []int
	for y := 0; y < m.Rows; y++ {
		for x := 0; x < m.Cols; x++ {
			start := y*m.Cols + x
			if m.rock[start] || visited[start] {
				continue
			}
			visited[start] = true
			queue = append(queue[:0], start)
			minX, minY, maxX, maxY := x, y, x, y
			for head := 0; head < len(queue); head++ {
				cx, cy := queue[head]%m.Cols, queue[head]/m.Cols
				minX, maxX = min(minX, cx), max(maxX, cx)
				minY, maxY = min(minY, cy), max(maxY, cy)
				for _, d := range [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
					nx, ny := cx+d[0], cy+d[1]
					if m.Rock(nx, ny) {
						continue
					}
					if idx := ny*m.Cols + nx; !visited[idx] {
						visited[idx] = true
						queue = append(queue, idx)
					}
				}
			}
			if len(queue) < minCells {
				continue
			}
			out = append(out, Region{
				Cells:  len(queue),
				Bounds: dungeon.Rect{X: minX, Y: minY, W: maxX - minX + 1, H: maxY - minY + 1},
			})
		}
	}
	return out
}

// Caves lays rooms out over the open regions of a cellular-automaton cave.
// Each room is the bounding box of one region; the box may include rock.
type Caves struct {
	src dice.Source
}

// NewCaves returns a cave generator drawing from src.
func NewCaves(src dice.Source) *Caves {
	return &Caves{src: src}
}

// Algorithm implements Generator.
func (*Caves) Algorithm() dungeon.Algorithm { return dungeon.AlgorithmCaves }

// Generate implements Generator. Regions whose bounding box would intersect an
// earlier room are skipped. Trap rooms are never assigned.
//
// Postcondition: len(rooms) <= MaxCaveRooms.
func (g *Caves) Generate(ctx context.Context, p dungeon.Params, grid dungeon.Grid) ([]dungeon.Room, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	regions := Carve(g.src, grid, p.Density).Regions(MinCaveCells)

	var rooms []dungeon.Room
	for _, region := range regions {
		if len(rooms) == MaxCaveRooms {
			break
		}
		if dungeon.FindOverlap(region.Bounds, rooms, 0) != nil {
			continue
		}
		rooms = append(rooms, newRoom(len(rooms), region.Bounds))
	}
	dungeon.AssignSpecialTypes(rooms, false)
	return rooms, nil
}
