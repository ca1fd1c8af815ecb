package generator

import (
	"context"

	"github.com/cory-johannsen/dungeonmap/internal/game/dice"
	"github.com/cory-johannsen/dungeonmap/internal/game/dungeon"
)

// BSPSettings returns the minimum partition side and split depth for size and
// density.
func BSPSettings(size dungeon.Size, density int) (minSide, depth int) {
	switch size {
	case dungeon.Small:
		minSide, depth = 4, 3
	case dungeon.Large:
		minSide, depth = 6, 5
	default:
		minSide, depth = 5, 4
	}
	return minSide, depth + density/3
}

// Leaf is a terminal partition and the room carved inside it.
//
// Invariant: Bounds.ContainsRect(Room).
type Leaf struct {
	Bounds dungeon.Rect
	Room   dungeon.Rect
}

// Partition recursively splits bounds along a randomly chosen axis, up to depth
// levels, and carves one room into each resulting leaf. A split is refused when
// the chosen dimension is shorter than 2*minSide. Leaves are returned
// depth-first, first half before second half.
//
// Precondition: minSide >= 1.
func Partition(src dice.Source, bounds dungeon.Rect, minSide, depth int) []Leaf {
	if bounds.W < 1 || bounds.H < 1 {
		return nil
	}
	if depth > 0 {
		if first, second, ok := split(src, bounds, minSide); ok {
			leaves := Partition(src, first, minSide, depth-1)
			return append(leaves, Partition(src, second, minSide, depth-1)...)
		}
	}
	return []Leaf{{Bounds: bounds, Room: carve(src, bounds)}}
}

func split(src dice.Source, b dungeon.Rect, minSide int) (dungeon.Rect, dungeon.Rect, bool) {
	if src.Intn(2) == 0 {
		if b.H < 2*minSide {
			return dungeon.Rect{}, dungeon.Rect{}, false
		}
		at := dice.Between(src, minSide, b.H-minSide)
		return dungeon.Rect{X: b.X, Y: b.Y, W: b.W, H: at},
			dungeon.Rect{X: b.X, Y: b.Y + at, W: b.W, H: b.H - at}, true
	}
	if b.W < 2*minSide {
		return dungeon.Rect{}, dungeon.Rect{}, false
	}
	at := dice.Between(src, minSide, b.W-minSide)
	return dungeon.Rect{X: b.X, Y: b.Y, W: at, H: b.H},
		dungeon.Rect{X: b.X + at, Y: b.Y, W: b.W - at, H: b.H}, true
}

// carve picks a room spanning 50-90% of each leaf side, placed anywhere in the
// leftover slack.
func carve(src dice.Source, leaf dungeon.Rect) dungeon.Rect {
	w := carveSide(src, leaf.W)
	h := carveSide(src, leaf.H)
	return dungeon.Rect{
		X: leaf.X + dice.Between(src, 0, leaf.W-w),
		Y: leaf.Y + dice.Between(src, 0, leaf.H-h),
		W: w,
		H: h,
	}
}

func carveSide(src dice.Source, side int) int {
	lo := max(side/2, 1)
	hi := min(max(side*9/10, side/2+1), side)
	return dice.Between(src, lo, hi)
}

// BSP lays rooms out by binary space partitioning of the grid interior.
type BSP struct {
	src dice.Source
}

// NewBSP returns a BSP generator drawing from src.
func NewBSP(src dice.Source) *BSP {
	return &BSP{src: src}
}

// Algorithm implements Generator.
func (*BSP) Algorithm() dungeon.Algorithm { return dungeon.AlgorithmBSP }

// Generate implements Generator.
func (g *BSP) Generate(ctx context.Context, p dungeon.Params, grid dungeon.Grid) ([]dungeon.Room, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	minSide, depth := BSPSettings(p.Size, p.Density)
	leaves := Partition(g.src, grid.Interior(), minSide, depth)

	rooms := make([]dungeon.Room, 0, len(leaves))
	for i, leaf := range leaves {
		rooms = append(rooms, newRoom(i, leaf.Room))
	}
	dungeon.AssignSpecialTypes(rooms, true)
	return rooms, nil
}
