package generator

import (
	"context"

	"github.com/cory-johannsen/dungeonmap/internal/game/dice"
	"github.com/cory-johannsen/dungeonmap/internal/game/dungeon"
)

// extraAttempts is how many rejected samples the packer tolerates beyond the
// target count.
const extraAttempts = 20

type packingSize struct {
	base    int
	minSide int
	maxSide int
}

var packingSizes = map[dungeon.Size]packingSize{
	dungeon.Small:  {base: 5, minSide: 3, maxSide: 6},
	dungeon.Medium: {base: 8, minSide: 3, maxSide: 7},
	dungeon.Large:  {base: 12, minSide: 4, maxSide: 8},
}

func packingFor(size dungeon.Size) packingSize {
	if ps, ok := packingSizes[size]; ok {
		return ps
	}
	return packingSizes[dungeon.Medium]
}

// TargetRoomCount returns how many rooms the packer tries to place.
func TargetRoomCount(size dungeon.Size, density int) int {
	return packingFor(size).base + density
}

// RoomSideRange returns the inclusive side-length range for packed rooms,
// honouring the MinRoomSize and MaxRoomSize overrides in p.
//
// Postcondition: 1 <= lo <= hi.
func RoomSideRange(p dungeon.Params) (lo, hi int) {
	ps := packingFor(p.Size)
	lo, hi = ps.minSide, ps.maxSide
	if p.MinRoomSize > 0 {
		lo = p.MinRoomSize
	}
	if p.MaxRoomSize > 0 {
		hi = p.MaxRoomSize
	}
	if lo < 1 {
		lo = 1
	}
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

// Packer scatters random rectangles over the grid and keeps those that stay at
// least one cell clear of every room already placed.
type Packer struct {
	src dice.Source
}

// NewPacker returns a Packer drawing from src.
func NewPacker(src dice.Source) *Packer {
	return &Packer{src: src}
}

// Algorithm implements Generator.
func (*Packer) Algorithm() dungeon.Algorithm { return dungeon.AlgorithmRooms }

// Generate implements Generator.
//
// Postcondition: len(rooms) <= TargetRoomCount(p.Size, p.Density); at most
// target+20 samples are drawn.
func (g *Packer) Generate(ctx context.Context, p dungeon.Params, grid dungeon.Grid) ([]dungeon.Room, error) {
	target := TargetRoomCount(p.Size, p.Density)
	lo, hi := RoomSideRange(p)

	rooms := make([]dungeon.Room, 0, target)
	for attempt := 0; attempt < target+extraAttempts && len(rooms) < target; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		w := dice.Between(g.src, lo, hi)
		h := dice.Between(g.src, lo, hi)
		maxX, maxY := grid.Cols-w-1, grid.Rows-h-1
		if maxX < 1 || maxY < 1 {
			continue
		}
		rect := dungeon.Rect{
			X: dice.Between(g.src, 1, maxX),
			Y: dice.Between(g.src, 1, maxY),
			W: w,
			H: h,
		}
		if crowded(rect, rooms) {
			continue
		}
		rooms = append(rooms, newRoom(len(rooms), rect))
	}

	dungeon.AssignSpecialTypes(rooms, true)
	return rooms, nil
}

func crowded(rect dungeon.Rect, rooms []dungeon.Room) bool {
	for _, r := range rooms {
		if rect.IntersectsPadded(r.Rect, 1) {
			return true
		}
	}
	return false
}
