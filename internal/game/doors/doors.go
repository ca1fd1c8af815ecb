// Package doors places door symbols where corridors meet room walls.
package doors

import (
	"github.com/google/uuid"

	"github.com/cory-johannsen/dungeonmap/internal/game/connectivity"
	"github.com/cory-johannsen/dungeonmap/internal/game/dice"
	"github.com/cory-johannsen/dungeonmap/internal/game/dungeon"
)

// side walks one wall of a room.
type side struct {
	dir dungeon.Direction
	// cells returns the boundary cells of r on this side.
	cells func(r dungeon.Rect) [][2]int
}

var sides = []side{
	{dungeon.North, func(r dungeon.Rect) [][2]int { return row(r.X, r.Right(), r.Y) }},
	{dungeon.South, func(r dungeon.Rect) [][2]int { return row(r.X, r.Right(), r.Bottom()-1) }},
	{dungeon.East, func(r dungeon.Rect) [][2]int { return column(r.Y, r.Bottom(), r.Right()-1) }},
	{dungeon.West, func(r dungeon.Rect) [][2]int { return column(r.Y, r.Bottom(), r.X) }},
}

func row(from, to, y int) [][2]int {
	cells := make([][2]int, 0, to-from)
	for x := from; x < to; x++ {
		cells = append(cells, [2]int{x, y})
	}
	return cells
}

func column(from, to, x int) [][2]int {
	cells := make([][2]int, 0, to-from)
	for y := from; y < to; y++ {
		cells = append(cells, [2]int{x, y})
	}
	return cells
}

// AutoDetect returns a new normal door for every room boundary cell whose
// outward neighbour is a corridor in walls, skipping cells already holding a
// door in existing or placed earlier in the same pass. Rooms are scanned in
// order, each side north, south, east, west. Door ids are version 4 UUIDs
// drawn from src, so a seeded source reproduces them.
//
// Postcondition: AutoDetect(rooms, walls, append(existing, result...), src) is empty.
func AutoDetect(rooms []dungeon.Room, walls *connectivity.WallGrid, existing []dungeon.Door, src dice.Source) []dungeon.Door {
	ids := sourceReader{src: src}
	placed := make(map[[2]int]bool, len(existing))
	for _, d := range existing {
		placed[[2]int{d.X, d.Y}] = true
	}

	var added []dungeon.Door
	for _, r := range rooms {
		for _, s := range sides {
			dx, dy := s.dir.Step()
			for _, cell := range s.cells(r.Rect) {
				if placed[cell] || !walls.IsCorridorAt(cell[0]+dx, cell[1]+dy) {
					continue
				}
				placed[cell] = true
				added = append(added, dungeon.Door{
					ID:        newID(ids),
					Type:      dungeon.DoorNormal,
					X:         cell[0],
					Y:         cell[1],
					Direction: s.dir,
					RoomID:    r.ID,
				})
			}
		}
	}
	return added
}

// sourceReader adapts a dice.Source to the io.Reader uuid draws from.
type sourceReader struct {
	src dice.Source
}

func (r sourceReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(r.src.Intn(256))
	}
	return len(p), nil
}

func newID(r sourceReader) string {
	id, err := uuid.NewRandomFromReader(r)
	if err != nil {
		panic("doors: reading door id: " + err.Error())
	}
	return id.String()
}
