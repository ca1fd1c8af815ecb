// Package connectivity links rooms with a minimum spanning tree of L-shaped
// corridors and derives the wall-occupancy grid from rooms and corridors.
package connectivity

import (
	"math"

	"github.com/cory-johannsen/dungeonmap/internal/game/dice"
	"github.com/cory-johannsen/dungeonmap/internal/game/dungeon"
)

// Pair is one spanning-tree edge. A was already connected when B joined.
type Pair struct {
	A dungeon.Room
	B dungeon.Room
}

// SpanningTree connects rooms with a greedy Prim walk over centre-to-centre
// Euclidean distance, starting from rooms[0]. Each step adds the globally
// closest (connected, unconnected) pair; the first pair found wins ties.
//
// Postcondition: len(result) == max(0, len(rooms)-1) and every room is
// reachable from rooms[0].
func SpanningTree(rooms []dungeon.Room) []Pair {
	if len(rooms) < 2 {
		return nil
	}
	connected := []int{0}
	unconnected := make([]int, 0, len(rooms)-1)
	for i := 1; i < len(rooms); i++ {
		unconnected = append(unconnected, i)
	}

	pairs := make([]Pair, 0, len(rooms)-1)
	for len(unconnected) > 0 {
		best := math.Inf(1)
		from, to := -1, -1
		for _, c := range connected {
			for j, u := range unconnected {
				if d := rooms[c].Distance(rooms[u].Rect); d < best {
					best, from, to = d, c, j
				}
			}
		}
		u := unconnected[to]
		pairs = append(pairs, Pair{A: rooms[from], B: rooms[u]})
		connected = append(connected, u)
		unconnected = append(unconnected[:to], unconnected[to+1:]...)
	}
	return pairs
}

// Segment is a straight run between two grid points.
type Segment struct {
	X1, Y1, X2, Y2 int
}

// Corridor is a spanning-tree edge with its L-turn fixed.
type Corridor struct {
	A dungeon.Room `json:"a"`
	B dungeon.Room `json:"b"`
	// HorizontalFirst runs along A's centre row before turning; otherwise the
	// corridor runs along A's centre column first.
	HorizontalFirst bool `json:"horizontalFirst"`
}

// Route builds the spanning tree of rooms and picks each corridor's turn
// orientation from src.
func Route(rooms []dungeon.Room, src dice.Source) []Corridor {
	pairs := SpanningTree(rooms)
	corridors := make([]Corridor, 0, len(pairs))
	for _, p := range pairs {
		corridors = append(corridors, Corridor{A: p.A, B: p.B, HorizontalFirst: src.Intn(2) == 0})
	}
	return corridors
}

// Endpoints returns the centre cells of A and B.
func (c Corridor) Endpoints() (x1, y1, x2, y2 int) {
	x1, y1 = c.A.CenterCell()
	x2, y2 = c.B.CenterCell()
	return x1, y1, x2, y2
}

// Legs returns the two straight runs of the corridor, in travel order from A.
func (c Corridor) Legs() [2]Segment {
	x1, y1, x2, y2 := c.Endpoints()
	if c.HorizontalFirst {
		return [2]Segment{{x1, y1, x2, y1}, {x2, y1, x2, y2}}
	}
	return [2]Segment{{x1, y1, x1, y2}, {x1, y2, x2, y2}}
}
