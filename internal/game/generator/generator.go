// Package generator turns generation parameters into room layouts. Three
// algorithms are provided: random room packing, binary space partitioning and
// cellular-automaton caves.
package generator

import (
	"context"
	"errors"

	"github.com/cory-johannsen/dungeonmap/internal/game/dungeon"
)

// ErrUnknownAlgorithm is returned when no generator is registered for an algorithm.
var ErrUnknownAlgorithm = errors.New("unknown layout algorithm")

// Generator produces a room layout.
//
// Implementations never fail on sampling exhaustion: a short or empty room set
// is a valid result. The only error is context cancellation.
type Generator interface {
	// Algorithm names the layout algorithm this generator implements.
	Algorithm() dungeon.Algorithm
	// Generate returns rooms with ids 1..N in generation order and special
	// types assigned.
	//
	// Postcondition: no two returned rooms intersect; every room lies inside grid.
	Generate(ctx context.Context, p dungeon.Params, grid dungeon.Grid) ([]dungeon.Room, error)
}

// newRoom builds the idx-th generated room (0-based) as a normal room.
func newRoom(idx int, rect dungeon.Rect) dungeon.Room {
	return dungeon.Room{ID: idx + 1, Rect: rect, Type: dungeon.Normal}
}
