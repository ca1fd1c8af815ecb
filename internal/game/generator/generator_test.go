package generator_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/dungeonmap/internal/game/dice"
	"github.com/cory-johannsen/dungeonmap/internal/game/dungeon"
	"github.com/cory-johannsen/dungeonmap/internal/game/generator"
)

func params(alg dungeon.Algorithm, size dungeon.Size, density int) dungeon.Params {
	p := dungeon.DefaultParams()
	p.Algorithm = alg
	p.Size = size
	p.Density = density
	return p
}

func assertLayoutInvariants(t assert.TestingT, rooms []dungeon.Room, grid dungeon.Grid) {
	assert.NoError(t, dungeon.ValidateRooms(rooms))
	full := dungeon.Rect{W: grid.Cols, H: grid.Rows}
	for i, r := range rooms {
		assert.Equal(t, i+1, r.ID)
		assert.True(t, full.ContainsRect(r.Rect), "room %d at %+v leaves the grid", r.ID, r.Rect)
	}
	if len(rooms) > 0 {
		assert.Equal(t, dungeon.Entrance, rooms[0].Type)
	}
	if len(rooms) > 2 {
		assert.Equal(t, dungeon.Boss, rooms[len(rooms)-1].Type)
	}
}

func TestTargetRoomCount(t *testing.T) {
	assert.Equal(t, 5, generator.TargetRoomCount(dungeon.Small, 0))
	assert.Equal(t, 13, generator.TargetRoomCount(dungeon.Medium, 5))
	assert.Equal(t, 15, generator.TargetRoomCount(dungeon.Large, 3))
}

func TestRoomSideRange(t *testing.T) {
	lo, hi := generator.RoomSideRange(params(dungeon.AlgorithmRooms, dungeon.Large, 0))
	assert.Equal(t, 4, lo)
	assert.Equal(t, 8, hi)

	p := params(dungeon.AlgorithmRooms, dungeon.Small, 0)
	p.MinRoomSize = 8
	lo, hi = generator.RoomSideRange(p)
	assert.Equal(t, 8, lo)
	assert.Equal(t, 8, hi, "max is raised to meet an overridden min")

	p.MinRoomSize, p.MaxRoomSize = 2, 3
	lo, hi = generator.RoomSideRange(p)
	assert.Equal(t, 2, lo)
	assert.Equal(t, 3, hi)
}

func TestPacker_MediumDensityFive(t *testing.T) {
	grid := dungeon.DefaultGrid
	for seed := uint64(1); seed <= 50; seed++ {
		rooms, err := generator.NewPacker(dice.NewSeededSource(seed)).
			Generate(context.Background(), params(dungeon.AlgorithmRooms, dungeon.Medium, 5), grid)
		require.NoError(t, err)
		require.GreaterOrEqual(t, len(rooms), 1)
		require.LessOrEqual(t, len(rooms), 13)
		assertLayoutInvariants(t, rooms, grid)
	}
}

func TestPacker_KeepsOneCellBuffer(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Uint64Min(1).Draw(rt, "seed")
		size := rapid.SampledFrom([]dungeon.Size{dungeon.Small, dungeon.Medium, dungeon.Large}).Draw(rt, "size")
		density := rapid.IntRange(0, 10).Draw(rt, "density")

		rooms, err := generator.NewPacker(dice.NewSeededSource(seed)).
			Generate(context.Background(), params(dungeon.AlgorithmRooms, size, density), dungeon.DefaultGrid)
		require.NoError(rt, err)
		assertLayoutInvariants(rt, rooms, dungeon.DefaultGrid)
		for i := range rooms {
			for j := i + 1; j < len(rooms); j++ {
				assert.False(rt, rooms[i].IntersectsPadded(rooms[j].Rect, 1))
			}
		}
	})
}

func TestPacker_SmallSpaceYieldsFewerRooms(t *testing.T) {
	// Only one 3x3 room fits with its margin.
	grid := dungeon.Grid{Cols: 5, Rows: 5}
	p := params(dungeon.AlgorithmRooms, dungeon.Small, 0)
	p.MaxRoomSize = 3
	rooms, err := generator.NewPacker(dice.NewSeededSource(3)).Generate(context.Background(), p, grid)
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, dungeon.Rect{X: 1, Y: 1, W: 3, H: 3}, rooms[0].Rect)
	assert.Equal(t, dungeon.Entrance, rooms[0].Type)
}

func TestPacker_NothingFits(t *testing.T) {
	rooms, err := generator.NewPacker(dice.NewSeededSource(3)).
		Generate(context.Background(), params(dungeon.AlgorithmRooms, dungeon.Large, 0), dungeon.Grid{Cols: 4, Rows: 4})
	require.NoError(t, err)
	assert.Empty(t, rooms)
}

func TestPacker_HonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := generator.NewPacker(dice.NewSeededSource(1)).
		Generate(ctx, params(dungeon.AlgorithmRooms, dungeon.Small, 0), dungeon.DefaultGrid)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBSPSettings(t *testing.T) {
	minSide, depth := generator.BSPSettings(dungeon.Small, 2)
	assert.Equal(t, 4, minSide)
	assert.Equal(t, 3, depth)

	minSide, depth = generator.BSPSettings(dungeon.Medium, 5)
	assert.Equal(t, 5, minSide)
	assert.Equal(t, 5, depth)

	minSide, depth = generator.BSPSettings(dungeon.Large, 9)
	assert.Equal(t, 6, minSide)
	assert.Equal(t, 8, depth)
}

func TestPartition_LeavesContainRooms(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Uint64Min(1).Draw(rt, "seed")
		minSide := rapid.IntRange(2, 8).Draw(rt, "minSide")
		depth := rapid.IntRange(0, 8).Draw(rt, "depth")
		bounds := dungeon.DefaultGrid.Interior()

		leaves := generator.Partition(dice.NewSeededSource(seed), bounds, minSide, depth)
		require.NotEmpty(rt, leaves)
		require.LessOrEqual(rt, len(leaves), 1<<depth)

		area := 0
		for i, leaf := range leaves {
			assert.True(rt, bounds.ContainsRect(leaf.Bounds))
			assert.True(rt, leaf.Bounds.ContainsRect(leaf.Room), "leaf %d room %+v escapes %+v", i, leaf.Room, leaf.Bounds)
			assert.GreaterOrEqual(rt, leaf.Room.W, 1)
			assert.GreaterOrEqual(rt, leaf.Room.H, 1)
			area += leaf.Bounds.Area()
			for _, other := range leaves[i+1:] {
				assert.False(rt, leaf.Bounds.Intersects(other.Bounds))
			}
		}
		assert.Equal(rt, bounds.Area(), area, "leaves must tile the bounds")
	})
}

func TestPartition_RefusesNarrowSplits(t *testing.T) {
	leaves := generator.Partition(dice.NewSeededSource(1), dungeon.Rect{X: 1, Y: 1, W: 7, H: 7}, 4, 5)
	require.Len(t, leaves, 1)
	assert.Equal(t, dungeon.Rect{X: 1, Y: 1, W: 7, H: 7}, leaves[0].Bounds)
}

func TestBSP_Generate(t *testing.T) {
	for seed := uint64(1); seed <= 30; seed++ {
		rooms, err := generator.NewBSP(dice.NewSeededSource(seed)).
			Generate(context.Background(), params(dungeon.AlgorithmBSP, dungeon.Large, 6), dungeon.DefaultGrid)
		require.NoError(t, err)
		require.NotEmpty(t, rooms)
		assertLayoutInvariants(t, rooms, dungeon.DefaultGrid)
		interior := dungeon.DefaultGrid.Interior()
		for _, r := range rooms {
			assert.True(t, interior.ContainsRect(r.Rect))
		}
	}
}

func TestOpenProbability(t *testing.T) {
	assert.InDelta(t, 0.45, generator.OpenProbability(0), 1e-9)
	assert.InDelta(t, 0.35, generator.OpenProbability(5), 1e-9)
	assert.Zero(t, generator.OpenProbability(40))
	assert.Less(t, generator.OpenProbability(3), generator.OpenProbability(2))
}

func TestCarve_BorderIsRock(t *testing.T) {
	grid := dungeon.Grid{Cols: 20, Rows: 12}
	m := generator.Carve(dice.NewSeededSource(5), grid, 0)
	for x := 0; x < grid.Cols; x++ {
		assert.True(t, m.Rock(x, 0))
		assert.True(t, m.Rock(x, grid.Rows-1))
	}
	for y := 0; y < grid.Rows; y++ {
		assert.True(t, m.Rock(0, y))
		assert.True(t, m.Rock(grid.Cols-1, y))
	}
	assert.True(t, m.Rock(-1, 3))
}

func TestCaveRegions_MeetThreshold(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Uint64Min(1).Draw(rt, "seed")
		density := rapid.IntRange(0, 6).Draw(rt, "density")
		m := generator.Carve(dice.NewSeededSource(seed), dungeon.DefaultGrid, density)

		for _, region := range m.Regions(generator.MinCaveCells) {
			assert.GreaterOrEqual(rt, region.Cells, generator.MinCaveCells)
			assert.LessOrEqual(rt, region.Cells, region.Bounds.Area())
			open := 0
			for y := region.Bounds.Y; y < region.Bounds.Bottom(); y++ {
				for x := region.Bounds.X; x < region.Bounds.Right(); x++ {
					if !m.Rock(x, y) {
						open++
					}
				}
			}
			assert.GreaterOrEqual(rt, open, region.Cells)
		}
	})
}

func TestCaves_Generate(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Uint64Min(1).Draw(rt, "seed")
		density := rapid.IntRange(0, 6).Draw(rt, "density")
		rooms, err := generator.NewCaves(dice.NewSeededSource(seed)).
			Generate(context.Background(), params(dungeon.AlgorithmCaves, dungeon.Medium, density), dungeon.DefaultGrid)
		require.NoError(rt, err)
		require.LessOrEqual(rt, len(rooms), generator.MaxCaveRooms)
		assertLayoutInvariants(rt, rooms, dungeon.DefaultGrid)
		for _, r := range rooms {
			assert.NotEqual(rt, dungeon.Trap, r.Type)
			assert.GreaterOrEqual(rt, r.Area(), generator.MinCaveCells)
		}
	})
}

func TestRegistry_Generate(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	reg := generator.NewDefaultRegistry(dice.NewSeededSource(21), zap.New(core))

	for _, alg := range []dungeon.Algorithm{dungeon.AlgorithmRooms, dungeon.AlgorithmBSP, dungeon.AlgorithmCaves} {
		g, err := reg.Get(alg)
		require.NoError(t, err)
		assert.Equal(t, alg, g.Algorithm())

		_, err = reg.Generate(context.Background(), params(alg, dungeon.Small, 2), dungeon.DefaultGrid)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, logs.FilterMessage("layout generated").Len())
}

func TestRegistry_Errors(t *testing.T) {
	reg := generator.NewDefaultRegistry(dice.NewSeededSource(1), zap.NewNop())

	_, err := reg.Get("maze")
	assert.True(t, errors.Is(err, generator.ErrUnknownAlgorithm))

	_, err = reg.Generate(context.Background(), params("maze", dungeon.Small, 0), dungeon.DefaultGrid)
	assert.ErrorIs(t, err, generator.ErrUnknownAlgorithm)

	bad := params(dungeon.AlgorithmRooms, dungeon.Small, -1)
	_, err = reg.Generate(context.Background(), bad, dungeon.DefaultGrid)
	assert.ErrorContains(t, err, "density")

	assert.Error(t, reg.Register(generator.NewPacker(dice.NewSeededSource(1))))
}
