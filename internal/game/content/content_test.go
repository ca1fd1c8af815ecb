package content_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/dungeonmap/internal/game/content"
	"github.com/cory-johannsen/dungeonmap/internal/game/dice"
	"github.com/cory-johannsen/dungeonmap/internal/game/dungeon"
	"github.com/cory-johannsen/dungeonmap/internal/game/tables"
)

// lowSource always rolls 0: every chance succeeds and every pick takes the first entry.
type lowSource struct{}

func (lowSource) Intn(int) int { return 0 }

// highSource always rolls n-1: every chance fails and every pick takes the last entry.
type highSource struct{}

func (highSource) Intn(n int) int { return n - 1 }

func room(rt dungeon.RoomType, w, h int) dungeon.Room {
	return dungeon.Room{ID: 1, Rect: dungeon.Rect{X: 2, Y: 2, W: w, H: h}, Type: rt}
}

func last(s []string) string { return s[len(s)-1] }

func TestCRForLevel(t *testing.T) {
	cases := map[int]float64{
		1: 0.5, 2: 1, 3: 2, 4: 3, 5: 4, 6: 5, 7: 6, 8: 7, 9: 8, 10: 9,
		11: 10.5, 15: 14.5, 0: 0.5, -4: 0.5,
	}
	for level, want := range cases {
		assert.Equal(t, want, content.CRForLevel(level), "level %d", level)
	}
}

func TestGenerate_TrapRoomStructure(t *testing.T) {
	tbl := tables.MustDefault()
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Uint64Min(1).Draw(rt, "seed")
		g := content.NewGenerator(tbl, dice.NewSeededSource(seed))
		desc := g.Generate(room(dungeon.Trap, 4, 4), dungeon.Classic, 1)

		require.True(rt, strings.HasPrefix(desc, "A 20x20ft chamber. "), desc)
		rest := strings.TrimPrefix(desc, "A 20x20ft chamber. ")
		atmosphere, trap, ok := strings.Cut(rest, ". ")
		require.True(rt, ok, desc)
		assert.NotEmpty(rt, atmosphere)
		assert.Contains(rt, trap, " triggers ")
		assert.Contains(rt, trap, "DC ")
		assert.Contains(rt, trap, "damage")
	})
}

func TestGenerate_EntranceWithGuards(t *testing.T) {
	tbl := tables.MustDefault()
	g := content.NewGenerator(tbl, lowSource{})
	guard := tbl.Guards()[0]

	want := fmt.Sprintf("A 30x20ft chamber. %s. %s. 1 %s (AC %d, HP %d, %s) stand watch.",
		tbl.Atmosphere[dungeon.Classic][0], tbl.Entrances[0], guard.Name, guard.AC, guard.HP, guard.Attack)
	assert.Equal(t, want, g.Generate(room(dungeon.Entrance, 6, 4), dungeon.Classic, 1))
}

func TestGenerate_EntranceWithoutGuards(t *testing.T) {
	tbl := tables.MustDefault()
	g := content.NewGenerator(tbl, highSource{})

	want := fmt.Sprintf("A 15x15ft chamber. %s. %s.", last(tbl.Atmosphere[dungeon.Undead]), last(tbl.Entrances))
	assert.Equal(t, want, g.Generate(room(dungeon.Entrance, 3, 3), dungeon.Undead, 1))
}

func TestGenerate_TreasureRoom(t *testing.T) {
	tbl := tables.MustDefault()
	g := content.NewGenerator(tbl, highSource{})

	desc := g.Generate(room(dungeon.Treasure, 4, 5), dungeon.Arcane, 1)
	assert.True(t, strings.HasSuffix(desc, " False bottom barrel contains 1gp, 5ep, 10sp, 100cp."), desc)
	assert.NotContains(t, desc, "Trapped")
}

func TestGenerate_TreasureRoom_EmptyHoard(t *testing.T) {
	g := content.NewGenerator(tables.MustDefault(), lowSource{})
	desc := g.Generate(room(dungeon.Treasure, 4, 4), dungeon.Classic, 1)
	assert.Contains(t, desc, " Locked chest lies empty.")
	assert.Contains(t, desc, "Trapped (DC ")
}

func TestGenerate_BossFallsBackToFloorTier(t *testing.T) {
	tbl := tables.MustDefault()
	g := content.NewGenerator(tbl, lowSource{})
	boss := tbl.MonstersAt(2)[0]

	desc := g.Generate(room(dungeon.Boss, 8, 8), dungeon.Classic, 1)
	assert.Contains(t, desc, fmt.Sprintf("%s (AC %d, HP %d, %s) lairs here.", boss.Name, boss.AC, boss.HP, boss.Attack))
	assert.Contains(t, desc, " Treasure: ")
}

func TestGenerate_BossGenericPhrase(t *testing.T) {
	g := content.NewGenerator(tables.MustDefault(), lowSource{})
	// Level 3 gives CR 4, which has no exact or floor tier.
	desc := g.Generate(room(dungeon.Boss, 8, 8), dungeon.Classic, 3)
	assert.Contains(t, desc, "A powerful creature lairs here. Treasure: ")
}

func TestGenerate_NormalRoom(t *testing.T) {
	tbl := tables.MustDefault()

	quiet := content.NewGenerator(tbl, highSource{}).Generate(room(dungeon.Normal, 4, 4), dungeon.Cavern, 2)
	dressing := last(tbl.Dressing[dungeon.Normal])
	want := fmt.Sprintf("A 20x20ft chamber. %s. %s%s.", last(tbl.Atmosphere[dungeon.Cavern]), strings.ToUpper(dressing[:1]), dressing[1:])
	assert.Equal(t, want, quiet)

	busy := content.NewGenerator(tbl, lowSource{}).Generate(room(dungeon.Normal, 4, 4), dungeon.Cavern, 2)
	m := tbl.MonstersAt(1)[0]
	assert.Contains(t, busy, fmt.Sprintf("1 %s (AC %d, HP %d, %s).", m.Name, m.AC, m.HP, m.Attack))
}

func TestFillMissing_KeepsExistingDescriptions(t *testing.T) {
	g := content.NewGenerator(tables.MustDefault(), dice.NewSeededSource(9))
	rooms := []dungeon.Room{
		room(dungeon.Entrance, 4, 4),
		{ID: 2, Rect: dungeon.Rect{X: 10, Y: 10, W: 3, H: 3}, Type: dungeon.Normal, Description: "Hand written."},
		{ID: 3, Rect: dungeon.Rect{X: 20, Y: 10, W: 3, H: 3}, Type: dungeon.Boss, Description: "   "},
	}

	n := g.FillMissing(rooms, dungeon.Classic, 4)
	assert.Equal(t, 1, n)
	assert.True(t, strings.HasPrefix(rooms[0].Description, "A 20x20ft chamber."))
	assert.Equal(t, "Hand written.", rooms[1].Description)
	assert.Equal(t, "   ", rooms[2].Description)

	assert.Zero(t, g.FillMissing(rooms, dungeon.Classic, 4))
}

func TestGenerate_SeededIsReproducible(t *testing.T) {
	tbl := tables.MustDefault()
	r := room(dungeon.Treasure, 5, 5)
	a := content.NewGenerator(tbl, dice.NewSeededSource(77)).Generate(r, dungeon.Classic, 6)
	b := content.NewGenerator(tbl, dice.NewSeededSource(77)).Generate(r, dungeon.Classic, 6)
	assert.Equal(t, a, b)
}
