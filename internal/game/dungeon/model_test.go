package dungeon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestRect_Intersects_TouchingEdgesAllowed(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 4, H: 4}
	b := Rect{X: 4, Y: 0, W: 3, H: 3}
	assert.False(t, a.Intersects(b), "edge-touching rectangles must not intersect")
	assert.True(t, a.IntersectsPadded(b, 1), "one-cell buffer must catch touching rectangles")

	c := Rect{X: 3, Y: 3, W: 2, H: 2}
	assert.True(t, a.Intersects(c))
}

func TestPropertyIntersectsIsSymmetric(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		gen := func(label string) Rect {
			return Rect{
				X: rapid.IntRange(0, 30).Draw(t, label+"x"),
				Y: rapid.IntRange(0, 30).Draw(t, label+"y"),
				W: rapid.IntRange(1, 10).Draw(t, label+"w"),
				H: rapid.IntRange(1, 10).Draw(t, label+"h"),
			}
		}
		a, b := gen("a"), gen("b")
		assert.Equal(t, a.Intersects(b), b.Intersects(a))
		if a.ContainsRect(b) {
			assert.True(t, a.Intersects(b))
		}
	})
}

func TestRect_CenterCell(t *testing.T) {
	x, y := Rect{X: 3, Y: 4, W: 5, H: 2}.CenterCell()
	assert.Equal(t, 5, x) // 3 + 2.5
	assert.Equal(t, 5, y) // 4 + 1
}

func TestRoom_SizeFeet(t *testing.T) {
	w, h := Room{Rect: Rect{W: 4, H: 6}}.SizeFeet()
	assert.Equal(t, 20, w)
	assert.Equal(t, 30, h)
}

func TestAssignSpecialTypes(t *testing.T) {
	for n := 0; n <= 12; n++ {
		rooms := make([]Room, n)
		AssignSpecialTypes(rooms, true)
		if n == 0 {
			continue
		}
		assert.Equal(t, Entrance, rooms[0].Type, "n=%d", n)
		if n > 2 {
			assert.Equal(t, Boss, rooms[n-1].Type, "n=%d", n)
		}
		if n > 4 {
			assert.Equal(t, Treasure, rooms[n/2].Type, "n=%d", n)
		}
		if n > 6 {
			assert.Equal(t, Trap, rooms[n/3].Type, "n=%d", n)
		}
	}

	rooms := make([]Room, 9)
	AssignSpecialTypes(rooms, false)
	for _, r := range rooms {
		assert.NotEqual(t, Trap, r.Type)
	}
	assert.Equal(t, Normal, rooms[1].Type)
}

func TestAssignSpecialTypes_SmallSets(t *testing.T) {
	one := make([]Room, 1)
	AssignSpecialTypes(one, true)
	assert.Equal(t, Entrance, one[0].Type)

	two := make([]Room, 2)
	AssignSpecialTypes(two, true)
	assert.Equal(t, []RoomType{Entrance, Normal}, []RoomType{two[0].Type, two[1].Type})
}

func TestFindOverlap(t *testing.T) {
	rooms := []Room{
		{ID: 1, Rect: Rect{X: 0, Y: 0, W: 4, H: 4}},
		{ID: 2, Rect: Rect{X: 10, Y: 10, W: 4, H: 4}},
	}
	hit := FindOverlap(Rect{X: 2, Y: 2, W: 3, H: 3}, rooms, 0)
	require.NotNil(t, hit)
	assert.Equal(t, 1, hit.ID)

	assert.Nil(t, FindOverlap(Rect{X: 2, Y: 2, W: 3, H: 3}, rooms, 1))
	assert.Nil(t, FindOverlap(Rect{X: 4, Y: 0, W: 2, H: 2}, rooms, 0))
}

func TestValidateRooms(t *testing.T) {
	ok := []Room{
		{ID: 1, Rect: Rect{X: 0, Y: 0, W: 2, H: 2}, Type: Entrance},
		{ID: 2, Rect: Rect{X: 2, Y: 0, W: 2, H: 2}, Type: Normal},
	}
	assert.NoError(t, ValidateRooms(ok))

	overlapping := []Room{
		{ID: 1, Rect: Rect{X: 0, Y: 0, W: 3, H: 3}, Type: Normal},
		{ID: 2, Rect: Rect{X: 2, Y: 2, W: 3, H: 3}, Type: Normal},
	}
	assert.Error(t, ValidateRooms(overlapping))

	dup := []Room{
		{ID: 1, Rect: Rect{X: 0, Y: 0, W: 1, H: 1}, Type: Normal},
		{ID: 1, Rect: Rect{X: 5, Y: 5, W: 1, H: 1}, Type: Normal},
	}
	assert.Error(t, ValidateRooms(dup))

	assert.Error(t, ValidateRooms([]Room{{ID: 1, Rect: Rect{W: 0, H: 1}, Type: Normal}}))
	assert.Error(t, ValidateRooms([]Room{{ID: 1, Rect: Rect{W: 1, H: 1}, Type: "lair"}}))
}

func TestRenumberAndNextRoomID(t *testing.T) {
	rooms := []Room{{ID: 7}, {ID: 3}, {ID: 12}}
	assert.Equal(t, 13, NextRoomID(rooms))
	Renumber(rooms)
	assert.Equal(t, []int{1, 2, 3}, []int{rooms[0].ID, rooms[1].ID, rooms[2].ID})
	assert.Equal(t, 1, NextRoomID(nil))
}

func TestDirection_Opposite(t *testing.T) {
	for _, d := range []Direction{North, South, East, West} {
		assert.Equal(t, d, d.Opposite().Opposite())
		dx, dy := d.Step()
		ox, oy := d.Opposite().Step()
		assert.Equal(t, 0, dx+ox)
		assert.Equal(t, 0, dy+oy)
	}
	assert.Equal(t, Direction(""), Direction("up").Opposite())
}

func TestParams_Validate(t *testing.T) {
	assert.NoError(t, DefaultParams().Validate())

	p := DefaultParams()
	p.Size = "huge"
	p.Density = -1
	p.Algorithm = "maze"
	p.Theme = "space"
	p.DungeonLevel = 0
	err := p.Validate()
	require.Error(t, err)
	for _, frag := range []string{"size", "density", "algorithm", "theme", "dungeon level"} {
		assert.Contains(t, err.Error(), frag)
	}

	p = DefaultParams()
	p.MinRoomSize, p.MaxRoomSize = 6, 4
	assert.Error(t, p.Validate())
}

func TestGridFromCanvas(t *testing.T) {
	assert.Equal(t, DefaultGrid, GridFromCanvas(800, 600, 20))
	assert.Equal(t, Rect{X: 1, Y: 1, W: 38, H: 28}, DefaultGrid.Interior())
	assert.True(t, DefaultGrid.InBounds(39, 29))
	assert.False(t, DefaultGrid.InBounds(40, 0))
}

func TestTheme_Prompt(t *testing.T) {
	assert.Contains(t, Undead.Prompt(), "Undead")
	assert.Contains(t, Theme("other").Prompt(), "Classic")
}
