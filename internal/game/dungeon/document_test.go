package dungeon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestDecode_FlatAndLegacyRoomFormats(t *testing.T) {
	data := []byte(`{
		"rooms": [
			{"id": 1, "x": 2, "y": 3, "w": 4, "h": 5, "type": "entrance", "description": "Gate."},
			{"id": 2, "gridRect": {"x": 10, "y": 11, "w": 6, "h": 7}, "description": ""},
			{"id": 3, "x": 20, "y": 20, "w": 2, "h": 2, "type": "boss"}
		],
		"symbols": [
			{"id": 1712345678901.25, "type": "door", "subtype": "normal", "x": 2, "y": 3, "direction": "north", "roomId": 1},
			{"id": "s-2", "type": "door", "subtype": "secret", "x": 5, "y": 3, "direction": "north", "roomId": 1},
			{"id": 99, "type": "pillar", "x": 1, "y": 1}
		]
	}`)

	doc, err := Decode(data)
	require.NoError(t, err)
	require.Len(t, doc.Levels, 1)
	lvl := doc.Levels[0]
	require.Len(t, lvl.Rooms, 3)

	assert.Equal(t, Room{ID: 1, Rect: Rect{X: 2, Y: 3, W: 4, H: 5}, Type: Entrance, Description: "Gate."}, lvl.Rooms[0])
	assert.Equal(t, Rect{X: 10, Y: 11, W: 6, H: 7}, lvl.Rooms[1].Rect)
	assert.Equal(t, Normal, lvl.Rooms[1].Type, "missing type defaults to normal")
	assert.Equal(t, Boss, lvl.Rooms[2].Type)

	require.Len(t, lvl.Doors, 2, "non-door symbols are dropped")
	assert.Equal(t, "1712345678901.25", lvl.Doors[0].ID)
	assert.Equal(t, DoorNormal, lvl.Doors[0].Type)
	assert.Equal(t, DoorSecret, lvl.Doors[1].Type)
	assert.Equal(t, North, lvl.Doors[1].Direction)
}

func TestEncodeDecode_RoomFieldsLossless(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 8).Draw(t, "n")
		doc := NewDocument(rapid.StringMatching(`[A-Za-z ]{0,20}`).Draw(t, "name"))
		for i := 0; i < n; i++ {
			doc.Levels[0].Rooms = append(doc.Levels[0].Rooms, Room{
				ID: i + 1,
				Rect: Rect{
					X: rapid.IntRange(0, 39).Draw(t, "x"),
					Y: rapid.IntRange(0, 29).Draw(t, "y"),
					W: rapid.IntRange(1, 10).Draw(t, "w"),
					H: rapid.IntRange(1, 10).Draw(t, "h"),
				},
				Type:        RoomTypes[rapid.IntRange(0, len(RoomTypes)-1).Draw(t, "type")],
				Description: rapid.String().Draw(t, "desc"),
			})
		}

		data, err := Encode(doc)
		require.NoError(t, err)
		got, err := Decode(data)
		require.NoError(t, err)
		assert.Equal(t, doc.Name, got.Name)
		assert.Equal(t, doc.Levels[0].Rooms, got.Levels[0].Rooms)
	})
}

func TestEncode_FlatRoomSchema(t *testing.T) {
	doc := NewDocument("x")
	doc.Levels[0].Rooms = []Room{{ID: 1, Rect: Rect{X: 1, Y: 2, W: 3, H: 4}, Type: Trap, Description: "d"}}
	data, err := Encode(doc)
	require.NoError(t, err)
	s := string(data)
	for _, key := range []string{`"id": 1`, `"x": 1`, `"y": 2`, `"w": 3`, `"h": 4`, `"type": "trap"`, `"description": "d"`} {
		assert.Contains(t, s, key)
	}
	assert.NotContains(t, s, "gridRect")
}

func TestDecode_Errors(t *testing.T) {
	_, err := Decode([]byte("not json"))
	assert.Error(t, err)
	_, err = Decode([]byte(`{"levels": "nope"}`))
	assert.Error(t, err)
}

func TestDecode_EmptyObjectYieldsOneLevel(t *testing.T) {
	doc, err := Decode([]byte(`{}`))
	require.NoError(t, err)
	require.Len(t, doc.Levels, 1)
	assert.NotNil(t, doc.Levels[0].Rooms)
}

func TestDocument_Levels(t *testing.T) {
	doc := NewDocument("Crypt")
	assert.ErrorIs(t, doc.RemoveLevel(0), ErrLastLevel)

	idx := doc.AddLevel("", -1)
	assert.Equal(t, 1, idx)
	assert.Equal(t, "Level 2", doc.Levels[1].Name)
	doc.AddLevel("Tower", 1)

	require.NoError(t, doc.RemoveLevel(0))
	require.Len(t, doc.Levels, 2)
	assert.Equal(t, 0, doc.Levels[0].ID)
	assert.Equal(t, "Level 2", doc.Levels[0].Name)
	assert.Equal(t, 1, doc.Levels[1].ID)

	assert.Error(t, doc.RemoveLevel(5))
}

func TestDoorAt(t *testing.T) {
	doors := []Door{{X: 1, Y: 2}}
	assert.True(t, DoorAt(doors, 1, 2))
	assert.False(t, DoorAt(doors, 2, 1))
}
