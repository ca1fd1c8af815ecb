package dungeon

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// ErrLastLevel is returned when removing the only level of a document.
var ErrLastLevel = errors.New("cannot remove the last level")

// Level is one floor of a dungeon document.
type Level struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Depth int    `json:"depth"` // 0 ground, negative basements, positive towers
	Rooms []Room `json:"rooms"`
	Doors []Door `json:"symbols"`
}

// Document is a complete multi-level dungeon map.
//
// Invariant: len(Levels) >= 1 and Levels[i].ID == i.
type Document struct {
	Name   string  `json:"name"`
	Levels []Level `json:"levels"`
}

// NewDocument returns a document with a single empty ground level.
func NewDocument(name string) *Document {
	return &Document{
		Name:   name,
		Levels: []Level{{ID: 0, Name: "Level 1", Rooms: []Room{}, Doors: []Door{}}},
	}
}

// AddLevel appends a level and returns its index. An empty name becomes
// "Level N".
func (d *Document) AddLevel(name string, depth int) int {
	idx := len(d.Levels)
	if name == "" {
		name = fmt.Sprintf("Level %d", idx+1)
	}
	d.Levels = append(d.Levels, Level{ID: idx, Name: name, Depth: depth, Rooms: []Room{}, Doors: []Door{}})
	return idx
}

// RemoveLevel deletes the level at idx and renumbers the remaining level ids.
//
// Postcondition: returns ErrLastLevel when only one level remains.
func (d *Document) RemoveLevel(idx int) error {
	if len(d.Levels) <= 1 {
		return ErrLastLevel
	}
	if idx < 0 || idx >= len(d.Levels) {
		return fmt.Errorf("level index %d out of range [0, %d)", idx, len(d.Levels))
	}
	d.Levels = append(d.Levels[:idx], d.Levels[idx+1:]...)
	for i := range d.Levels {
		d.Levels[i].ID = i
	}
	return nil
}

// roomJSON accepts both the flat {x,y,w,h} layout and the older nested
// {gridRect:{x,y,w,h}} layout.
type roomJSON struct {
	ID          int      `json:"id"`
	X           int      `json:"x"`
	Y           int      `json:"y"`
	W           int      `json:"w"`
	H           int      `json:"h"`
	GridRect    *Rect    `json:"gridRect"`
	Type        RoomType `json:"type"`
	Description string   `json:"description"`
}

// UnmarshalJSON decodes either room layout. A missing type becomes normal.
func (r *Room) UnmarshalJSON(data []byte) error {
	var raw roomJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	rect := Rect{X: raw.X, Y: raw.Y, W: raw.W, H: raw.H}
	if raw.GridRect != nil {
		rect = *raw.GridRect
	}
	if raw.Type == "" {
		raw.Type = Normal
	}
	*r = Room{ID: raw.ID, Rect: rect, Type: raw.Type, Description: raw.Description}
	return nil
}

type doorJSON struct {
	ID        json.RawMessage `json:"id"`
	Type      DoorType        `json:"type"`
	Subtype   string          `json:"subtype"`
	X         int             `json:"x"`
	Y         int             `json:"y"`
	Direction Direction       `json:"direction"`
	RoomID    int             `json:"roomId"`
}

// UnmarshalJSON accepts string or numeric ids; older exports used timestamps.
func (d *Door) UnmarshalJSON(data []byte) error {
	var raw doorJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	id := ""
	if len(raw.ID) > 0 {
		var s string
		if err := json.Unmarshal(raw.ID, &s); err == nil {
			id = s
		} else {
			var f float64
			if err := json.Unmarshal(raw.ID, &f); err != nil {
				return fmt.Errorf("door id: %w", err)
			}
			id = strconv.FormatFloat(f, 'f', -1, 64)
		}
	}
	if raw.Type == DoorNormal {
		switch raw.Subtype {
		case "secret":
			raw.Type = DoorSecret
		case "locked":
			raw.Type = DoorLocked
		case "portcullis":
			raw.Type = Portcullis
		}
	}
	*d = Door{ID: id, Type: raw.Type, X: raw.X, Y: raw.Y, Direction: raw.Direction, RoomID: raw.RoomID}
	return nil
}

// isDoorType reports whether t names a door symbol.
func isDoorType(t DoorType) bool {
	switch t {
	case DoorNormal, DoorSecret, DoorLocked, Portcullis:
		return true
	}
	return false
}

// singleLevelJSON is the older export that carried one level at the top.
type singleLevelJSON struct {
	Name    string `json:"name"`
	Rooms   []Room `json:"rooms"`
	Symbols []Door `json:"symbols"`
}

// Encode serializes doc as indented JSON.
func Encode(doc *Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}
	return data, nil
}

// Decode parses a document in either the multi-level or the single-level
// export format. Non-door symbols are dropped.
//
// Postcondition: the returned document has at least one level and dense level ids.
func Decode(data []byte) (*Document, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("parsing document JSON: %w", err)
	}

	var doc Document
	if _, ok := probe["levels"]; ok {
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing document JSON: %w", err)
		}
	} else {
		var single singleLevelJSON
		if err := json.Unmarshal(data, &single); err != nil {
			return nil, fmt.Errorf("parsing document JSON: %w", err)
		}
		doc = Document{
			Name:   single.Name,
			Levels: []Level{{Name: "Level 1", Rooms: single.Rooms, Doors: single.Symbols}},
		}
	}
	if len(doc.Levels) == 0 {
		doc.Levels = []Level{{Name: "Level 1"}}
	}

	for i := range doc.Levels {
		lvl := &doc.Levels[i]
		lvl.ID = i
		if lvl.Rooms == nil {
			lvl.Rooms = []Room{}
		}
		doors := make([]Door, 0, len(lvl.Doors))
		for _, d := range lvl.Doors {
			if isDoorType(d.Type) {
				doors = append(doors, d)
			}
		}
		lvl.Doors = doors
	}
	return &doc, nil
}
