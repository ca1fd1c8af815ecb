// Package dungeon provides the dungeon-map data model: rooms, grid geometry,
// generation parameters, door symbols, and multi-level documents.
package dungeon

import (
	"fmt"
	"math"
)

// RoomType tags a room with its role in the dungeon.
type RoomType string

// Room types, in the order the generators assign them.
const (
	Entrance RoomType = "entrance"
	Normal   RoomType = "normal"
	Treasure RoomType = "treasure"
	Trap     RoomType = "trap"
	Boss     RoomType = "boss"
)

// RoomTypes lists every valid room type.
var RoomTypes = []RoomType{Entrance, Normal, Treasure, Trap, Boss}

// Valid reports whether t is one of the five room types.
func (t RoomType) Valid() bool {
	for _, rt := range RoomTypes {
		if t == rt {
			return true
		}
	}
	return false
}

// Rect is an axis-aligned rectangle in grid cells. X and Y name the top-left
// cell; W and H are extents in cells.
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Right returns the first column past the rectangle.
func (r Rect) Right() int { return r.X + r.W }

// Bottom returns the first row past the rectangle.
func (r Rect) Bottom() int { return r.Y + r.H }

// Area returns W*H.
func (r Rect) Area() int { return r.W * r.H }

// Intersects reports whether r and o share at least one cell. Touching edges
// do not count.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.Right() && r.Right() > o.X && r.Y < o.Bottom() && r.Bottom() > o.Y
}

// IntersectsPadded reports whether r comes within pad cells of o.
func (r Rect) IntersectsPadded(o Rect, pad int) bool {
	return r.X < o.Right()+pad && r.Right()+pad > o.X &&
		r.Y < o.Bottom()+pad && r.Bottom()+pad > o.Y
}

// Contains reports whether cell (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// ContainsRect reports whether o lies entirely inside r.
func (r Rect) ContainsRect(o Rect) bool {
	return o.X >= r.X && o.Y >= r.Y && o.Right() <= r.Right() && o.Bottom() <= r.Bottom()
}

// Center returns the geometric centre of r in fractional cells.
func (r Rect) Center() (float64, float64) {
	return float64(r.X) + float64(r.W)/2, float64(r.Y) + float64(r.H)/2
}

// CenterCell returns the grid cell containing the centre of r.
func (r Rect) CenterCell() (int, int) {
	cx, cy := r.Center()
	return int(math.Floor(cx)), int(math.Floor(cy))
}

// Distance returns the Euclidean distance between the centres of r and o.
func (r Rect) Distance(o Rect) float64 {
	x1, y1 := r.Center()
	x2, y2 := o.Center()
	return math.Hypot(x2-x1, y2-y1)
}

// Room is a rectangular chamber on the map.
//
// Invariant: W >= 1, H >= 1; ID is unique within its level.
type Room struct {
	ID int `json:"id"`
	Rect
	Type        RoomType `json:"type"`
	Description string   `json:"description"`
}

// SizeFeet returns the room's footprint in feet (5 ft per cell).
func (r Room) SizeFeet() (int, int) {
	return r.W * CellFeet, r.H * CellFeet
}

// CellFeet is the real-world length of one grid cell.
const CellFeet = 5

// Validate checks a single room's shape and type.
func (r Room) Validate() error {
	if r.W < 1 || r.H < 1 {
		return fmt.Errorf("room %d: dimensions must be >= 1, got %dx%d", r.ID, r.W, r.H)
	}
	if !r.Type.Valid() {
		return fmt.Errorf("room %d: unknown type %q", r.ID, r.Type)
	}
	return nil
}

// FindOverlap returns the first room whose rectangle intersects rect, skipping
// the room whose ID equals excludeID. Returns nil when nothing overlaps.
func FindOverlap(rect Rect, rooms []Room, excludeID int) *Room {
	for i := range rooms {
		if rooms[i].ID == excludeID {
			continue
		}
		if rect.Intersects(rooms[i].Rect) {
			return &rooms[i]
		}
	}
	return nil
}

// ValidateRooms checks every room and that no two rooms overlap or share an ID.
func ValidateRooms(rooms []Room) error {
	seen := make(map[int]bool, len(rooms))
	for i, r := range rooms {
		if err := r.Validate(); err != nil {
			return err
		}
		if seen[r.ID] {
			return fmt.Errorf("duplicate room id %d", r.ID)
		}
		seen[r.ID] = true
		for _, o := range rooms[i+1:] {
			if r.Intersects(o.Rect) {
				return fmt.Errorf("room %d overlaps room %d", r.ID, o.ID)
			}
		}
	}
	return nil
}

// AssignSpecialTypes tags rooms by their position in generation order: first
// is the entrance, last (count > 2) the boss, middle (count > 4) the treasure
// room, and the third-way room (count > 6) a trap when withTrap is set. All
// other rooms become normal.
//
// Postcondition: safe for zero or one rooms.
func AssignSpecialTypes(rooms []Room, withTrap bool) {
	n := len(rooms)
	for i := range rooms {
		rooms[i].Type = Normal
	}
	if n == 0 {
		return
	}
	rooms[0].Type = Entrance
	if n > 2 {
		rooms[n-1].Type = Boss
	}
	if n > 4 {
		rooms[n/2].Type = Treasure
	}
	if withTrap && n > 6 {
		rooms[n/3].Type = Trap
	}
}

// Renumber reassigns ids 1..N in slice order.
func Renumber(rooms []Room) {
	for i := range rooms {
		rooms[i].ID = i + 1
	}
}

// NextRoomID returns one more than the highest id in rooms.
func NextRoomID(rooms []Room) int {
	next := 1
	for _, r := range rooms {
		if r.ID >= next {
			next = r.ID + 1
		}
	}
	return next
}
