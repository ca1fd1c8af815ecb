package dungeon

// Direction is the compass side of a room a door sits on.
type Direction string

// Compass directions for room walls.
const (
	North Direction = "north"
	South Direction = "south"
	East  Direction = "east"
	West  Direction = "west"
)

// Opposite returns the facing direction, or "" for an unknown value.
func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	case West:
		return East
	default:
		return ""
	}
}

// Step returns the unit offset pointing out of a wall facing d.
func (d Direction) Step() (int, int) {
	switch d {
	case North:
		return 0, -1
	case South:
		return 0, 1
	case East:
		return 1, 0
	case West:
		return -1, 0
	default:
		return 0, 0
	}
}

// DoorType distinguishes the door symbols a map can carry.
type DoorType string

// Door symbol types.
const (
	DoorNormal DoorType = "door"
	DoorSecret DoorType = "secret_door"
	DoorLocked DoorType = "locked_door"
	Portcullis DoorType = "portcullis"
)

// Door is a door symbol placed on a room's boundary cell.
type Door struct {
	ID        string    `json:"id"`
	Type      DoorType  `json:"type"`
	X         int       `json:"x"`
	Y         int       `json:"y"`
	Direction Direction `json:"direction"`
	RoomID    int       `json:"roomId"`
}

// DoorAt reports whether any door in doors occupies cell (x, y).
func DoorAt(doors []Door, x, y int) bool {
	for _, d := range doors {
		if d.X == x && d.Y == y {
			return true
		}
	}
	return false
}
