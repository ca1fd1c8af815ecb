package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cory-johannsen/dungeonmap/internal/game/connectivity"
	"github.com/cory-johannsen/dungeonmap/internal/game/dungeon"
	"github.com/cory-johannsen/dungeonmap/internal/game/session"
)

// snapshot is everything printed for one generated session.
type snapshot struct {
	Name      string                  `json:"name"`
	Seed      uint64                  `json:"seed,omitempty"`
	Params    dungeon.Params          `json:"params"`
	Rooms     []dungeon.Room          `json:"rooms"`
	Doors     []dungeon.Door          `json:"doors"`
	Corridors []connectivity.Corridor `json:"corridors"`
	walls     *connectivity.WallGrid
}

func takeSnapshot(sess *session.Session, seed uint64) snapshot {
	return snapshot{
		Name:      sess.Name(),
		Seed:      seed,
		Params:    sess.Params(),
		Rooms:     sess.Rooms(),
		Doors:     sess.Doors(),
		Corridors: sess.Corridors(),
		walls:     sess.WallGrid(),
	}
}

// drawMap overlays doors ('+') and room ids on the wall grid.
func drawMap(walls *connectivity.WallGrid, rooms []dungeon.Room, doors []dungeon.Door) string {
	rows := strings.Split(strings.TrimSuffix(walls.String(), "\n"), "\n")
	cells := make([][]byte, len(rows))
	for i, r := range rows {
		cells[i] = []byte(r)
	}
	put := func(x, y int, c byte) {
		if y >= 0 && y < len(cells) && x >= 0 && x < len(cells[y]) {
			cells[y][x] = c
		}
	}
	for _, d := range doors {
		put(d.X, d.Y, '+')
	}
	for _, r := range rooms {
		label := strconv.Itoa(r.ID)
		if len(label) > r.W {
			continue
		}
		for i := 0; i < len(label); i++ {
			put(r.X+i, r.Y, label[i])
		}
	}
	var b strings.Builder
	for _, row := range cells {
		b.Write(row)
		b.WriteByte('\n')
	}
	return b.String()
}

func writeText(w io.Writer, s snapshot) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d rooms, %d corridors, %d doors (%s, %s, %s)\n",
		s.Name, len(s.Rooms), len(s.Corridors), len(s.Doors), s.Params.Algorithm, s.Params.Size, s.Params.Theme)
	b.WriteString(drawMap(s.walls, s.Rooms, s.Doors))
	for _, r := range s.Rooms {
		fmt.Fprintf(&b, "\n#%d %s at (%d,%d) %dx%d\n  %s\n", r.ID, r.Type, r.X, r.Y, r.W, r.H, r.Description)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeJSON(w io.Writer, snaps []snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if len(snaps) == 1 {
		return enc.Encode(snaps[0])
	}
	return enc.Encode(snaps)
}
