// Package session holds per-document editing state: the dungeon document, the
// current level, the selected room and the generation parameters, together
// with the generators that act on them. A Manager tracks live sessions.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/cory-johannsen/dungeonmap/internal/game/connectivity"
	"github.com/cory-johannsen/dungeonmap/internal/game/content"
	"github.com/cory-johannsen/dungeonmap/internal/game/dice"
	"github.com/cory-johannsen/dungeonmap/internal/game/doors"
	"github.com/cory-johannsen/dungeonmap/internal/game/dungeon"
	"github.com/cory-johannsen/dungeonmap/internal/game/generator"
	"github.com/cory-johannsen/dungeonmap/internal/game/tables"
	"github.com/cory-johannsen/dungeonmap/internal/game/templates"
)

// Room edit errors.
var (
	ErrRoomOverlap  = errors.New("room overlaps an existing room")
	ErrRoomNotFound = errors.New("room not found")
	ErrOutOfBounds  = errors.New("room lies outside the grid")
)

// Deps are the shared read-only collaborators every session uses.
type Deps struct {
	Tables    *tables.Tables
	Templates *templates.Catalog
	Logger    *zap.Logger
}

// Session is one open dungeon document. All methods are safe for concurrent use.
//
// Invariant: 0 <= current < len(doc.Levels); selected is 0 or the id of a room
// on the current level; corridors always reflect the current level's rooms.
type Session struct {
	ID string

	mu        sync.Mutex
	doc       *dungeon.Document
	current   int
	selected  int
	params    dungeon.Params
	grid      dungeon.Grid
	corridors []connectivity.Corridor
	src       dice.Source
	layouts   *generator.Registry
	content   *content.Generator
	templates *templates.Catalog
	logger    *zap.Logger
	notify    func(Event)
}

// New opens doc in a session drawing all randomness from src.
//
// Precondition: doc has at least one level; params passed Validate; deps are non-nil.
func New(id string, doc *dungeon.Document, params dungeon.Params, grid dungeon.Grid, src dice.Source, deps Deps) *Session {
	logger := deps.Logger.With(zap.String("session", id))
	s := &Session{
		ID:        id,
		doc:       doc,
		params:    params,
		grid:      grid,
		src:       src,
		layouts:   generator.NewDefaultRegistry(src, logger),
		content:   content.NewGenerator(deps.Tables, src),
		templates: deps.Templates,
		logger:    logger,
	}
	s.reroute()
	s.selectFirst()
	return s
}

func (s *Session) level() *dungeon.Level {
	return &s.doc.Levels[s.current]
}

func (s *Session) reroute() {
	s.corridors = connectivity.Route(s.level().Rooms, s.src)
}

func (s *Session) selectFirst() {
	s.selected = 0
	if rooms := s.level().Rooms; len(rooms) > 0 {
		s.selected = rooms[0].ID
	}
}

func (s *Session) roomIndex(id int) int {
	for i, r := range s.level().Rooms {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func (s *Session) emit(kind EventKind) {
	if s.notify == nil {
		return
	}
	s.notify(Event{SessionID: s.ID, Kind: kind, Level: s.current, Rooms: len(s.level().Rooms)})
}

func (s *Session) dungeonLevel() int {
	return s.params.DungeonLevel + s.current
}

// Params returns the generation parameters.
func (s *Session) Params() dungeon.Params {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params
}

// SetParams replaces the generation parameters.
//
// Postcondition: on error the previous parameters are kept.
func (s *Session) SetParams(p dungeon.Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.params = p
	return nil
}

// Grid returns the map dimensions.
func (s *Session) Grid() dungeon.Grid {
	return s.grid
}

// DungeonLevel returns the depth used for challenge ratings: the configured
// dungeon level plus the current level index.
func (s *Session) DungeonLevel() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dungeonLevel()
}

// Regenerate replaces the current level's rooms with a fresh layout, drops its
// doors, reroutes corridors, selects the first room and fills descriptions.
//
// Postcondition: returns the number of rooms placed; a short or empty layout
// is not an error.
func (s *Session) Regenerate(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rooms, err := s.layouts.Generate(ctx, s.params, s.grid)
	if err != nil {
		return 0, err
	}
	if rooms == nil {
		rooms = []dungeon.Room{}
	}
	lvl := s.level()
	lvl.Rooms = rooms
	lvl.Doors = []dungeon.Door{}
	s.reroute()
	s.selectFirst()
	filled := s.content.FillMissing(lvl.Rooms, s.params.Theme, s.dungeonLevel())

	s.logger.Info("dungeon regenerated",
		zap.String("algorithm", string(s.params.Algorithm)),
		zap.Int("level", s.current),
		zap.Int("rooms", len(rooms)),
		zap.Int("described", filled),
	)
	s.emit(EventRegenerated)
	return len(rooms), nil
}

// FillDescriptions writes generated text into every undescribed room on the
// current level and returns how many were filled.
func (s *Session) FillDescriptions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.content.FillMissing(s.level().Rooms, s.params.Theme, s.dungeonLevel())
	if n > 0 {
		s.emit(EventDescribed)
	}
	return n
}

// AutoDetectDoors adds a door wherever a corridor meets a room wall on the
// current level and returns the doors added.
func (s *Session) AutoDetectDoors() []dungeon.Door {
	s.mu.Lock()
	defer s.mu.Unlock()
	lvl := s.level()
	added := doors.AutoDetect(lvl.Rooms, s.wallGrid(), lvl.Doors, s.src)
	lvl.Doors = append(lvl.Doors, added...)
	s.logger.Debug("doors detected", zap.Int("added", len(added)))
	if len(added) > 0 {
		s.emit(EventDoors)
	}
	return added
}

func (s *Session) wallGrid() *connectivity.WallGrid {
	return connectivity.NewWallGrid(s.grid, s.level().Rooms, s.corridors)
}

// WallGrid returns the wall-occupancy grid of the current level.
func (s *Session) WallGrid() *connectivity.WallGrid {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wallGrid()
}

// Corridors returns the routed corridors of the current level.
func (s *Session) Corridors() []connectivity.Corridor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]connectivity.Corridor(nil), s.corridors...)
}

// Rooms returns a copy of the current level's rooms.
func (s *Session) Rooms() []dungeon.Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]dungeon.Room{}, s.level().Rooms...)
}

// Doors returns a copy of the current level's doors.
func (s *Session) Doors() []dungeon.Door {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]dungeon.Door{}, s.level().Doors...)
}

// Renumber reassigns room ids 1..N in list order, carries door ownership
// across, and selects the first room.
func (s *Session) Renumber() {
	s.mu.Lock()
	defer s.mu.Unlock()
	lvl := s.level()
	remap := make(map[int]int, len(lvl.Rooms))
	for i, r := range lvl.Rooms {
		remap[r.ID] = i + 1
	}
	dungeon.Renumber(lvl.Rooms)
	for i := range lvl.Doors {
		if id, ok := remap[lvl.Doors[i].RoomID]; ok {
			lvl.Doors[i].RoomID = id
		}
	}
	s.reroute()
	s.selectFirst()
	s.emit(EventRenumbered)
}

// LoadTemplate replaces the current level with a built-in template's rooms.
func (s *Session) LoadTemplate(id string) error {
	tmpl, err := s.templates.Get(id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	lvl := s.level()
	lvl.Rooms = tmpl.Rooms()
	lvl.Doors = []dungeon.Door{}
	s.reroute()
	s.selectFirst()
	s.logger.Info("template loaded", zap.String("template", id), zap.Int("rooms", len(lvl.Rooms)))
	s.emit(EventTemplate)
	return nil
}

func (s *Session) checkPlacement(rect dungeon.Rect, excludeID int) error {
	if rect.W < 1 || rect.H < 1 || !(dungeon.Rect{W: s.grid.Cols, H: s.grid.Rows}).ContainsRect(rect) {
		return fmt.Errorf("%w: %+v in %dx%d", ErrOutOfBounds, rect, s.grid.Cols, s.grid.Rows)
	}
	if other := dungeon.FindOverlap(rect, s.level().Rooms, excludeID); other != nil {
		return fmt.Errorf("%w: room %d", ErrRoomOverlap, other.ID)
	}
	return nil
}

// AddRoom places a new undescribed room on the current level and selects it.
//
// Postcondition: returns ErrOutOfBounds or ErrRoomOverlap without changing
// the level when the rectangle does not fit.
func (s *Session) AddRoom(rect dungeon.Rect, rt dungeon.RoomType) (dungeon.Room, error) {
	if rt == "" {
		rt = dungeon.Normal
	}
	if !rt.Valid() {
		return dungeon.Room{}, fmt.Errorf("unknown room type %q", rt)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkPlacement(rect, 0); err != nil {
		return dungeon.Room{}, err
	}
	lvl := s.level()
	room := dungeon.Room{ID: dungeon.NextRoomID(lvl.Rooms), Rect: rect, Type: rt}
	lvl.Rooms = append(lvl.Rooms, room)
	s.selected = room.ID
	s.reroute()
	s.emit(EventRoomAdded)
	return room, nil
}

// MoveRoom moves room id so its top-left cell is (x, y). Its doors move with it.
func (s *Session) MoveRoom(id, x, y int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.roomIndex(id)
	if idx < 0 {
		return fmt.Errorf("%w: %d", ErrRoomNotFound, id)
	}
	lvl := s.level()
	room := &lvl.Rooms[idx]
	dest := dungeon.Rect{X: x, Y: y, W: room.W, H: room.H}
	if err := s.checkPlacement(dest, id); err != nil {
		return err
	}
	dx, dy := x-room.X, y-room.Y
	room.Rect = dest
	for i := range lvl.Doors {
		if lvl.Doors[i].RoomID == id {
			lvl.Doors[i].X += dx
			lvl.Doors[i].Y += dy
		}
	}
	s.reroute()
	s.emit(EventRoomMoved)
	return nil
}

// DeleteRoom removes room id and its doors from the current level.
func (s *Session) DeleteRoom(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.roomIndex(id)
	if idx < 0 {
		return fmt.Errorf("%w: %d", ErrRoomNotFound, id)
	}
	lvl := s.level()
	lvl.Rooms = append(lvl.Rooms[:idx], lvl.Rooms[idx+1:]...)
	kept := lvl.Doors[:0]
	for _, d := range lvl.Doors {
		if d.RoomID != id {
			kept = append(kept, d)
		}
	}
	lvl.Doors = kept
	if s.selected == id {
		s.selectFirst()
	}
	s.reroute()
	s.emit(EventRoomDeleted)
	return nil
}

// Describe sets the description of room id. An empty text clears it so the
// next fill regenerates it.
func (s *Session) Describe(id int, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.roomIndex(id)
	if idx < 0 {
		return fmt.Errorf("%w: %d", ErrRoomNotFound, id)
	}
	s.level().Rooms[idx].Description = text
	s.emit(EventDescribed)
	return nil
}

// Select marks room id as selected.
func (s *Session) Select(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.roomIndex(id) < 0 {
		return fmt.Errorf("%w: %d", ErrRoomNotFound, id)
	}
	s.selected = id
	return nil
}

// Selected returns the selected room, or false when nothing is selected.
func (s *Session) Selected() (dungeon.Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.roomIndex(s.selected); idx >= 0 {
		return s.level().Rooms[idx], true
	}
	return dungeon.Room{}, false
}
