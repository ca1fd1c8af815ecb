package session

import (
	"fmt"

	"github.com/cory-johannsen/dungeonmap/internal/game/dungeon"
)

// LevelInfo summarises one level of the document.
type LevelInfo struct {
	Index int
	Name  string
	Depth int
	Rooms int
}

// Levels lists every level in document order.
func (s *Session) Levels() []LevelInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]LevelInfo, 0, len(s.doc.Levels))
	for i, l := range s.doc.Levels {
		out = append(out, LevelInfo{Index: i, Name: l.Name, Depth: l.Depth, Rooms: len(l.Rooms)})
	}
	return out
}

// CurrentLevel returns the index of the level being edited.
func (s *Session) CurrentLevel() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// AddLevel appends an empty level and makes it current.
func (s *Session) AddLevel(name string, depth int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = s.doc.AddLevel(name, depth)
	s.reroute()
	s.selectFirst()
	s.emit(EventLevelAdded)
	return s.current
}

// RemoveLevel deletes level idx. The current level keeps pointing at the same
// level when possible, otherwise at the last one.
//
// Postcondition: returns dungeon.ErrLastLevel when only one level remains.
func (s *Session) RemoveLevel(idx int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.doc.RemoveLevel(idx); err != nil {
		return err
	}
	if idx < s.current {
		s.current--
	}
	s.current = min(s.current, len(s.doc.Levels)-1)
	s.reroute()
	s.selectFirst()
	s.emit(EventLevelRemoved)
	return nil
}

// SelectLevel switches editing to level idx and fills any undescribed rooms
// on it.
func (s *Session) SelectLevel(idx int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx < 0 || idx >= len(s.doc.Levels) {
		return fmt.Errorf("level index %d out of range [0, %d)", idx, len(s.doc.Levels))
	}
	s.current = idx
	s.reroute()
	s.selectFirst()
	s.content.FillMissing(s.level().Rooms, s.params.Theme, s.dungeonLevel())
	s.emit(EventLevelSelected)
	return nil
}

// Name returns the document name.
func (s *Session) Name() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Name
}

// Document returns a deep copy of the whole document.
func (s *Session) Document() *dungeon.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneDocument(s.doc)
}

// Export encodes the document as JSON.
func (s *Session) Export() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return dungeon.Encode(s.doc)
}

// Import replaces the document with data in any supported export format and
// opens its first level.
//
// Postcondition: on error the session is unchanged.
func (s *Session) Import(data []byte) error {
	doc, err := dungeon.Decode(data)
	if err != nil {
		return err
	}
	s.Replace(doc)
	return nil
}

// Replace swaps in doc and opens its first level.
//
// Precondition: doc has at least one level.
func (s *Session) Replace(doc *dungeon.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = cloneDocument(doc)
	s.current = 0
	s.reroute()
	s.selectFirst()
	s.emit(EventImported)
}

func cloneDocument(doc *dungeon.Document) *dungeon.Document {
	out := &dungeon.Document{Name: doc.Name, Levels: make([]dungeon.Level, len(doc.Levels))}
	for i, l := range doc.Levels {
		l.Rooms = append([]dungeon.Room{}, l.Rooms...)
		l.Doors = append([]dungeon.Door{}, l.Doors...)
		out.Levels[i] = l
	}
	return out
}
