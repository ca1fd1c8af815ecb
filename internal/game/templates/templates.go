// Package templates provides the hand-authored starter dungeons.
package templates

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/dungeonmap/internal/game/dungeon"
)

//go:embed data/*.yaml
var embedded embed.FS

// ErrUnknownTemplate is returned by Catalog.Get for an unregistered id.
var ErrUnknownTemplate = errors.New("unknown template")

type templateRoom struct {
	ID          int              `yaml:"id"`
	X           int              `yaml:"x"`
	Y           int              `yaml:"y"`
	W           int              `yaml:"w"`
	H           int              `yaml:"h"`
	Type        dungeon.RoomType `yaml:"type"`
	Description string           `yaml:"description"`
}

// Template is a ready-made room layout.
type Template struct {
	ID    string
	Name  string
	rooms []templateRoom
}

// UnmarshalYAML decodes the on-disk template layout.
func (t *Template) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		ID    string         `yaml:"id"`
		Name  string         `yaml:"name"`
		Rooms []templateRoom `yaml:"rooms"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	t.ID, t.Name, t.rooms = raw.ID, raw.Name, raw.Rooms
	return nil
}

// Rooms returns a fresh copy of the template's rooms.
func (t *Template) Rooms() []dungeon.Room {
	rooms := make([]dungeon.Room, 0, len(t.rooms))
	for _, r := range t.rooms {
		rooms = append(rooms, dungeon.Room{
			ID:          r.ID,
			Rect:        dungeon.Rect{X: r.X, Y: r.Y, W: r.W, H: r.H},
			Type:        r.Type,
			Description: r.Description,
		})
	}
	return rooms
}

// Validate checks that the template has an id, a name and a non-overlapping
// room set that fits the default grid.
//
// Precondition: t must not be nil.
func (t *Template) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("template: id must not be empty")
	}
	if t.Name == "" {
		return fmt.Errorf("template %q: name must not be empty", t.ID)
	}
	if len(t.rooms) == 0 {
		return fmt.Errorf("template %q: must define at least one room", t.ID)
	}
	rooms := t.Rooms()
	if err := dungeon.ValidateRooms(rooms); err != nil {
		return fmt.Errorf("template %q: %w", t.ID, err)
	}
	bounds := dungeon.Rect{W: dungeon.DefaultGrid.Cols, H: dungeon.DefaultGrid.Rows}
	for _, r := range rooms {
		if !bounds.ContainsRect(r.Rect) {
			return fmt.Errorf("template %q: room %d lies outside the %dx%d grid", t.ID, r.ID, bounds.W, bounds.H)
		}
	}
	return nil
}

// LoadTemplateFromBytes parses and validates a single template.
func LoadTemplateFromBytes(data []byte) (*Template, error) {
	var tmpl Template
	if err := yaml.Unmarshal(data, &tmpl); err != nil {
		return nil, fmt.Errorf("parsing template YAML: %w", err)
	}
	if err := tmpl.Validate(); err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// Catalog indexes templates by id.
type Catalog struct {
	byID map[string]*Template
}

// Load reads every *.yaml file in dir of fsys.
//
// Postcondition: Returns all templates or an error on the first parse,
// validation or duplicate-id failure.
func Load(fsys fs.FS, dir string) (*Catalog, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("reading template dir %q: %w", dir, err)
	}

	c := &Catalog{byID: make(map[string]*Template)}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		p := path.Join(dir, entry.Name())
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", p, err)
		}
		tmpl, err := LoadTemplateFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", p, err)
		}
		if _, dup := c.byID[tmpl.ID]; dup {
			return nil, fmt.Errorf("loading %q: duplicate template id %q", p, tmpl.ID)
		}
		c.byID[tmpl.ID] = tmpl
	}
	return c, nil
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Default returns the built-in templates.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = Load(embedded, "data")
	})
	return defaultCatalog, defaultErr
}

// MustDefault is Default for program start-up and tests.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic("templates: embedded data invalid: " + err.Error())
	}
	return c
}

// Get returns the template with id.
func (c *Catalog) Get(id string) (*Template, error) {
	t, ok := c.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTemplate, id)
	}
	return t, nil
}

// IDs returns every template id in sorted order.
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.byID))
	for id := range c.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
