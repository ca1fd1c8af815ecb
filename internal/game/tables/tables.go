// Package tables holds the static random-table reference data used to stock
// rooms: theme atmosphere, room dressing, traps, monsters by challenge rating,
// and treasure containers. The data ships as embedded YAML.
package tables

import (
	"embed"
	"fmt"
	"io/fs"
	"math"
	"path"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/dungeonmap/internal/game/dice"
	"github.com/cory-johannsen/dungeonmap/internal/game/dungeon"
)

//go:embed data/*.yaml
var embedded embed.FS

// SaveAbility is the ability a saving throw is made with.
type SaveAbility string

var validSaves = map[SaveAbility]bool{
	"STR": true, "DEX": true, "CON": true, "INT": true, "WIS": true, "CHA": true,
}

// Trap is an immutable trap template.
type Trap struct {
	Name    string      `yaml:"name"`
	Trigger string      `yaml:"trigger"`
	DC      int         `yaml:"dc"`
	Damage  string      `yaml:"damage"`
	Save    SaveAbility `yaml:"save"`
}

// Monster is an immutable stat-block summary.
type Monster struct {
	Name   string `yaml:"name"`
	AC     int    `yaml:"ac"`
	HP     int    `yaml:"hp"`
	Attack string `yaml:"attack"`
	Damage string `yaml:"damage"`
	XP     int    `yaml:"xp"`
}

// MonsterTier groups the monsters sharing one challenge rating.
type MonsterTier struct {
	CR       float64   `yaml:"cr"`
	Monsters []Monster `yaml:"monsters"`
}

// Tables is the full set of random tables.
type Tables struct {
	Atmosphere   map[dungeon.Theme][]string    `yaml:"atmosphere"`
	Dressing     map[dungeon.RoomType][]string `yaml:"dressing"`
	Traps        []Trap                        `yaml:"traps"`
	MonsterTiers []MonsterTier                 `yaml:"monsters"`
	Containers   []string                      `yaml:"containers"`
	Adjectives   []string                      `yaml:"adjectives"`
	Entrances    []string                      `yaml:"entrances"`
	TrapTriggers []string                      `yaml:"trap_triggers"`
}

// Validate checks the table invariants.
//
// Postcondition: Returns nil iff every theme has atmosphere lines, traps and
// monsters carry parseable damage, tiers are strictly ascending by CR, and the
// container, entrance and trigger pools are non-empty.
func (t *Tables) Validate() error {
	for _, theme := range dungeon.Themes {
		if len(t.Atmosphere[theme]) == 0 {
			return fmt.Errorf("tables: theme %q has no atmosphere lines", theme)
		}
	}
	for rt := range t.Dressing {
		if !rt.Valid() {
			return fmt.Errorf("tables: dressing keyed by unknown room type %q", rt)
		}
	}
	if len(t.Traps) == 0 {
		return fmt.Errorf("tables: no traps defined")
	}
	for i, tr := range t.Traps {
		if tr.Name == "" {
			return fmt.Errorf("tables: trap[%d] must have a name", i)
		}
		if tr.DC < 1 {
			return fmt.Errorf("tables: trap %q dc must be >= 1, got %d", tr.Name, tr.DC)
		}
		if !validSaves[tr.Save] {
			return fmt.Errorf("tables: trap %q has unknown save %q", tr.Name, tr.Save)
		}
		if _, err := dice.ParseDamage(tr.Damage); err != nil {
			return fmt.Errorf("tables: trap %q: %w", tr.Name, err)
		}
	}
	for i, tier := range t.MonsterTiers {
		if i > 0 && tier.CR <= t.MonsterTiers[i-1].CR {
			return fmt.Errorf("tables: monster tiers must be strictly ascending, %v follows %v", tier.CR, t.MonsterTiers[i-1].CR)
		}
		if len(tier.Monsters) == 0 {
			return fmt.Errorf("tables: monster tier %v is empty", tier.CR)
		}
		for _, m := range tier.Monsters {
			if m.Name == "" || m.AC < 1 || m.HP < 1 {
				return fmt.Errorf("tables: monster %q at cr %v needs a name, ac >= 1 and hp >= 1", m.Name, tier.CR)
			}
			if _, err := dice.ParseDamage(m.Damage); err != nil {
				return fmt.Errorf("tables: monster %q: %w", m.Name, err)
			}
		}
	}
	if len(t.Containers) == 0 {
		return fmt.Errorf("tables: no containers defined")
	}
	if len(t.Entrances) == 0 {
		return fmt.Errorf("tables: no entrance lines defined")
	}
	if len(t.TrapTriggers) == 0 {
		return fmt.Errorf("tables: no trap triggers defined")
	}
	return nil
}

// MonstersAt returns the tier for cr, falling back to the tier at floor(cr).
// Returns nil when neither rating has an entry.
func (t *Tables) MonstersAt(cr float64) []Monster {
	if ms := t.exactTier(cr); ms != nil {
		return ms
	}
	return t.exactTier(math.Floor(cr))
}

// Guards returns the lowest-rated guard pool: CR 1/4, else CR 1/2.
func (t *Tables) Guards() []Monster {
	if ms := t.exactTier(0.25); ms != nil {
		return ms
	}
	return t.exactTier(0.5)
}

func (t *Tables) exactTier(cr float64) []Monster {
	for _, tier := range t.MonsterTiers {
		if tier.CR == cr {
			return tier.Monsters
		}
	}
	return nil
}

// Load reads every *.yaml file in fsys (non-recursively) and merges them into
// one Tables value, then validates it.
//
// Postcondition: Returns a validated *Tables or an error naming the bad file.
func Load(fsys fs.FS, dir string) (*Tables, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("reading tables dir %q: %w", dir, err)
	}
	t := &Tables{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		p := path.Join(dir, entry.Name())
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", p, err)
		}
		// Each file fills a disjoint subset of fields.
		if err := yaml.Unmarshal(data, t); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", p, err)
		}
	}
	sort.SliceStable(t.MonsterTiers, func(i, j int) bool { return t.MonsterTiers[i].CR < t.MonsterTiers[j].CR })
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

var (
	defaultOnce   sync.Once
	defaultTables *Tables
	defaultErr    error
)

// Default returns the embedded tables. The result is shared and must be
// treated as read-only.
func Default() (*Tables, error) {
	defaultOnce.Do(func() {
		defaultTables, defaultErr = Load(embedded, "data")
	})
	return defaultTables, defaultErr
}

// MustDefault is Default for program start-up and tests.
func MustDefault() *Tables {
	t, err := Default()
	if err != nil {
		panic("tables: embedded data invalid: " + err.Error())
	}
	return t
}
