// Package content composes room descriptions from the random tables and the
// treasure engine, keyed by room type, theme and dungeon level.
package content

import (
	"fmt"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cory-johannsen/dungeonmap/internal/game/dice"
	"github.com/cory-johannsen/dungeonmap/internal/game/dungeon"
	"github.com/cory-johannsen/dungeonmap/internal/game/tables"
	"github.com/cory-johannsen/dungeonmap/internal/game/treasure"
)

var (
	guardCount   = dice.MustParse("1d2")
	monsterCount = dice.MustParse("1d3")
)

// crByLevel maps dungeon levels 1-10 to a challenge rating.
var crByLevel = map[int]float64{
	1: 0.5, 2: 1, 3: 2, 4: 3, 5: 4,
	6: 5, 7: 6, 8: 7, 9: 8, 10: 9,
}

// CRForLevel returns the challenge rating for dungeon level. Levels outside
// 1-10 extrapolate to max(0.5, level-0.5).
func CRForLevel(level int) float64 {
	if cr, ok := crByLevel[level]; ok {
		return cr
	}
	return math.Max(0.5, float64(level)-0.5)
}

// Generator writes room descriptions.
type Generator struct {
	tables   *tables.Tables
	treasure *treasure.Engine
	src      dice.Source
}

// NewGenerator returns a Generator reading t and drawing from src.
//
// Precondition: t must have passed Validate; src must be non-nil.
func NewGenerator(t *tables.Tables, src dice.Source) *Generator {
	return &Generator{tables: t, treasure: treasure.NewEngine(src), src: src}
}

// Generate composes a description for room.
//
// Postcondition: the result begins with "A {w*5}x{h*5}ft chamber.".
func (g *Generator) Generate(room dungeon.Room, theme dungeon.Theme, level int) string {
	widthFt, heightFt := room.SizeFeet()
	desc := fmt.Sprintf("A %dx%dft chamber.", widthFt, heightFt)

	if line, ok := dice.Pick(g.src, g.tables.Atmosphere[theme]); ok {
		desc += " " + line + "."
	}

	var body string
	switch room.Type {
	case dungeon.Entrance:
		body = g.entrance()
	case dungeon.Treasure:
		body = g.treasureRoom(level)
	case dungeon.Trap:
		body = g.trapRoom()
	case dungeon.Boss:
		body = g.bossRoom(level)
	default:
		body = g.normalRoom(level)
	}
	if body != "" {
		desc += " " + body
	}
	return desc
}

// FillMissing writes a description into every room whose description is
// the empty string and returns the number of rooms filled. Any existing text,
// whitespace included, is kept.
func (g *Generator) FillMissing(rooms []dungeon.Room, theme dungeon.Theme, level int) int {
	filled := 0
	for i := range rooms {
		if rooms[i].Description != "" {
			continue
		}
		rooms[i].Description = g.Generate(rooms[i], theme, level)
		filled++
	}
	return filled
}

func (g *Generator) entrance() string {
	line, _ := dice.Pick(g.src, g.tables.Entrances)
	out := line + "."
	if dice.Chance(g.src, 30) {
		if guard, ok := dice.Pick(g.src, g.tables.Guards()); ok {
			n := dice.Count(guardCount, g.src)
			out += fmt.Sprintf(" %s (AC %d, HP %d, %s) stand watch.", plural(n, guard.Name), guard.AC, guard.HP, guard.Attack)
		}
	}
	return out
}

func (g *Generator) treasureRoom(level int) string {
	hoard := g.treasure.Generate(CRForLevel(level), treasure.AllCategories)
	container, _ := dice.Pick(g.src, g.tables.Containers)
	out := capitalize(container) + " lies empty."
	if loot := treasure.FormatCompact(hoard); loot != "" {
		out = fmt.Sprintf("%s contains %s.", capitalize(container), loot)
	}
	if dice.Chance(g.src, 40) {
		if trap, ok := dice.Pick(g.src, g.tables.Traps); ok {
			out += fmt.Sprintf(" Trapped (DC %d to detect, %s damage).", trap.DC, trap.Damage)
		}
	}
	return out
}

func (g *Generator) trapRoom() string {
	trap, _ := dice.Pick(g.src, g.tables.Traps)
	trigger, _ := dice.Pick(g.src, g.tables.TrapTriggers)
	return fmt.Sprintf("%s triggers %s (DC %d to spot/disarm, %s damage).", trigger, strings.ToLower(trap.Name), trap.DC, trap.Damage)
}

func (g *Generator) bossRoom(level int) string {
	cr := CRForLevel(level) + 2
	out := "A powerful creature lairs here."
	if boss, ok := dice.Pick(g.src, g.tables.MonstersAt(cr)); ok {
		out = fmt.Sprintf("%s (AC %d, HP %d, %s) lairs here.", boss.Name, boss.AC, boss.HP, boss.Attack)
	}
	if loot := treasure.FormatCompact(g.treasure.Generate(cr+2, treasure.AllCategories)); loot != "" {
		out += " Treasure: " + loot + "."
	}
	return out
}

func (g *Generator) normalRoom(level int) string {
	var parts []string
	if line, ok := dice.Pick(g.src, g.tables.Dressing[dungeon.Normal]); ok {
		parts = append(parts, capitalize(line)+".")
	}
	cr := CRForLevel(level)
	if dice.Chance(g.src, 50) {
		if m, ok := dice.Pick(g.src, g.tables.MonstersAt(cr)); ok {
			n := dice.Count(monsterCount, g.src)
			parts = append(parts, fmt.Sprintf("%s (AC %d, HP %d, %s).", plural(n, m.Name), m.AC, m.HP, m.Attack))
		}
	}
	if dice.Chance(g.src, 30) {
		if loot := treasure.FormatCompact(g.treasure.Generate(math.Max(0, cr-1), treasure.CoinsOnly)); loot != "" {
			parts = append(parts, "Contains "+loot+".")
		}
	}
	return strings.Join(parts, " ")
}

func plural(n int, name string) string {
	if n > 1 {
		return fmt.Sprintf("%d %ss", n, name)
	}
	return fmt.Sprintf("%d %s", n, name)
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
