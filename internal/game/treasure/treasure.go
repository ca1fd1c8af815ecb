// Package treasure rolls challenge-rated treasure bundles: coins, gems, art
// objects and magic items with a gold-piece total.
package treasure

import (
	"math"

	"github.com/cory-johannsen/dungeonmap/internal/game/dice"
)

// Gem is a valued gemstone.
type Gem struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// ArtObject is a valued art piece.
type ArtObject struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// MagicItem is a named item of some rarity.
type MagicItem struct {
	Name   string `json:"name"`
	Rarity Rarity `json:"rarity"`
}

// Bundle is the result of one treasure roll.
//
// Invariant: Coins holds only positive amounts; TotalValue >= 0.
type Bundle struct {
	Coins      map[Denomination]int `json:"coins"`
	Gems       []Gem                `json:"gems"`
	ArtObjects []ArtObject          `json:"artObjects"`
	MagicItems []MagicItem          `json:"magicItems"`
	TotalValue float64              `json:"totalValue"`
}

// Empty reports whether the bundle holds nothing.
func (b Bundle) Empty() bool {
	return len(b.Coins) == 0 && len(b.Gems) == 0 && len(b.ArtObjects) == 0 && len(b.MagicItems) == 0
}

// Options selects which categories a roll may produce.
type Options struct {
	Coins bool
	Gems  bool
	Art   bool
	Magic bool
}

// AllCategories enables every category.
var AllCategories = Options{Coins: true, Gems: true, Art: true, Magic: true}

// CoinsOnly enables coins alone.
var CoinsOnly = Options{Coins: true}

var (
	d4x1 = dice.MustParse("1d4")
	d4x2 = dice.MustParse("2d4")
	d3x1 = dice.MustParse("1d3")
	d6x1 = dice.MustParse("1d6")
)

// SnapTier maps a challenge rating onto the nearest entry of Tiers by absolute
// distance. On an exact tie the earlier (lower) tier wins.
func SnapTier(cr float64) int {
	best := Tiers[0]
	for _, tier := range Tiers[1:] {
		if math.Abs(float64(tier)-cr) < math.Abs(float64(best)-cr) {
			best = tier
		}
	}
	return best
}

// Engine rolls treasure from an injected random source.
type Engine struct {
	src dice.Source
}

// NewEngine returns an Engine drawing from src.
//
// Precondition: src must be non-nil.
func NewEngine(src dice.Source) *Engine {
	return &Engine{src: src}
}

// Generate rolls a bundle at challenge rating cr.
//
// Postcondition: gems appear only at tier >= 2, art and magic only at tier >= 5;
// every coin amount lies within the tier's range for its denomination.
func (e *Engine) Generate(cr float64, opts Options) Bundle {
	tier := SnapTier(cr)
	b := Bundle{
		Coins:      map[Denomination]int{},
		Gems:       []Gem{},
		ArtObjects: []ArtObject{},
		MagicItems: []MagicItem{},
	}

	if opts.Coins {
		for _, d := range Denominations {
			r := CoinRangeFor(tier, d)
			if r.Max <= 0 {
				continue
			}
			if amount := dice.Between(e.src, r.Min, r.Max); amount > 0 {
				b.Coins[d] = amount
				b.TotalValue += float64(amount) * d.GoldValue()
			}
		}
	}

	if opts.Gems && tier >= 2 {
		count := dice.Count(d4x1, e.src)
		values := []int{10, 50, 100}
		switch {
		case tier >= 15:
			count, values = dice.Count(d4x2, e.src), []int{500, 1000, 5000}
		case tier >= 10:
			count, values = dice.Count(d4x2, e.src), []int{100, 500, 1000}
		}
		for i := 0; i < count; i++ {
			value, _ := dice.Pick(e.src, values)
			name, _ := dice.Pick(e.src, gemsByValue[value])
			b.Gems = append(b.Gems, Gem{Name: name, Value: value})
			b.TotalValue += float64(value)
		}
	}

	if opts.Art && tier >= 5 {
		var count int
		var values []int
		switch {
		case tier >= 15:
			count, values = dice.Count(d6x1, e.src), []int{750, 2500, 7500}
		case tier >= 10:
			count, values = dice.Count(d4x1, e.src), []int{250, 750, 2500}
		default:
			count, values = dice.Count(d3x1, e.src), []int{25, 250}
		}
		for i := 0; i < count; i++ {
			value, _ := dice.Pick(e.src, values)
			name, _ := dice.Pick(e.src, artByValue[value])
			b.ArtObjects = append(b.ArtObjects, ArtObject{Name: name, Value: value})
			b.TotalValue += float64(value)
		}
	}

	if opts.Magic && tier >= 5 {
		rarity := RarityFor(tier)
		count := 1
		switch {
		case tier >= 15:
			count = dice.Count(d4x1, e.src)
		case tier >= 10:
			count = dice.Count(d3x1, e.src)
		}
		for i := 0; i < count; i++ {
			name, _ := dice.Pick(e.src, magicByRarity[rarity])
			b.MagicItems = append(b.MagicItems, MagicItem{Name: name, Rarity: rarity})
		}
	}

	return b
}
