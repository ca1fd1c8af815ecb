package treasure

// Denomination is a coin type.
type Denomination string

// Coin denominations, lowest first.
const (
	CP Denomination = "cp"
	SP Denomination = "sp"
	EP Denomination = "ep"
	GP Denomination = "gp"
	PP Denomination = "pp"
)

// Denominations lists coins in roll order.
var Denominations = []Denomination{CP, SP, EP, GP, PP}

// GoldValue returns the worth of one coin in gold pieces.
func (d Denomination) GoldValue() float64 {
	switch d {
	case CP:
		return 0.01
	case SP:
		return 0.1
	case EP:
		return 0.5
	case GP:
		return 1
	case PP:
		return 10
	default:
		return 0
	}
}

// Tiers are the challenge ratings the treasure tables are keyed by.
var Tiers = []int{0, 1, 2, 5, 10, 15, 20}

// CoinRange is an inclusive roll range.
type CoinRange struct {
	Min int
	Max int
}

var coinsByTier = map[int]map[Denomination]CoinRange{
	0:  {CP: {0, 100}, SP: {0, 10}, EP: {0, 5}, GP: {0, 1}, PP: {0, 0}},
	1:  {CP: {0, 200}, SP: {0, 50}, EP: {0, 10}, GP: {0, 10}, PP: {0, 1}},
	2:  {CP: {0, 500}, SP: {0, 100}, EP: {0, 50}, GP: {0, 50}, PP: {0, 5}},
	5:  {CP: {0, 1000}, SP: {100, 500}, EP: {10, 100}, GP: {10, 100}, PP: {0, 10}},
	10: {CP: {0, 0}, SP: {0, 500}, EP: {0, 200}, GP: {100, 1000}, PP: {10, 100}},
	15: {CP: {0, 0}, SP: {0, 0}, EP: {0, 500}, GP: {500, 5000}, PP: {50, 500}},
	20: {CP: {0, 0}, SP: {0, 0}, EP: {0, 0}, GP: {1000, 10000}, PP: {100, 1000}},
}

// CoinRangeFor returns the roll range of d at tier. Unknown tiers yield {0, 0}.
func CoinRangeFor(tier int, d Denomination) CoinRange {
	return coinsByTier[tier][d]
}

var gemsByValue = map[int][]string{
	10:   {"Azurite", "Banded agate", "Blue quartz", "Eye agate", "Hematite", "Lapis lazuli", "Malachite", "Moss agate", "Obsidian", "Rhodochrosite", "Tiger eye", "Turquoise"},
	50:   {"Bloodstone", "Carnelian", "Chalcedony", "Chrysoprase", "Citrine", "Jasper", "Moonstone", "Onyx", "Quartz", "Sardonyx", "Star rose quartz", "Zircon"},
	100:  {"Amber", "Amethyst", "Chrysoberyl", "Coral", "Garnet", "Jade", "Jet", "Pearl", "Spinel", "Tourmaline"},
	500:  {"Alexandrite", "Aquamarine", "Black pearl", "Blue spinel", "Peridot", "Topaz"},
	1000: {"Black opal", "Blue sapphire", "Emerald", "Fire opal", "Opal", "Star ruby", "Star sapphire", "Yellow sapphire"},
	5000: {"Black sapphire", "Diamond", "Jacinth", "Ruby"},
}

var artByValue = map[int][]string{
	25:   {"Silver ewer", "Carved bone statuette", "Small gold bracelet", "Cloth-of-gold vestments"},
	250:  {"Gold ring set with bloodstones", "Carved ivory statuette", "Large gold bracelet", "Silver necklace with a gemstone pendant"},
	750:  {"Silver chalice with moonstones", "Silver-plated sword with jet set in hilt", "Carved harp of exotic wood with ivory inlay", "Small gold idol"},
	2500: {"Gold dragon comb with red garnet eyes", "Jeweled gold crown", "Jeweled platinum ring", "Gold music box"},
	7500: {"Jeweled gold crown", "Jeweled platinum ring", "Small gold idol", "Gold dragon comb with red garnet eyes"},
}

// Rarity grades a magic item.
type Rarity string

// Magic item rarities.
const (
	Common    Rarity = "common"
	Uncommon  Rarity = "uncommon"
	Rare      Rarity = "rare"
	VeryRare  Rarity = "veryRare"
	Legendary Rarity = "legendary"
)

var magicByRarity = map[Rarity][]string{
	Common:    {"Potion of Healing", "Spell Scroll (cantrip)", "Potion of Climbing", "Potion of Animal Friendship"},
	Uncommon:  {"Bag of Holding", "Potion of Greater Healing", "+1 Weapon", "Boots of Elvenkind", "Cloak of Protection", "Spell Scroll (1st level)", "Wand of Magic Missiles"},
	Rare:      {"+2 Weapon", "Flame Tongue", "Potion of Superior Healing", "Ring of Spell Storing", "Wand of Fireballs", "Boots of Speed", "Bracers of Defense"},
	VeryRare:  {"+3 Weapon", "Belt of Giant Strength (Fire)", "Cloak of Invisibility", "Manual of Bodily Health", "Ring of Regeneration", "Spell Scroll (6th level)"},
	Legendary: {"Vorpal Sword", "Ring of Three Wishes", "Staff of the Magi", "Holy Avenger", "Luck Blade", "Sphere of Annihilation"},
}

// RarityFor returns the magic item rarity rolled at tier.
func RarityFor(tier int) Rarity {
	switch {
	case tier >= 20:
		return Legendary
	case tier >= 15:
		return VeryRare
	case tier >= 10:
		return Rare
	case tier >= 5:
		return Uncommon
	default:
		return Common
	}
}
