package treasure

import (
	"fmt"
	"math"
	"strings"
)

// FormatCompact renders a one-line summary such as
// "12gp, 40sp, 3 gems (160gp total), Bag of Holding". Returns "" for an empty bundle.
func FormatCompact(b Bundle) string {
	var parts []string

	var coins []string
	for i := len(Denominations) - 1; i >= 0; i-- {
		d := Denominations[i]
		if n := b.Coins[d]; n > 0 {
			coins = append(coins, fmt.Sprintf("%d%s", n, d))
		}
	}
	if len(coins) > 0 {
		parts = append(parts, strings.Join(coins, ", "))
	}

	switch len(b.Gems) {
	case 0:
	case 1:
		parts = append(parts, fmt.Sprintf("%s (%dgp)", b.Gems[0].Name, b.Gems[0].Value))
	default:
		total := 0
		for _, g := range b.Gems {
			total += g.Value
		}
		parts = append(parts, fmt.Sprintf("%d gems (%dgp total)", len(b.Gems), total))
	}

	switch len(b.ArtObjects) {
	case 0:
	case 1:
		parts = append(parts, fmt.Sprintf("%s (%dgp)", b.ArtObjects[0].Name, b.ArtObjects[0].Value))
	default:
		total := 0
		for _, a := range b.ArtObjects {
			total += a.Value
		}
		parts = append(parts, fmt.Sprintf("%d art objects (%dgp total)", len(b.ArtObjects), total))
	}

	for _, m := range b.MagicItems {
		parts = append(parts, m.Name)
	}
	return strings.Join(parts, ", ")
}

// FormatHoard renders the full markdown hoard breakdown used in DM notes.
func FormatHoard(b Bundle) string {
	var sb strings.Builder
	sb.WriteString("**Treasure Hoard**\n\n")

	if len(b.Coins) > 0 {
		sb.WriteString("**Coins:**\n")
		for _, d := range Denominations {
			if n, ok := b.Coins[d]; ok {
				fmt.Fprintf(&sb, "- %d %s\n", n, strings.ToUpper(string(d)))
			}
		}
		sb.WriteString("\n")
	}
	if len(b.Gems) > 0 {
		sb.WriteString("**Gemstones:**\n")
		for _, g := range b.Gems {
			fmt.Fprintf(&sb, "- %s (%d gp)\n", g.Name, g.Value)
		}
		sb.WriteString("\n")
	}
	if len(b.ArtObjects) > 0 {
		sb.WriteString("**Art Objects:**\n")
		for _, a := range b.ArtObjects {
			fmt.Fprintf(&sb, "- %s (%d gp)\n", a.Name, a.Value)
		}
		sb.WriteString("\n")
	}
	if len(b.MagicItems) > 0 {
		sb.WriteString("**Magic Items:**\n")
		for _, m := range b.MagicItems {
			fmt.Fprintf(&sb, "- %s (%s)\n", m.Name, m.Rarity)
		}
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "**Total Value:** ~%d gp", int(math.Round(b.TotalValue)))
	return sb.String()
}
