package dice

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Expression represents a parsed dice expression ready to be rolled.
// Precondition: Count >= 1, Sides >= 2 after successful Parse.
type Expression struct {
	Raw      string // original input string
	Count    int    // number of dice
	Sides    int    // faces per die
	Modifier int    // flat modifier (may be negative)
}

var exprPattern = regexp.MustCompile(`^(\d*)d(\d+)([+-]\d+)?$`)

// Parse parses a dice expression string into an Expression.
// Supported forms: "d20", "2d6", "1d6+2", "4d8-2".
//
// Postcondition: Returns a valid Expression or a descriptive error.
func Parse(expr string) (Expression, error) {
	if expr == "" {
		return Expression{}, fmt.Errorf("dice: empty expression")
	}
	m := exprPattern.FindStringSubmatch(strings.ToLower(strings.TrimSpace(expr)))
	if m == nil {
		return Expression{}, fmt.Errorf("dice: malformed expression %q", expr)
	}

	count := 1
	if m[1] != "" {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return Expression{}, fmt.Errorf("dice: invalid die count in %q: %w", expr, err)
		}
		count = n
	}
	if count < 1 {
		return Expression{}, fmt.Errorf("dice: invalid die count in %q: must be >= 1", expr)
	}

	sides, err := strconv.Atoi(m[2])
	if err != nil {
		return Expression{}, fmt.Errorf("dice: invalid die sides in %q: %w", expr, err)
	}
	if sides < 2 {
		return Expression{}, fmt.Errorf("dice: invalid die sides in %q: must be >= 2", expr)
	}

	modifier := 0
	if m[3] != "" {
		modifier, err = strconv.Atoi(m[3])
		if err != nil {
			return Expression{}, fmt.Errorf("dice: invalid modifier in %q: %w", expr, err)
		}
	}

	return Expression{Raw: expr, Count: count, Sides: sides, Modifier: modifier}, nil
}

// DamageTerm is one "<dice> <type>" component of a damage expression.
type DamageTerm struct {
	Dice Expression
	Type string // e.g. "piercing"; empty when untyped
}

// Damage is a parsed damage expression such as "1d8+3 piercing + 2d8 poison".
// Effect-only expressions ("restrained", "charmed 1 hour") carry no terms and
// keep their text in Effect.
type Damage struct {
	Raw    string
	Terms  []DamageTerm
	Effect string
}

// Average returns the expected damage, rounded down.
func (d Damage) Average() int {
	var twice int
	for _, t := range d.Terms {
		twice += t.Dice.Count*(t.Dice.Sides+1) + 2*t.Dice.Modifier
	}
	return twice / 2
}

// ParseDamage parses a damage expression. A leading token that is not a dice
// expression marks the whole string as an effect.
//
// Postcondition: returns an error only for an empty string or a "+"-joined
// term whose leading token looks like dice but fails to parse.
func ParseDamage(raw string) (Damage, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Damage{}, fmt.Errorf("dice: empty damage expression")
	}
	d := Damage{Raw: raw}
	for _, part := range strings.Split(s, " + ") {
		fields := strings.Fields(part)
		if len(fields) == 0 || !strings.Contains(fields[0], "d") || !startsWithDigitOrD(fields[0]) {
			if len(d.Terms) == 0 {
				return Damage{Raw: raw, Effect: s}, nil
			}
			return Damage{}, fmt.Errorf("dice: damage term %q in %q is not a dice expression", part, raw)
		}
		expr, err := Parse(fields[0])
		if err != nil {
			return Damage{}, fmt.Errorf("dice: damage %q: %w", raw, err)
		}
		d.Terms = append(d.Terms, DamageTerm{Dice: expr, Type: strings.Join(fields[1:], " ")})
	}
	return d, nil
}

func startsWithDigitOrD(tok string) bool {
	c := tok[0]
	return c == 'd' || (c >= '0' && c <= '9')
}
