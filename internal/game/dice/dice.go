// Package dice provides the randomness abstraction shared by every dungeon
// generator, plus dice-expression parsing and rolling for encounter sizes and
// treasure counts.
package dice

import "fmt"

// RollResult holds the full audit trail for a single dice roll evaluation.
//
// Postcondition: Total() == sum(Dice) + Modifier.
type RollResult struct {
	Expression string // original expression string, e.g. "2d4"
	Dice       []int  // individual die results before modifier
	Modifier   int    // flat modifier (may be negative)
}

// Total returns the sum of all die results plus the modifier.
func (r RollResult) Total() int {
	total := r.Modifier
	for _, d := range r.Dice {
		total += d
	}
	return total
}

// String returns a human-readable audit string in the format:
//
//	"2d4+1 → [3 2] +1 = 6"
//
// Precondition: r.Expression is non-empty.
func (r RollResult) String() string {
	if r.Expression == "" {
		panic("dice: RollResult.String() precondition violated: Expression must be non-empty")
	}
	return fmt.Sprintf("%s → %v %+d = %d", r.Expression, r.Dice, r.Modifier, r.Total())
}

// Source is the randomness provider for every generation step.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// Between returns a uniform random int in the closed range [lo, hi].
// When hi < lo the range collapses to lo.
func Between(src Source, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + src.Intn(hi-lo+1)
}

// Chance reports true with the given percentage probability (0-100).
func Chance(src Source, percent int) bool {
	return src.Intn(100) < percent
}

// Probability reports true with probability p, resolved to 1/10000 steps.
func Probability(src Source, p float64) bool {
	return src.Intn(10000) < int(p*10000)
}

// Pick returns a uniformly chosen element of items.
//
// Postcondition: ok is false iff items is empty.
func Pick[T any](src Source, items []T) (item T, ok bool) {
	if len(items) == 0 {
		return item, false
	}
	return items[src.Intn(len(items))], true
}
