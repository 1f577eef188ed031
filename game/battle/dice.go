package battle

import (
	"fmt"
	"math/rand"
)

// Dice is a classic tabletop dice expression: Count rolls of a
// Sides-sided die plus a flat Modifier.
type Dice struct {
	Count    int
	Sides    int
	Modifier int
}

// Roll rolls the dice with the supplied RNG. The result is never
// below Count + Modifier (each die shows at least 1).
func (d Dice) Roll(rng *rand.Rand) int {
	total := d.Modifier
	for i := 0; i < d.Count; i++ {
		total += rng.Intn(d.Sides) + 1
	}
	return total
}

// Max returns the highest possible roll.
func (d Dice) Max() int {
	return d.Count*d.Sides + d.Modifier
}

// String renders the expression in standard notation, e.g. "2d6+1".
func (d Dice) String() string {
	switch {
	case d.Modifier > 0:
		return fmt.Sprintf("%dd%d+%d", d.Count, d.Sides, d.Modifier)
	case d.Modifier < 0:
		return fmt.Sprintf("%dd%d%d", d.Count, d.Sides, d.Modifier)
	default:
		return fmt.Sprintf("%dd%d", d.Count, d.Sides)
	}
}
