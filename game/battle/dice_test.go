package battle

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiceRollBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	d := Dice{Count: 2, Sides: 6, Modifier: 1}

	for i := 0; i < 200; i++ {
		v := d.Roll(rng)
		assert.GreaterOrEqual(t, v, 3, "minimum is count + modifier")
		assert.LessOrEqual(t, v, 13)
	}
}

func TestDiceRollDeterministic(t *testing.T) {
	d := Dice{Count: 1, Sides: 25, Modifier: 3}
	a := d.Roll(rand.New(rand.NewSource(42)))
	b := d.Roll(rand.New(rand.NewSource(42)))
	assert.Equal(t, a, b, "same seed should produce same roll")
}

func TestDiceString(t *testing.T) {
	assert.Equal(t, "2d6+1", Dice{Count: 2, Sides: 6, Modifier: 1}.String())
	assert.Equal(t, "1d10", Dice{Count: 1, Sides: 10}.String())
	assert.Equal(t, "1d4-2", Dice{Count: 1, Sides: 4, Modifier: -2}.String())
}

func TestDiceMax(t *testing.T) {
	assert.Equal(t, 13, Dice{Count: 2, Sides: 6, Modifier: 1}.Max())
}
