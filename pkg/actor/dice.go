package actor

import (
	"math/rand/v2"

	"github.com/jwebster45206/ai-dungeon-master/pkg/dungeon"
)

// Roller produces uniform integers in [min, max]. Combat takes a Roller so
// tests can force specific rolls.
type Roller interface {
	Roll(min, max int) int
}

// RandRoller rolls with math/rand/v2.
type RandRoller struct {
	rng *rand.Rand
}

var _ dungeon.Rand = (*RandRoller)(nil)

// NewRandRoller returns a roller seeded with seed. The same seed yields the
// same sequence of rolls.
func NewRandRoller(seed uint64) *RandRoller {
	return &RandRoller{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Roll returns a value in [min, max]. If max < min the bounds are swapped.
func (r *RandRoller) Roll(min, max int) int {
	if max < min {
		min, max = max, min
	}
	return min + r.rng.IntN(max-min+1)
}

// IntN exposes the underlying source so the same generator can drive
// dungeon generation.
func (r *RandRoller) IntN(n int) int {
	return r.rng.IntN(n)
}

// D20 rolls a twenty-sided die.
func D20(r Roller) int {
	return r.Roll(1, 20)
}
