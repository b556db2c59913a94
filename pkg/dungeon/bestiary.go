package dungeon

import (
	"bytes"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed bestiary.yaml
var defaultBestiaryYAML []byte

// Rand is the random source used for room generation.
// *math/rand/v2.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

// BestiaryEntry is one kind of occupant that can be rolled for a new room.
type BestiaryEntry struct {
	Name   string `yaml:"name"`
	Weight int    `yaml:"weight"`
	Health int    `yaml:"health"`
	XP     int    `yaml:"xp"`
}

// Bestiary is the weighted occupant table plus the boss-room chance.
type Bestiary struct {
	BossChancePercent int             `yaml:"boss_chance_percent"`
	Occupants         []BestiaryEntry `yaml:"occupants"`
}

// ParseBestiary reads a bestiary from YAML and validates it.
func ParseBestiary(data []byte) (*Bestiary, error) {
	var b Bestiary
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&b); err != nil {
		return nil, fmt.Errorf("failed to parse bestiary: %w", err)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}

// DefaultBestiary returns the embedded occupant table.
func DefaultBestiary() *Bestiary {
	b, err := ParseBestiary(defaultBestiaryYAML)
	if err != nil {
		panic(err)
	}
	return b
}

// Validate checks weights and percentages. A usable table has at least one
// occupant with positive weight.
func (b *Bestiary) Validate() error {
	if b.BossChancePercent < 0 || b.BossChancePercent > 100 {
		return fmt.Errorf("boss_chance_percent must be within 0-100, got %d", b.BossChancePercent)
	}
	if len(b.Occupants) == 0 {
		return fmt.Errorf("bestiary has no occupants")
	}
	for _, e := range b.Occupants {
		if e.Name == "" {
			return fmt.Errorf("bestiary entry missing name")
		}
		if e.Weight < 0 {
			return fmt.Errorf("bestiary entry %s has negative weight", e.Name)
		}
	}
	if b.totalWeight() <= 0 {
		return fmt.Errorf("bestiary occupant weights must sum to more than zero")
	}
	return nil
}

// Lookup finds an entry by occupant name.
func (b *Bestiary) Lookup(name string) (BestiaryEntry, bool) {
	for _, e := range b.Occupants {
		if e.Name == name {
			return e, true
		}
	}
	return BestiaryEntry{}, false
}

func (b *Bestiary) totalWeight() int {
	total := 0
	for _, e := range b.Occupants {
		total += e.Weight
	}
	return total
}

// RollOccupant draws an occupant by weight. Returns nil when the table is empty.
func (b *Bestiary) RollOccupant(rng Rand) *Occupant {
	total := b.totalWeight()
	if total == 0 {
		return nil
	}
	n := rng.IntN(total)
	for _, e := range b.Occupants {
		if n < e.Weight {
			return &Occupant{Name: e.Name}
		}
		n -= e.Weight
	}
	return nil
}

// RollBoss decides whether a new room is a boss room, independently of its occupant.
func (b *Bestiary) RollBoss(rng Rand) bool {
	return rng.IntN(100) < b.BossChancePercent
}
