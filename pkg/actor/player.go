package actor

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/jwebster45206/d20"
	"github.com/jwebster45206/ai-dungeon-master/pkg/dungeon"
)

const (
	// HealthPotion is the consumable used by Heal.
	HealthPotion = "health_potion"

	StartingHealth = 100
	PotionHealing  = 20
	LevelUpXP      = 100
	LevelUpHealth  = 20
	BaseAC         = 10
)

// PlayerSpec is the serialisable state of the player.
type PlayerSpec struct {
	Name          string   `json:"name"`
	Health        int      `json:"health"`
	MaxHealth     int      `json:"max_health"`
	Inventory     []string `json:"inventory"`
	XP            int      `json:"xp"`
	Level         int      `json:"level"`
	CurrentRoomID int      `json:"current_room_id"` // lookup key into the dungeon graph
}

// Player is the runtime player: the spec plus a d20.Actor built from it.
type Player struct {
	Spec  *PlayerSpec
	Actor *d20.Actor
}

// HealResult reports what a heal attempt did. Running out of potions is not
// an error.
type HealResult struct {
	Message string
	Healed  int
	OK      bool
}

// NewPlayer creates a level 1 player standing in roomID with one potion.
func NewPlayer(name string, roomID int) (*Player, error) {
	return NewPlayerFromSpec(&PlayerSpec{
		Name:          name,
		Health:        StartingHealth,
		MaxHealth:     StartingHealth,
		Inventory:     []string{HealthPotion},
		Level:         1,
		CurrentRoomID: roomID,
	})
}

// NewPlayerFromSpec validates spec and builds the player's actor.
func NewPlayerFromSpec(spec *PlayerSpec) (*Player, error) {
	if spec == nil {
		return nil, fmt.Errorf("spec cannot be nil")
	}
	if spec.MaxHealth <= 0 {
		return nil, fmt.Errorf("max health must be positive, got %d", spec.MaxHealth)
	}
	if spec.Health < 0 || spec.Health > spec.MaxHealth {
		return nil, fmt.Errorf("health %d outside 0-%d", spec.Health, spec.MaxHealth)
	}
	if spec.Level < 1 {
		spec.Level = 1
	}
	if spec.Inventory == nil {
		spec.Inventory = []string{}
	}

	p := &Player{Spec: spec}
	if err := p.buildActor(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Player) buildActor() error {
	actor, err := d20.NewActor(p.Spec.Name).
		WithHP(p.Spec.MaxHealth).
		WithAC(BaseAC).
		WithAttributes(map[string]int{"level": p.Spec.Level, "xp": p.Spec.XP}).
		Build()
	if err != nil {
		return fmt.Errorf("failed to build actor: %w", err)
	}
	if err := actor.SetHP(p.Spec.Health); err != nil {
		return fmt.Errorf("failed to set HP: %w", err)
	}
	p.Actor = actor
	return nil
}

// syncSpec copies the actor's runtime state back into the serialisable spec.
func (p *Player) syncSpec() {
	p.Spec.Health = p.Actor.HP()
	p.Spec.MaxHealth = p.Actor.MaxHP()
	if lvl, ok := p.Actor.Attribute("level"); ok {
		p.Spec.Level = lvl
	}
	if xp, ok := p.Actor.Attribute("xp"); ok {
		p.Spec.XP = xp
	}
}

// Name returns the player's name.
func (p *Player) Name() string { return p.Spec.Name }

// Health returns current health.
func (p *Player) Health() int { return p.Actor.HP() }

// MaxHealth returns the health ceiling.
func (p *Player) MaxHealth() int { return p.Actor.MaxHP() }

// AC is the d20 result an enemy must beat to land a blow.
func (p *Player) AC() int { return p.Actor.AC() }

// Level returns the player's level.
func (p *Player) Level() int {
	lvl, _ := p.Actor.Attribute("level")
	return lvl
}

// XP returns experience earned toward the next level.
func (p *Player) XP() int {
	xp, _ := p.Actor.Attribute("xp")
	return xp
}

// RoomID returns the ID of the room the player is in.
func (p *Player) RoomID() int { return p.Spec.CurrentRoomID }

// Inventory returns a copy of the inventory in pickup order.
func (p *Player) Inventory() []string {
	return slices.Clone(p.Spec.Inventory)
}

// AddItem appends an item; duplicates are allowed.
func (p *Player) AddItem(item string) {
	p.Spec.Inventory = append(p.Spec.Inventory, item)
}

// RemoveItem drops the first matching item and reports whether one was found.
func (p *Player) RemoveItem(item string) bool {
	i := slices.Index(p.Spec.Inventory, item)
	if i < 0 {
		return false
	}
	p.Spec.Inventory = slices.Delete(p.Spec.Inventory, i, i+1)
	return true
}

// IsDefeated reports whether health has reached the floor.
func (p *Player) IsDefeated() bool {
	return p.Actor.IsKnockedOut()
}

// TakeDamage lowers health, never below 0.
func (p *Player) TakeDamage(n int) {
	if n <= 0 {
		return
	}
	p.Actor.SubHP(n)
	p.syncSpec()
}

// RestoreHealth raises health, never above MaxHealth, and returns the amount gained.
func (p *Player) RestoreHealth(n int) int {
	if n <= 0 {
		return 0
	}
	before := p.Actor.HP()
	p.Actor.AddHP(n)
	p.syncSpec()
	return p.Actor.HP() - before
}

// Heal drinks one health potion if the player carries any.
func (p *Player) Heal() HealResult {
	if !p.RemoveItem(HealthPotion) {
		return HealResult{Message: "You have no potions left."}
	}
	healed := p.RestoreHealth(PotionHealing)
	return HealResult{
		Message: fmt.Sprintf("You healed yourself with a potion. (+%d health)", healed),
		Healed:  healed,
		OK:      true,
	}
}

// GainXP awards experience and levels up once LevelUpXP is reached. It returns
// a congratulation message on level up and "" otherwise.
func (p *Player) GainXP(n int) (string, error) {
	if n <= 0 {
		return "", nil
	}
	p.Actor.IncrementAttribute("xp", n)
	if p.XP() < LevelUpXP {
		p.syncSpec()
		return "", nil
	}

	if err := p.Actor.SetMaxHP(p.Actor.MaxHP() + LevelUpHealth); err != nil {
		return "", fmt.Errorf("failed to raise max HP: %w", err)
	}
	p.Actor.AddHP(LevelUpHealth)
	p.Actor.IncrementAttribute("level", 1)
	p.Actor.SetAttribute("xp", 0)
	p.syncSpec()
	return fmt.Sprintf("Congratulations! You've reached level %d and gained %d extra health!", p.Level(), LevelUpHealth), nil
}

// Move walks the player through the dungeon. The destination's missing exits
// are generated on arrival. On error the player stays put.
func (p *Player) Move(g *dungeon.Graph, direction string) (int, error) {
	next, err := g.Move(p.Spec.CurrentRoomID, direction)
	if err != nil {
		return p.Spec.CurrentRoomID, err
	}
	if _, err := g.EnsureAllExits(next); err != nil {
		return p.Spec.CurrentRoomID, err
	}
	p.Spec.CurrentRoomID = next
	return next, nil
}

// MarshalJSON writes the player as its spec, refreshed from the actor.
func (p *Player) MarshalJSON() ([]byte, error) {
	if p == nil {
		return []byte("null"), nil
	}
	if p.Actor != nil {
		p.syncSpec()
	}
	return json.Marshal(p.Spec)
}

// UnmarshalJSON reads a spec and rebuilds the actor.
func (p *Player) UnmarshalJSON(data []byte) error {
	var spec PlayerSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return fmt.Errorf("failed to unmarshal player spec: %w", err)
	}
	built, err := NewPlayerFromSpec(&spec)
	if err != nil {
		return err
	}
	*p = *built
	return nil
}
