package actor

import "github.com/jwebster45206/ai-dungeon-master/pkg/dungeon"

// Default enemy stats, used when the bestiary has no entry for an occupant.
const (
	DefaultMonsterHP = 40
	DefaultMonsterXP = 50
)

// Monster is the enemy side of an encounter. It is rebuilt from the room's
// occupant each time a fight starts; only the occupant's defeat is persisted.
type Monster struct {
	Name  string `json:"name"`
	HP    int    `json:"hp"`
	MaxHP int    `json:"max_hp"`
	XP    int    `json:"xp"`
	Boss  bool   `json:"boss,omitempty"`
}

// NewMonsterFromRoom builds the enemy for the room's live occupant.
// Returns nil when there is nobody to fight.
func NewMonsterFromRoom(room *dungeon.Room, bestiary *dungeon.Bestiary) *Monster {
	if room == nil || !room.HasLiveOccupant() {
		return nil
	}
	m := &Monster{
		Name:  room.Occupant.Name,
		MaxHP: DefaultMonsterHP,
		XP:    DefaultMonsterXP,
		Boss:  room.IsBoss,
	}
	if bestiary != nil {
		if e, ok := bestiary.Lookup(room.Occupant.Name); ok {
			if e.Health > 0 {
				m.MaxHP = e.Health
			}
			if e.XP > 0 {
				m.XP = e.XP
			}
		}
	}
	m.HP = m.MaxHP
	return m
}

// TakeDamage reduces the monster's HP by the specified amount.
// HP cannot go below 0.
func (m *Monster) TakeDamage(n int) {
	if n <= 0 {
		return
	}
	m.HP -= n
	if m.HP < 0 {
		m.HP = 0
	}
}

// IsDefeated returns true if the monster's HP is 0 or less.
func (m *Monster) IsDefeated() bool {
	return m.HP <= 0
}
