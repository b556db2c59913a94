package actor

import (
	"encoding/json"
	"errors"
	"math/rand/v2"
	"reflect"
	"testing"

	"github.com/jwebster45206/ai-dungeon-master/pkg/dungeon"
)

func mustPlayer(t *testing.T) *Player {
	t.Helper()
	p, err := NewPlayer("Tess", 0)
	if err != nil {
		t.Fatalf("NewPlayer() error = %v", err)
	}
	return p
}

func TestNewPlayer(t *testing.T) {
	p := mustPlayer(t)

	if p.Name() != "Tess" {
		t.Errorf("Name() = %q, want %q", p.Name(), "Tess")
	}
	if p.Health() != StartingHealth || p.MaxHealth() != StartingHealth {
		t.Errorf("health = %d/%d, want %d/%d", p.Health(), p.MaxHealth(), StartingHealth, StartingHealth)
	}
	if !reflect.DeepEqual(p.Inventory(), []string{HealthPotion}) {
		t.Errorf("Inventory() = %v, want [%s]", p.Inventory(), HealthPotion)
	}
	if p.Level() != 1 || p.XP() != 0 {
		t.Errorf("Level() = %d XP() = %d, want 1 and 0", p.Level(), p.XP())
	}
	if p.Actor == nil {
		t.Fatal("Actor is nil")
	}
	if p.Actor.MaxHP() != StartingHealth {
		t.Errorf("Actor.MaxHP() = %d, want %d", p.Actor.MaxHP(), StartingHealth)
	}
	if p.Actor.AC() != BaseAC {
		t.Errorf("Actor.AC() = %d, want %d", p.Actor.AC(), BaseAC)
	}
}

func TestNewPlayerFromSpec_Validation(t *testing.T) {
	tests := []struct {
		name string
		spec *PlayerSpec
	}{
		{"nil spec", nil},
		{"zero max health", &PlayerSpec{Name: "A", Health: 0, MaxHealth: 0}},
		{"negative health", &PlayerSpec{Name: "A", Health: -1, MaxHealth: 100}},
		{"health above ceiling", &PlayerSpec{Name: "A", Health: 120, MaxHealth: 100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewPlayerFromSpec(tt.spec); err == nil {
				t.Error("NewPlayerFromSpec() error = nil, want error")
			}
		})
	}
}

func TestPlayer_Heal(t *testing.T) {
	t.Run("no potions", func(t *testing.T) {
		p := mustPlayer(t)
		p.RemoveItem(HealthPotion)
		p.TakeDamage(30)

		res := p.Heal()
		if res.OK {
			t.Error("Heal() OK = true, want false")
		}
		if res.Message != "You have no potions left." {
			t.Errorf("Heal() message = %q", res.Message)
		}
		if p.Health() != 70 {
			t.Errorf("health = %d, want 70 (unchanged)", p.Health())
		}
	})

	t.Run("consumes one potion", func(t *testing.T) {
		p := mustPlayer(t)
		p.AddItem(HealthPotion)
		p.TakeDamage(50)

		res := p.Heal()
		if !res.OK || res.Healed != PotionHealing {
			t.Errorf("Heal() = %+v, want OK with %d healed", res, PotionHealing)
		}
		if p.Health() != 70 {
			t.Errorf("health = %d, want 70", p.Health())
		}
		if got := p.Inventory(); !reflect.DeepEqual(got, []string{HealthPotion}) {
			t.Errorf("Inventory() = %v, want one potion left", got)
		}
		if p.Actor.HP() != 70 {
			t.Errorf("Actor.HP() = %d, want 70", p.Actor.HP())
		}
	})

	t.Run("clamped to max health", func(t *testing.T) {
		p := mustPlayer(t)
		p.TakeDamage(5)

		res := p.Heal()
		if res.Healed != 5 {
			t.Errorf("Healed = %d, want 5", res.Healed)
		}
		if p.Health() != p.MaxHealth() {
			t.Errorf("health = %d, want %d", p.Health(), p.MaxHealth())
		}
	})
}

func TestPlayer_TakeDamage(t *testing.T) {
	p := mustPlayer(t)
	p.TakeDamage(-5)
	if p.Health() != StartingHealth {
		t.Errorf("negative damage changed health to %d", p.Health())
	}
	p.TakeDamage(250)
	if p.Health() != 0 {
		t.Errorf("health = %d, want floor of 0", p.Health())
	}
	if !p.IsDefeated() {
		t.Error("IsDefeated() = false at 0 health")
	}
}

func TestPlayer_Inventory(t *testing.T) {
	p := mustPlayer(t)
	p.AddItem("torch")
	p.AddItem(HealthPotion)

	want := []string{HealthPotion, "torch", HealthPotion}
	if got := p.Inventory(); !reflect.DeepEqual(got, want) {
		t.Errorf("Inventory() = %v, want %v", got, want)
	}

	inv := p.Inventory()
	inv[0] = "mutated"
	if p.Spec.Inventory[0] != HealthPotion {
		t.Error("Inventory() exposes internal slice")
	}

	if !p.RemoveItem(HealthPotion) {
		t.Fatal("RemoveItem() = false, want true")
	}
	if got := p.Inventory(); !reflect.DeepEqual(got, []string{"torch", HealthPotion}) {
		t.Errorf("after RemoveItem Inventory() = %v", got)
	}
	if p.RemoveItem("rope") {
		t.Error("RemoveItem(rope) = true, want false")
	}
}

func TestPlayer_GainXP(t *testing.T) {
	p := mustPlayer(t)
	p.TakeDamage(40)

	if msg, err := p.GainXP(50); err != nil || msg != "" {
		t.Errorf("GainXP(50) = %q, %v, want no level up", msg, err)
	}
	msg, err := p.GainXP(50)
	if err != nil {
		t.Fatalf("GainXP(50) error = %v", err)
	}
	if msg != "Congratulations! You've reached level 2 and gained 20 extra health!" {
		t.Errorf("GainXP(50) = %q", msg)
	}
	if p.Level() != 2 || p.XP() != 0 {
		t.Errorf("level = %d xp = %d, want 2 and 0", p.Level(), p.XP())
	}
	if p.Spec.Level != 2 || p.Spec.XP != 0 || p.Spec.MaxHealth != StartingHealth+LevelUpHealth {
		t.Errorf("spec = %+v, want it synced with the actor", *p.Spec)
	}
	if p.MaxHealth() != StartingHealth+LevelUpHealth {
		t.Errorf("MaxHealth() = %d, want %d", p.MaxHealth(), StartingHealth+LevelUpHealth)
	}
	if p.Health() != 80 {
		t.Errorf("Health() = %d, want 80", p.Health())
	}
	if p.Actor == nil || p.Actor.MaxHP() != StartingHealth+LevelUpHealth {
		t.Error("actor ceiling was not raised")
	}
}

func TestPlayer_ActorIsAuthoritative(t *testing.T) {
	p := mustPlayer(t)
	p.Actor.SubHP(30)

	if p.Health() != 70 {
		t.Errorf("Health() = %d, want 70 read from the actor", p.Health())
	}
	if p.AC() != BaseAC {
		t.Errorf("AC() = %d, want %d", p.AC(), BaseAC)
	}

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	var spec PlayerSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if spec.Health != 70 {
		t.Errorf("saved health = %d, want 70", spec.Health)
	}
}

func TestNewPlayerFromSpec_KnockedOut(t *testing.T) {
	p, err := NewPlayerFromSpec(&PlayerSpec{Name: "Ren", Health: 0, MaxHealth: 120, Level: 3, XP: 40})
	if err != nil {
		t.Fatalf("NewPlayerFromSpec() error = %v", err)
	}
	if !p.IsDefeated() || p.Actor.HP() != 0 {
		t.Errorf("IsDefeated() = %v Actor.HP() = %d, want knocked out", p.IsDefeated(), p.Actor.HP())
	}
	if p.MaxHealth() != 120 || p.Level() != 3 || p.XP() != 40 {
		t.Errorf("max = %d level = %d xp = %d, want 120, 3, 40", p.MaxHealth(), p.Level(), p.XP())
	}
}

func TestPlayer_Move(t *testing.T) {
	g, start := dungeon.CreateInitialDungeon(dungeon.WithRand(rand.New(rand.NewPCG(3, 4))))
	p, err := NewPlayer("Tess", start)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("invalid direction leaves player in place", func(t *testing.T) {
		before := *p.Spec
		_, err := p.Move(g, "upstairs")
		if !errors.Is(err, dungeon.ErrInvalidDirection) {
			t.Fatalf("Move() error = %v, want ErrInvalidDirection", err)
		}
		if p.RoomID() != start || p.Health() != before.Health || len(p.Inventory()) != len(before.Inventory) {
			t.Error("player state changed after invalid move")
		}
		if g.Len() != 5 {
			t.Errorf("graph grew to %d rooms on invalid move", g.Len())
		}
	})

	t.Run("moving expands the destination", func(t *testing.T) {
		startRoom, _ := g.Room(start)
		northID := startRoom.Exits[dungeon.North]

		got, err := p.Move(g, "north")
		if err != nil {
			t.Fatalf("Move() error = %v", err)
		}
		if got != northID || p.RoomID() != northID {
			t.Errorf("Move() = %d, RoomID() = %d, want %d", got, p.RoomID(), northID)
		}
		room, _ := g.Room(northID)
		if len(room.Exits) != 4 {
			t.Errorf("destination has %d exits, want 4", len(room.Exits))
		}
		if room.Exits[dungeon.South] != start {
			t.Errorf("destination south exit = %d, want %d", room.Exits[dungeon.South], start)
		}
		if g.Len() != 8 {
			t.Errorf("graph has %d rooms, want 8", g.Len())
		}

		back, err := p.Move(g, "south")
		if err != nil || back != start {
			t.Errorf("Move(south) = %d, %v, want %d", back, err, start)
		}
	})
}

func TestPlayer_JSONRoundTrip(t *testing.T) {
	p := mustPlayer(t)
	p.AddItem("torch")
	p.TakeDamage(33)
	if _, err := p.GainXP(40); err != nil {
		t.Fatalf("GainXP error: %v", err)
	}
	p.Spec.CurrentRoomID = 6

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}

	var restored Player
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if !reflect.DeepEqual(restored.Spec, p.Spec) {
		t.Errorf("restored spec = %+v, want %+v", restored.Spec, p.Spec)
	}
	if restored.Actor == nil || restored.Actor.HP() != 67 {
		t.Error("actor not rebuilt with current health")
	}
}
