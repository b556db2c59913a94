package dungeon

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seqRand cycles through fixed values, reduced modulo n.
type seqRand struct {
	values []int
	i      int
}

func (s *seqRand) IntN(n int) int {
	v := s.values[s.i%len(s.values)]
	s.i++
	return v % n
}

func seeded() Option {
	return WithRand(rand.New(rand.NewPCG(1, 2)))
}

func assertBidirectional(t *testing.T, g *Graph) {
	t.Helper()
	for _, id := range g.RoomIDs() {
		room, _ := g.Room(id)
		for d, target := range room.Exits {
			other, ok := g.Room(target)
			require.Truef(t, ok, "room %d %s points to missing room %d", id, d, target)
			back, err := Opposite(d)
			require.NoError(t, err)
			assert.Equalf(t, id, other.Exits[back], "room %d %s -> %d has no reverse exit", id, d, target)
		}
	}
}

func TestCreateInitialDungeon(t *testing.T) {
	g, start := CreateInitialDungeon(seeded())

	assert.Equal(t, 0, start)
	assert.Equal(t, 5, g.Len())
	assert.Equal(t, 5, g.NextID())

	startRoom, ok := g.Room(start)
	require.True(t, ok)
	assert.Equal(t, StartRoomName, startRoom.Name)
	assert.Nil(t, startRoom.Occupant)
	assert.False(t, startRoom.IsBoss)
	assert.Len(t, startRoom.Exits, 4)

	seen := make(map[int]Direction)
	for _, d := range Directions {
		target, ok := startRoom.Exits[d]
		require.Truef(t, ok, "start room missing %s exit", d)
		if prev, dup := seen[target]; dup {
			t.Errorf("room %d reachable via both %s and %s", target, prev, d)
		}
		seen[target] = d

		neighbour, ok := g.Room(target)
		require.True(t, ok)
		assert.Len(t, neighbour.Exits, 1, "neighbour should only link back to start")
	}
	assertBidirectional(t, g)
}

func TestGraph_EnsureExit(t *testing.T) {
	g, start := CreateInitialDungeon(seeded())
	north, _ := g.Room(start)
	northID := north.Exits[North]

	created, err := g.EnsureExit(northID, East)
	require.NoError(t, err)
	assert.Equal(t, 5, created)

	again, err := g.EnsureExit(northID, East)
	require.NoError(t, err)
	assert.Equal(t, created, again, "EnsureExit must be idempotent once the edge exists")
	assert.Equal(t, 6, g.Len())

	newRoom, ok := g.Room(created)
	require.True(t, ok)
	assert.Equal(t, "Room 6", newRoom.Name)
	assert.Equal(t, northID, newRoom.Exits[West])
	assertBidirectional(t, g)
}

func TestGraph_EnsureExit_Errors(t *testing.T) {
	g, start := CreateInitialDungeon(seeded())

	_, err := g.EnsureExit(start, Direction("up"))
	assert.ErrorIs(t, err, ErrInvalidDirection)

	_, err = g.EnsureExit(99, North)
	assert.ErrorIs(t, err, ErrRoomNotFound)
	assert.Equal(t, 5, g.Len())
}

func TestGraph_Move_CreatesRoomLazily(t *testing.T) {
	g := NewGraph(seeded())
	for i := 0; i < 5; i++ {
		g.AddRoom("Room", nil, false)
	}

	got, err := g.Move(0, "north")
	require.NoError(t, err)
	assert.Equal(t, 5, got)

	start, _ := g.Room(0)
	assert.Equal(t, 5, start.Exits[North])
	created, ok := g.Room(5)
	require.True(t, ok)
	assert.Equal(t, 0, created.Exits[South])
}

func TestGraph_Move_InvalidDirection(t *testing.T) {
	g, start := CreateInitialDungeon(seeded())

	got, err := g.Move(start, "sideways")
	assert.True(t, errors.Is(err, ErrInvalidDirection))
	assert.Equal(t, start, got)
	assert.Equal(t, 5, g.Len())
}

func TestGraph_Move_FollowsExistingExit(t *testing.T) {
	g, start := CreateInitialDungeon(seeded())
	startRoom, _ := g.Room(start)

	got, err := g.Move(start, " WEST ")
	require.NoError(t, err)
	assert.Equal(t, startRoom.Exits[West], got)
	assert.Equal(t, 5, g.Len())
}

func TestGraph_EnsureAllExits(t *testing.T) {
	g, start := CreateInitialDungeon(seeded())
	startRoom, _ := g.Room(start)
	eastID := startRoom.Exits[East]

	created, err := g.EnsureAllExits(eastID)
	require.NoError(t, err)
	assert.Equal(t, []int{5, 6, 7}, created)

	east, _ := g.Room(eastID)
	assert.Len(t, east.Exits, 4)
	assert.Equal(t, start, east.Exits[West])

	created, err = g.EnsureAllExits(eastID)
	require.NoError(t, err)
	assert.Empty(t, created)
	assertBidirectional(t, g)
}

func TestGraph_Link(t *testing.T) {
	g := NewGraph(seeded())
	a := g.AddRoom("A", nil, false)
	b := g.AddRoom("B", nil, false)
	c := g.AddRoom("C", nil, false)

	require.NoError(t, g.Link(a.ID, East, b.ID))
	require.NoError(t, g.Link(a.ID, East, b.ID), "relinking the same pair is a no-op")
	assert.Equal(t, a.ID, b.Exits[West])

	assert.ErrorIs(t, g.Link(a.ID, East, c.ID), ErrExitConflict)
	assert.ErrorIs(t, g.Link(c.ID, East, b.ID), ErrExitConflict)
	assert.ErrorIs(t, g.Link(a.ID, North, 42), ErrRoomNotFound)
	assert.ErrorIs(t, g.Link(a.ID, "up", b.ID), ErrInvalidDirection)
	assertBidirectional(t, g)
}

func TestGraph_RollsOccupantsFromBestiary(t *testing.T) {
	b := &Bestiary{
		BossChancePercent: 50,
		Occupants: []BestiaryEntry{
			{Name: "Goblin", Weight: 7},
			{Name: "Dragon", Weight: 3},
		},
	}
	// per generated room: occupant roll, then boss roll
	r := &seqRand{values: []int{0, 10, 9, 90}}
	g := NewGraph(WithRand(r), WithBestiary(b))
	g.AddRoom(StartRoomName, nil, false)

	first, err := g.EnsureExit(0, North)
	require.NoError(t, err)
	second, err := g.EnsureExit(0, South)
	require.NoError(t, err)

	r1, _ := g.Room(first)
	require.NotNil(t, r1.Occupant)
	assert.Equal(t, "Goblin", r1.Occupant.Name)
	assert.True(t, r1.IsBoss)

	r2, _ := g.Room(second)
	require.NotNil(t, r2.Occupant)
	assert.Equal(t, "Dragon", r2.Occupant.Name)
	assert.False(t, r2.IsBoss)
}

func TestGraphFromRecords_RoundTrip(t *testing.T) {
	g, start := CreateInitialDungeon(seeded())
	_, err := g.EnsureAllExits(start + 1)
	require.NoError(t, err)
	r, _ := g.Room(2)
	r.MarkOccupantDefeated()

	restored, err := GraphFromRecords(g.Records(), g.NextID())
	require.NoError(t, err)

	assert.Equal(t, g.RoomIDs(), restored.RoomIDs())
	assert.Equal(t, g.NextID(), restored.NextID())
	for _, id := range g.RoomIDs() {
		want, _ := g.Room(id)
		got, _ := restored.Room(id)
		assert.Equal(t, want, got)
	}
}

func TestGraphFromRecords_Validation(t *testing.T) {
	tests := []struct {
		name    string
		records map[string]RoomRecord
		wantErr error
	}{
		{
			name: "dangling exit",
			records: map[string]RoomRecord{
				"0": {ID: 0, Name: "Start Room", Exits: map[string]int{"north": 1}},
			},
			wantErr: ErrDanglingExit,
		},
		{
			name: "one way exit",
			records: map[string]RoomRecord{
				"0": {ID: 0, Name: "Start Room", Exits: map[string]int{"north": 1}},
				"1": {ID: 1, Name: "Room 2", Exits: map[string]int{}},
			},
			wantErr: ErrInconsistentExits,
		},
		{
			name: "reverse exit on wrong side",
			records: map[string]RoomRecord{
				"0": {ID: 0, Name: "Start Room", Exits: map[string]int{"north": 1}},
				"1": {ID: 1, Name: "Room 2", Exits: map[string]int{"north": 0}},
			},
			wantErr: ErrInconsistentExits,
		},
		{
			name: "bad direction",
			records: map[string]RoomRecord{
				"0": {ID: 0, Name: "Start Room", Exits: map[string]int{"up": 0}},
			},
			wantErr: ErrInvalidDirection,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GraphFromRecords(tt.records, 0)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("key mismatch", func(t *testing.T) {
		_, err := GraphFromRecords(map[string]RoomRecord{"3": {ID: 4, Name: "Room 5"}}, 0)
		assert.Error(t, err)
	})

	t.Run("non numeric key", func(t *testing.T) {
		_, err := GraphFromRecords(map[string]RoomRecord{"start": {ID: 0}}, 0)
		assert.Error(t, err)
	})
}

func TestGraphFromRecords_RaisesNextID(t *testing.T) {
	records := map[string]RoomRecord{
		"0": {ID: 0, Name: "Start Room", Exits: map[string]int{"east": 8}},
		"8": {ID: 8, Name: "Room 9", Exits: map[string]int{"west": 0}},
	}
	g, err := GraphFromRecords(records, 2)
	require.NoError(t, err)
	assert.Equal(t, 9, g.NextID())

	id, err := g.EnsureExit(0, North)
	require.NoError(t, err)
	assert.Equal(t, 9, id, "generated IDs must never collide with loaded ones")
}

func TestDefaultBestiary(t *testing.T) {
	b := DefaultBestiary()
	assert.Equal(t, 50, b.BossChancePercent)
	require.Len(t, b.Occupants, 4)

	goblin, ok := b.Lookup("Goblin")
	require.True(t, ok)
	assert.Equal(t, 7, goblin.Weight)
	assert.Equal(t, 40, goblin.Health)
	assert.Equal(t, 50, goblin.XP)

	_, ok = b.Lookup("Beholder")
	assert.False(t, ok)
}

func TestParseBestiary_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "boss chance out of range", yaml: "boss_chance_percent: 120\noccupants:\n  - name: Goblin\n    weight: 1\n"},
		{name: "entry without name", yaml: "occupants:\n  - weight: 1\n"},
		{name: "not a mapping", yaml: ":::"},
		{name: "empty document", yaml: ""},
		{name: "no occupants", yaml: "boss_chance_percent: 50\noccupants: []\n"},
		{name: "zero total weight", yaml: "occupants:\n  - name: Goblin\n    weight: 0\n"},
		{name: "misspelled occupants key", yaml: "ocupants:\n  - name: Goblin\n    weight: 1\n"},
		{name: "misspelled boss key", yaml: "boss_chance_pct: 50\noccupants:\n  - name: Goblin\n    weight: 1\n"},
		{name: "unknown entry field", yaml: "occupants:\n  - name: Goblin\n    wieght: 1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := ParseBestiary([]byte(tt.yaml))
			assert.Error(t, err)
			assert.Nil(t, b)
		})
	}
}
