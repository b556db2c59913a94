package dungeon

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"strconv"
	"time"
)

var (
	// ErrRoomNotFound is returned when a room ID is not part of the graph.
	ErrRoomNotFound = errors.New("room not found")
	// ErrDanglingExit means an exit points at a room the graph does not hold.
	ErrDanglingExit = errors.New("exit points to missing room")
	// ErrInconsistentExits means A→B exists without the matching B→A.
	ErrInconsistentExits = errors.New("exits are not bidirectional")
	// ErrExitConflict is returned by Link when an exit is already wired elsewhere.
	ErrExitConflict = errors.New("exit already leads elsewhere")
)

// StartRoomName is the name given to room 0 of a fresh dungeon.
const StartRoomName = "Start Room"

// Graph owns every room of the dungeon and grows it lazily as exits are used.
// It is not safe for concurrent use.
type Graph struct {
	rooms    map[int]*Room
	nextID   int
	rng      Rand
	bestiary *Bestiary
}

// Option configures a Graph.
type Option func(*Graph)

// WithRand sets the random source used to roll occupants and boss rooms.
func WithRand(r Rand) Option {
	return func(g *Graph) {
		g.rng = r
	}
}

// WithBestiary replaces the embedded occupant table.
func WithBestiary(b *Bestiary) Option {
	return func(g *Graph) {
		g.bestiary = b
	}
}

// NewGraph returns an empty graph.
func NewGraph(opts ...Option) *Graph {
	g := &Graph{
		rooms: make(map[int]*Room),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		seed := uint64(time.Now().UnixNano())
		g.rng = rand.New(rand.NewPCG(seed, seed>>1))
	}
	if g.bestiary == nil {
		g.bestiary = DefaultBestiary()
	}
	return g
}

// CreateInitialDungeon builds the start room and one neighbour in each
// direction, all wired both ways. It returns the graph and the start room ID.
func CreateInitialDungeon(opts ...Option) (*Graph, int) {
	g := NewGraph(opts...)
	start := g.AddRoom(StartRoomName, nil, false)
	for _, d := range Directions {
		// cannot fail: start exists and d is canonical
		_, _ = g.EnsureExit(start.ID, d)
	}
	return g, start.ID
}

// AddRoom allocates the next ID and stores a new, unconnected room.
func (g *Graph) AddRoom(name string, occupant *Occupant, isBoss bool) *Room {
	r := NewRoom(g.nextID, name, occupant, isBoss, nil)
	g.rooms[r.ID] = r
	g.nextID++
	return r
}

// Room looks up a room by ID.
func (g *Graph) Room(id int) (*Room, bool) {
	r, ok := g.rooms[id]
	return r, ok
}

// Len returns the number of rooms.
func (g *Graph) Len() int {
	return len(g.rooms)
}

// NextID is the ID the next generated room will receive.
func (g *Graph) NextID() int {
	return g.nextID
}

// Bestiary returns the occupant table the graph rolls from.
func (g *Graph) Bestiary() *Bestiary {
	return g.bestiary
}

// RoomIDs returns all room IDs in ascending order.
func (g *Graph) RoomIDs() []int {
	ids := make([]int, 0, len(g.rooms))
	for id := range g.rooms {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// EnsureExit returns the room reached from roomID going d, generating that
// room first if the exit does not exist yet. The new room's reverse exit
// points back to roomID.
func (g *Graph) EnsureExit(roomID int, d Direction) (int, error) {
	back, err := Opposite(d)
	if err != nil {
		return 0, err
	}
	room, ok := g.rooms[roomID]
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrRoomNotFound, roomID)
	}
	if target, ok := room.Exits[d]; ok {
		return target, nil
	}

	next := g.generateRoom()
	room.Exits[d] = next.ID
	next.Exits[back] = room.ID
	return next.ID, nil
}

// EnsureAllExits fills in every missing exit of roomID and returns the IDs of
// the rooms it created. Missing directions are collected before any room is
// added.
func (g *Graph) EnsureAllExits(roomID int) ([]int, error) {
	room, ok := g.rooms[roomID]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrRoomNotFound, roomID)
	}

	var missing []Direction
	for _, d := range Directions {
		if _, ok := room.Exits[d]; !ok {
			missing = append(missing, d)
		}
	}

	created := make([]int, 0, len(missing))
	for _, d := range missing {
		id, err := g.EnsureExit(roomID, d)
		if err != nil {
			return created, err
		}
		created = append(created, id)
	}
	return created, nil
}

// Move follows direction from roomID, creating the neighbour if needed.
// An unknown direction yields ErrInvalidDirection and leaves the graph untouched.
func (g *Graph) Move(roomID int, direction string) (int, error) {
	d, err := ParseDirection(direction)
	if err != nil {
		return roomID, err
	}
	return g.EnsureExit(roomID, d)
}

// Link wires a→b going d and b→a going the opposite way. Linking an already
// linked pair is a no-op.
func (g *Graph) Link(a int, d Direction, b int) error {
	back, err := Opposite(d)
	if err != nil {
		return err
	}
	from, ok := g.rooms[a]
	if !ok {
		return fmt.Errorf("%w: %d", ErrRoomNotFound, a)
	}
	to, ok := g.rooms[b]
	if !ok {
		return fmt.Errorf("%w: %d", ErrRoomNotFound, b)
	}
	if cur, ok := from.Exits[d]; ok && cur != b {
		return fmt.Errorf("%w: room %d %s already leads to %d", ErrExitConflict, a, d, cur)
	}
	if cur, ok := to.Exits[back]; ok && cur != a {
		return fmt.Errorf("%w: room %d %s already leads to %d", ErrExitConflict, b, back, cur)
	}
	from.Exits[d] = b
	to.Exits[back] = a
	return nil
}

func (g *Graph) generateRoom() *Room {
	name := fmt.Sprintf("Room %d", g.nextID+1)
	occupant := g.bestiary.RollOccupant(g.rng)
	boss := g.bestiary.RollBoss(g.rng)
	return g.AddRoom(name, occupant, boss)
}

// Records flattens every room, keyed by the decimal room ID.
func (g *Graph) Records() map[string]RoomRecord {
	out := make(map[string]RoomRecord, len(g.rooms))
	for id, r := range g.rooms {
		out[strconv.Itoa(id)] = r.ToRecord()
	}
	return out
}

// GraphFromRecords rebuilds a graph from persisted records. All rooms are
// created before any exit is checked, so the result has no dangling exits and
// every exit is mirrored. nextID is raised past the highest room ID if needed.
func GraphFromRecords(records map[string]RoomRecord, nextID int, opts ...Option) (*Graph, error) {
	g := NewGraph(opts...)

	for key, rec := range records {
		id, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("room key %q is not an integer: %w", key, err)
		}
		if id != rec.ID {
			return nil, fmt.Errorf("room key %q does not match room id %d", key, rec.ID)
		}
		if id < 0 {
			return nil, fmt.Errorf("room id %d is negative", id)
		}
		room, err := RoomFromRecord(rec)
		if err != nil {
			return nil, err
		}
		g.rooms[id] = room
		if id >= nextID {
			nextID = id + 1
		}
	}

	for _, id := range g.RoomIDs() {
		room := g.rooms[id]
		for _, d := range Directions {
			target, ok := room.Exits[d]
			if !ok {
				continue
			}
			other, ok := g.rooms[target]
			if !ok {
				return nil, fmt.Errorf("%w: room %d %s -> %d", ErrDanglingExit, id, d, target)
			}
			back, _ := Opposite(d)
			if got, ok := other.Exits[back]; !ok || got != id {
				return nil, fmt.Errorf("%w: room %d %s -> %d has no %s exit back", ErrInconsistentExits, id, d, target, back)
			}
		}
	}

	g.nextID = nextID
	return g, nil
}
