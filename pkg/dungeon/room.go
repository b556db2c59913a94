package dungeon

import (
	"errors"
	"fmt"
	"maps"
	"strings"
)

// Occupant is the NPC standing in a room, if any.
type Occupant struct {
	Name     string `json:"name"`
	Defeated bool   `json:"defeated"`
}

// Room is a node in the dungeon graph.
type Room struct {
	ID       int
	Name     string
	Occupant *Occupant // nil when the room is empty
	IsBoss   bool
	Exits    map[Direction]int // Direction → neighbouring room ID
}

// RoomRecord is the flat, serialisable form of a Room.
// An empty Occupant means the room has none.
type RoomRecord struct {
	ID               int            `json:"id"`
	Name             string         `json:"name"`
	Occupant         string         `json:"occupant,omitempty"`
	OccupantDefeated bool           `json:"occupant_defeated"`
	IsBoss           bool           `json:"is_boss"`
	Exits            map[string]int `json:"exits"`
}

// NewRoom creates a room. A nil exits map becomes an empty one; a non-nil map is copied.
func NewRoom(id int, name string, occupant *Occupant, isBoss bool, exits map[Direction]int) *Room {
	r := &Room{
		ID:     id,
		Name:   name,
		IsBoss: isBoss,
		Exits:  make(map[Direction]int, len(Directions)),
	}
	if occupant != nil {
		o := *occupant
		r.Occupant = &o
	}
	maps.Copy(r.Exits, exits)
	return r
}

// MarkOccupantDefeated flags the occupant as beaten. Safe to call repeatedly
// and on empty rooms.
func (r *Room) MarkOccupantDefeated() {
	if r.Occupant == nil {
		return
	}
	r.Occupant.Defeated = true
}

// HasLiveOccupant reports whether someone undefeated is in the room.
func (r *Room) HasLiveOccupant() bool {
	return r.Occupant != nil && !r.Occupant.Defeated
}

// Exit returns the neighbour in direction d.
func (r *Room) Exit(d Direction) (int, bool) {
	id, ok := r.Exits[d]
	return id, ok
}

// Describe builds the display text for the room around narrative supplied by
// the narrator.
//
// Example output:
//
//	Room 3 - Room 4: Torches gutter along damp walls.
//	There is a Goblin here.
//	There is a terrifying boss here!
func (r *Room) Describe(narrative string) string {
	sb := strings.Builder{}
	sb.WriteString(fmt.Sprintf("Room %d - %s: %s\n", r.ID, r.Name, strings.TrimSpace(narrative)))
	if r.HasLiveOccupant() {
		sb.WriteString(fmt.Sprintf("There is a %s here.\n", r.Occupant.Name))
	}
	if r.IsBoss {
		sb.WriteString("There is a terrifying boss here!\n")
	}
	return sb.String()
}

// ToRecord flattens the room for persistence.
func (r *Room) ToRecord() RoomRecord {
	rec := RoomRecord{
		ID:     r.ID,
		Name:   r.Name,
		IsBoss: r.IsBoss,
		Exits:  make(map[string]int, len(r.Exits)),
	}
	if r.Occupant != nil {
		rec.Occupant = r.Occupant.Name
		rec.OccupantDefeated = r.Occupant.Defeated
	}
	for d, id := range r.Exits {
		rec.Exits[string(d)] = id
	}
	return rec
}

// ErrInvalidRoom is returned for a room record that cannot describe a room,
// such as a null or nameless entry.
var ErrInvalidRoom = errors.New("invalid room record")

// RoomFromRecord rebuilds a room, rejecting unknown exit directions.
// It does not check that exit targets exist; see GraphFromRecords.
func RoomFromRecord(rec RoomRecord) (*Room, error) {
	var occupant *Occupant
	if rec.Occupant != "" {
		occupant = &Occupant{Name: rec.Occupant, Defeated: rec.OccupantDefeated}
	} else if rec.OccupantDefeated {
		return nil, fmt.Errorf("room %d: occupant_defeated set without an occupant", rec.ID)
	}

	exits := make(map[Direction]int, len(rec.Exits))
	for key, target := range rec.Exits {
		d, err := ParseDirection(key)
		if err != nil {
			return nil, fmt.Errorf("room %d: %w", rec.ID, err)
		}
		if string(d) != key {
			return nil, fmt.Errorf("room %d: %w: %q is not canonical", rec.ID, ErrInvalidDirection, key)
		}
		exits[d] = target
	}
	if strings.TrimSpace(rec.Name) == "" {
		return nil, fmt.Errorf("%w: room %d has no name", ErrInvalidRoom, rec.ID)
	}

	return NewRoom(rec.ID, rec.Name, occupant, rec.IsBoss, exits), nil
}
