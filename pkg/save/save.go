// Package save implements the JSON save-game format: a versioned snapshot of
// the player and every dungeon room.
package save

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/ai-dungeon-master/pkg/actor"
	"github.com/jwebster45206/ai-dungeon-master/pkg/dungeon"
)

// CurrentVersion is the schema version written by Encode.
const CurrentVersion = 1

// DefaultPath is where the console saves unless configured otherwise.
const DefaultPath = "game_state.json"

var (
	// ErrNoSavedState means there is nothing to load. Callers start a new game.
	ErrNoSavedState = errors.New("no saved game state")
	// ErrDanglingRoomReference means the saved player stands in a room that
	// is not part of the saved dungeon.
	ErrDanglingRoomReference = errors.New("player references a room missing from the save")
	// ErrUnsupportedVersion is returned for schema versions this build cannot read.
	ErrUnsupportedVersion = errors.New("unsupported save version")
)

// SaveData is the on-disk document.
type SaveData struct {
	Version    int                           `json:"version"`
	GameID     uuid.UUID                     `json:"game_id"`
	SavedAt    time.Time                     `json:"saved_at"`
	NextRoomID int                           `json:"next_room_id"`
	Player     actor.PlayerSpec              `json:"player"`
	Rooms      map[string]dungeon.RoomRecord `json:"rooms"`
}

// State is a decoded save: a complete replacement for the in-memory game.
type State struct {
	GameID  uuid.UUID
	SavedAt time.Time
	Player  *actor.Player
	Graph   *dungeon.Graph
}

// NewSaveData snapshots the game.
func NewSaveData(s *State) (*SaveData, error) {
	if s == nil || s.Player == nil || s.Graph == nil {
		return nil, fmt.Errorf("state, player and graph are required")
	}
	if _, ok := s.Graph.Room(s.Player.RoomID()); !ok {
		return nil, fmt.Errorf("%w: room %d", ErrDanglingRoomReference, s.Player.RoomID())
	}
	savedAt := s.SavedAt
	if savedAt.IsZero() {
		savedAt = time.Now().UTC()
	}
	spec := *s.Player.Spec
	spec.Inventory = s.Player.Inventory()
	return &SaveData{
		Version:    CurrentVersion,
		GameID:     s.GameID,
		SavedAt:    savedAt,
		NextRoomID: s.Graph.NextID(),
		Player:     spec,
		Rooms:      s.Graph.Records(),
	}, nil
}

// Encode serialises the game to indented JSON.
func Encode(s *State) ([]byte, error) {
	sd, err := NewSaveData(s)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(sd, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal save data: %w", err)
	}
	return data, nil
}

// Decode parses and validates a save document. Rooms are rebuilt before the
// player so the player's room can be resolved against them. Graph options
// (random source, bestiary) apply to the rebuilt graph.
func Decode(data []byte, opts ...dungeon.Option) (*State, error) {
	var sd SaveData
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&sd); err != nil {
		return nil, fmt.Errorf("failed strict JSON unmarshaling: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("trailing data after save document")
	}
	return sd.Restore(opts...)
}

// Restore turns validated save data back into a live game.
func (sd *SaveData) Restore(opts ...dungeon.Option) (*State, error) {
	if sd.Version != CurrentVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, sd.Version)
	}
	if len(sd.Rooms) == 0 {
		return nil, fmt.Errorf("save contains no rooms")
	}

	graph, err := dungeon.GraphFromRecords(sd.Rooms, sd.NextRoomID, opts...)
	if err != nil {
		return nil, fmt.Errorf("invalid rooms: %w", err)
	}

	if _, ok := graph.Room(sd.Player.CurrentRoomID); !ok {
		return nil, fmt.Errorf("%w: room %d", ErrDanglingRoomReference, sd.Player.CurrentRoomID)
	}
	spec := sd.Player
	player, err := actor.NewPlayerFromSpec(&spec)
	if err != nil {
		return nil, fmt.Errorf("invalid player: %w", err)
	}

	return &State{
		GameID:  sd.GameID,
		SavedAt: sd.SavedAt,
		Player:  player,
		Graph:   graph,
	}, nil
}

// SaveFile writes the game to path, replacing any existing file.
func SaveFile(path string, s *State) error {
	data, err := Encode(s)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write save file %s: %w", path, err)
	}
	return nil
}

// LoadFile reads and decodes the save at path. A missing file yields
// ErrNoSavedState.
func LoadFile(path string, opts ...dungeon.Option) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNoSavedState, path)
		}
		return nil, fmt.Errorf("failed to read save file %s: %w", path, err)
	}
	return Decode(data, opts...)
}
