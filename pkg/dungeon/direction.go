package dungeon

import (
	"errors"
	"fmt"
	"strings"
)

// Direction is one of the four compass exits a room can have.
type Direction string

const (
	North Direction = "north"
	South Direction = "south"
	East  Direction = "east"
	West  Direction = "west"
)

// ErrInvalidDirection is returned for any direction outside north/south/east/west.
var ErrInvalidDirection = errors.New("invalid direction")

// Directions lists the canonical directions in generation order.
var Directions = []Direction{North, South, East, West}

var opposites = map[Direction]Direction{
	North: South,
	South: North,
	East:  West,
	West:  East,
}

// ParseDirection normalises user input ("  North ") into a Direction.
func ParseDirection(s string) (Direction, error) {
	d := Direction(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidDirection, s)
	}
	return d, nil
}

// Valid reports whether d is one of the four canonical directions.
func (d Direction) Valid() bool {
	_, ok := opposites[d]
	return ok
}

// Opposite returns the direction pointing back the way d came.
func Opposite(d Direction) (Direction, error) {
	o, ok := opposites[d]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidDirection, string(d))
	}
	return o, nil
}

func (d Direction) String() string {
	return string(d)
}
