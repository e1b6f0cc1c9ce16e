package game

import (
	"encoding"
	"fmt"
)

// Direction is one of the four moves the server accepts.
type Direction int

var (
	_ encoding.TextMarshaler   = Direction(0)
	_ encoding.TextUnmarshaler = (*Direction)(nil)
)

// Declared in the server's enum order. Iteration order matters for tie-breaks.
const (
	Up Direction = iota
	Down
	Left
	Right
)

// Directions lists every direction in the order the selector evaluates them.
var Directions = []Direction{Up, Down, Left, Right}

var directionNames = map[Direction]string{
	Up:    "UP",
	Down:  "DOWN",
	Left:  "LEFT",
	Right: "RIGHT",
}

// Delta returns the unit offset of the direction. y grows downwards.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case Up:
		return 0, -1
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	}
	return 0, 0
}

// TurnLeft rotates 90 degrees counter-clockwise: UP, LEFT, DOWN, RIGHT, UP.
func (d Direction) TurnLeft() Direction {
	switch d {
	case Up:
		return Left
	case Left:
		return Down
	case Down:
		return Right
	}
	return Up
}

func (d Direction) String() string {
	if name, ok := directionNames[d]; ok {
		return name
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

func (d Direction) MarshalText() ([]byte, error) {
	name, ok := directionNames[d]
	if !ok {
		return nil, fmt.Errorf("invalid direction %d", int(d))
	}
	return []byte(name), nil
}

func (d *Direction) UnmarshalText(b []byte) error {
	parsed, err := ParseDirection(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseDirection accepts the wire names, e.g. "UP".
func ParseDirection(name string) (Direction, error) {
	for dir, dirName := range directionNames {
		if dirName == name {
			return dir, nil
		}
	}
	return Up, fmt.Errorf("invalid direction %q", name)
}
