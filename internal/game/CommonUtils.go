package game

import "fmt"

// Coordinate is a cell on the board. (0,0) is the top-left corner.
type Coordinate struct {
	X, Y int
}

// TranslateBy returns the neighbouring coordinate one step in direction.
func (c Coordinate) TranslateBy(direction Direction) Coordinate {
	dx, dy := direction.Delta()
	return Coordinate{X: c.X + dx, Y: c.Y + dy}
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%d, %d)", c.X, c.Y)
}

// GetManhattanDistance is the number of orthogonal steps between two cells.
func GetManhattanDistance(c1, c2 Coordinate) int {
	return abs(c1.X-c2.X) + abs(c1.Y-c2.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
