package game

// MapUtil answers movement queries for one player on one tick's board.
// Build a new one every tick; it must not outlive the snapshot it wraps.
type MapUtil struct {
	board      *Board
	myPosition Coordinate
}

func NewMapUtil(board *Board, myPosition Coordinate) *MapUtil {
	return &MapUtil{
		board:      board,
		myPosition: myPosition,
	}
}

func (m *MapUtil) Board() *Board {
	return m.board
}

// MyPosition is the coordinate of the player's head.
func (m *MapUtil) MyPosition() Coordinate {
	return m.myPosition
}

// IsTileAvailableForMovementTo is true when c is on the board and not occupied.
func (m *MapUtil) IsTileAvailableForMovementTo(c Coordinate) bool {
	return m.board.IsInsideBounds(c) && !m.board.IsOccupied(c)
}

// CanIMoveInDirection checks the single step from the head in direction.
func (m *MapUtil) CanIMoveInDirection(direction Direction) bool {
	return m.IsTileAvailableForMovementTo(m.myPosition.TranslateBy(direction))
}

// FeasibleDirections returns the legal moves, in Directions order.
func (m *MapUtil) FeasibleDirections() []Direction {
	feasible := make([]Direction, 0, len(Directions))
	for _, direction := range Directions {
		if m.CanIMoveInDirection(direction) {
			feasible = append(feasible, direction)
		}
	}
	return feasible
}
