package game

// border is the denominator of the edge margin that triggers an inward turn.
const border = 6

// DefaultStrategy turns away from the board edges and, whenever it has a
// choice, heads for the direction with the most open space.
type DefaultStrategy struct{}

func (DefaultStrategy) NextDirection(m *MapUtil, lastDirection Direction) Decision {
	return Decide(m, lastDirection)
}

// Decide runs the border rules and then the evasion step. It has no state;
// the caller threads lastDirection from one tick to the next.
func Decide(m *MapUtil, lastDirection Direction) Decision {
	chosen := turnInwards(m, lastDirection)
	decision := Decision{
		BorderDirection: chosen,
		Feasible:        m.FeasibleDirections(),
	}

	switch len(decision.Feasible) {
	case 0:
		// Trapped. Keep whatever the border rules said.
	case 1:
		chosen = decision.Feasible[0]
	default:
		decision.Scores = make(map[Direction]int, len(decision.Feasible))
		best := -1
		for _, direction := range decision.Feasible {
			space := m.CalculateSpace(direction)
			decision.Scores[direction] = space
			// >= so the last of equally good directions wins.
			if space >= best {
				best = space
				chosen = direction
			}
		}
	}

	decision.Direction = chosen
	return decision
}

// turnInwards applies the edge rules in order; a later rule overrides an earlier one.
func turnInwards(m *MapUtil, lastDirection Direction) Direction {
	width := m.Board().Width
	height := m.Board().Height
	pos := m.MyPosition()
	chosen := lastDirection

	if pos.X > width-width/border && lastDirection != Down {
		chosen = preferred(m, Left, Down)
	}
	if pos.X < width/border && lastDirection != Up {
		chosen = preferred(m, Right, Up)
	}
	if pos.Y > height-height/border && lastDirection != Left {
		chosen = preferred(m, Up, Left)
	}
	if pos.Y < height/border && lastDirection != Right {
		chosen = preferred(m, Down, Right)
	}

	return chosen
}

func preferred(m *MapUtil, first, fallback Direction) Direction {
	if m.CanIMoveInDirection(first) {
		return first
	}
	return fallback
}
