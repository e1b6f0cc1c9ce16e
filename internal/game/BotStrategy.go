package game

// Decision is the outcome of one tick's direction selection.
type Decision struct {
	Direction Direction
	// BorderDirection is the choice after the border rules, before evasion.
	BorderDirection Direction
	Feasible        []Direction
	// Scores holds the space estimate for each feasible direction when more
	// than one was feasible.
	Scores map[Direction]int
}

// Strategy picks the next move given this tick's map and the previous move.
type Strategy interface {
	NextDirection(m *MapUtil, lastDirection Direction) Decision
}
