package game

// ReachableArea counts the free cells connected to our head, stopping once
// limit cells are found. It is a diagnostic next to CalculateSpace; the
// decision itself never uses it.
func (m *MapUtil) ReachableArea(limit int) int {
	start := m.MyPosition()
	visited := map[Coordinate]struct{}{start: {}}
	queue := []Coordinate{start}
	area := 0

	for len(queue) > 0 && area < limit {
		current := queue[0]
		queue = queue[1:]

		for _, direction := range Directions {
			next := current.TranslateBy(direction)
			if _, seen := visited[next]; seen {
				continue
			}
			visited[next] = struct{}{}

			if !m.IsTileAvailableForMovementTo(next) {
				continue
			}
			area++
			queue = append(queue, next)
		}
	}

	return min(area, limit)
}
