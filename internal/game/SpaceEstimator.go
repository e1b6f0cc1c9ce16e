package game

import "github.com/charmbracelet/log"

const spaceWalkIterations = 1000

// CalculateSpace estimates the open area in direction by walking along walls:
// go straight until blocked, turn left, repeat. The score is the area of the
// rectangle the walk touched, not a cell count. The cell that stops each run
// is part of that rectangle, even when it is off the board.
func (m *MapUtil) CalculateSpace(direction Direction) int {
	pos := m.MyPosition()
	currDir := direction
	currPos := pos
	minX, maxX := pos.X, pos.X
	minY, maxY := pos.Y, pos.Y

	for i := 0; i < spaceWalkIterations; i++ {
		for {
			lastPos := currPos
			currPos = currPos.TranslateBy(currDir)

			minX = min(minX, currPos.X)
			maxX = max(maxX, currPos.X)
			minY = min(minY, currPos.Y)
			maxY = max(maxY, currPos.Y)

			if !m.IsTileAvailableForMovementTo(currPos) {
				currPos = lastPos
				break
			}
		}
		currDir = currDir.TurnLeft()
	}

	space := (maxX - minX) * (maxY - minY)
	log.Debug("Space estimated", "direction", direction, "space", space)
	return space
}
