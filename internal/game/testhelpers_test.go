package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// mapFromRows builds a MapUtil from ASCII art:
// '.' empty, 'F' food, '#' obstacle, 'x' snake body, 'H' own head.
func mapFromRows(t *testing.T, rows ...string) *MapUtil {
	t.Helper()
	require.NotEmpty(t, rows)

	board := NewBoard(len(rows[0]), len(rows))
	var head *Coordinate
	for y, row := range rows {
		require.Len(t, row, board.Width, "row %d", y)
		for x, cell := range row {
			c := Coordinate{X: x, Y: y}
			switch cell {
			case '.':
			case 'F':
				board.Set(c, TileFood)
			case '#':
				board.Set(c, TileObstacle)
			case 'x':
				board.Set(c, TileSnakeBody)
			case 'H':
				board.Set(c, TileSnakeHead)
				head = &c
			default:
				t.Fatalf("unknown cell %q at %v", cell, c)
			}
		}
	}
	require.NotNil(t, head, "board has no head")
	return NewMapUtil(board, *head)
}

// openMap is an empty width x height board with the head at pos.
func openMap(width, height int, pos Coordinate) *MapUtil {
	board := NewBoard(width, height)
	board.Set(pos, TileSnakeHead)
	return NewMapUtil(board, pos)
}

// boxIn surrounds pos with obstacles.
func boxIn(m *MapUtil) *MapUtil {
	for _, direction := range Directions {
		m.Board().Set(m.MyPosition().TranslateBy(direction), TileObstacle)
	}
	return m
}
