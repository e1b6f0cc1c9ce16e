package protocol

import (
	"errors"
	"fmt"

	"github.com/Mshel/flipper/internal/game"
)

// ErrPlayerNotOnMap means the map has no living snake with the requested id.
var ErrPlayerNotOnMap = errors.New("player not on map")

// Map is the board as the server sends it. Positions are linear indices,
// y*width + x.
type Map struct {
	Width             int         `json:"width"`
	Height            int         `json:"height"`
	WorldTick         int64       `json:"worldTick"`
	SnakeInfos        []SnakeInfo `json:"snakeInfos"`
	FoodPositions     []int       `json:"foodPositions"`
	ObstaclePositions []int       `json:"obstaclePositions"`
}

// SnakeInfo lists a snake's cells head first. A dead snake has no positions.
type SnakeInfo struct {
	Name                      string `json:"name"`
	Points                    int    `json:"points"`
	Positions                 []int  `json:"positions"`
	TailProtectedForGameTicks int    `json:"tailProtectedForGameTicks"`
	ID                        string `json:"id"`
}

func (s SnakeInfo) IsAlive() bool {
	return len(s.Positions) > 0
}

// Coordinate converts a linear position into x/y.
func (m Map) Coordinate(position int) game.Coordinate {
	if m.Width <= 0 {
		return game.Coordinate{}
	}
	return game.Coordinate{X: position % m.Width, Y: position / m.Width}
}

// Position converts x/y into a linear position.
func (m Map) Position(c game.Coordinate) int {
	return c.Y*m.Width + c.X
}

func (m Map) SnakeByID(id string) (SnakeInfo, bool) {
	for _, snake := range m.SnakeInfos {
		if snake.ID == id {
			return snake, true
		}
	}
	return SnakeInfo{}, false
}

// Board builds the occupancy snapshot for this map.
func (m Map) Board() *game.Board {
	board := game.NewBoard(m.Width, m.Height)

	for _, position := range m.ObstaclePositions {
		board.Set(m.Coordinate(position), game.TileObstacle)
	}
	for _, position := range m.FoodPositions {
		board.Set(m.Coordinate(position), game.TileFood)
	}
	for _, snake := range m.SnakeInfos {
		for i, position := range snake.Positions {
			tile := game.TileSnakeBody
			switch {
			case i == 0:
				tile = game.TileSnakeHead
			case i == len(snake.Positions)-1:
				tile = game.TileSnakeTail
			}
			board.Set(m.Coordinate(position), tile)
		}
	}

	return board
}

// NewMapUtil builds the per-tick accessor for playerID on m.
func NewMapUtil(m Map, playerID string) (*game.MapUtil, error) {
	snake, ok := m.SnakeByID(playerID)
	if !ok || !snake.IsAlive() {
		return nil, fmt.Errorf("%w: %s", ErrPlayerNotOnMap, playerID)
	}
	return game.NewMapUtil(m.Board(), m.Coordinate(snake.Positions[0])), nil
}
