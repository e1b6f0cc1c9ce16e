package game

// Tile is the content of a single board cell.
type Tile uint8

const (
	TileEmpty Tile = iota
	TileFood
	TileObstacle
	TileSnakeHead
	TileSnakeBody
	TileSnakeTail
)

// Board is a read-only snapshot of the playing field for one tick.
type Board struct {
	Width  int
	Height int
	tiles  []Tile
}

// NewBoard creates an empty board. Use Set while building the snapshot.
func NewBoard(width, height int) *Board {
	return &Board{
		Width:  width,
		Height: height,
		tiles:  make([]Tile, width*height),
	}
}

// IsInsideBounds reports whether c lies on the board.
func (b *Board) IsInsideBounds(c Coordinate) bool {
	return c.X >= 0 && c.X < b.Width && c.Y >= 0 && c.Y < b.Height
}

// Set places a tile. Out of bounds coordinates are ignored.
func (b *Board) Set(c Coordinate, tile Tile) {
	if !b.IsInsideBounds(c) {
		return
	}
	b.tiles[c.Y*b.Width+c.X] = tile
}

// TileAt returns the content of c; everything outside the board reads as an obstacle.
func (b *Board) TileAt(c Coordinate) Tile {
	if !b.IsInsideBounds(c) {
		return TileObstacle
	}
	return b.tiles[c.Y*b.Width+c.X]
}

// IsOccupied is true for snakes, obstacles and any cell outside the board.
func (b *Board) IsOccupied(c Coordinate) bool {
	switch b.TileAt(c) {
	case TileEmpty, TileFood:
		return false
	}
	return true
}
