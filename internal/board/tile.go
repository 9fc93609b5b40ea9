package board

// Tile is a fixed grid position. Tiles are created with the board and never
// move; the cell slot is only touched through Board.swap.
type Tile struct {
	ID   int
	X    int
	Y    int
	cell *Cell
}

// Occupied reports whether a cell sits on the tile.
func (t Tile) Occupied() bool { return t.cell != nil }
