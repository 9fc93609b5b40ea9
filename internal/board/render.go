package board

import "strings"

// String renders the grid top row first: '.' empty, a-z living cells by
// owner (upper case when resistant), 'x' dead, '#' toxin.
func (b *Board) String() string {
	var sb strings.Builder
	sb.Grow((b.width + 1) * b.height)
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			sb.WriteByte(glyph(b.tiles[y*b.width+x].cell))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func glyph(c *Cell) byte {
	if c == nil {
		return '.'
	}
	switch c.Type {
	case CellDead:
		return 'x'
	case CellToxin:
		return '#'
	}
	g := byte('a' + c.OwnerID%26)
	if c.Resistant {
		g -= 'a' - 'A'
	}
	return g
}
