package board

import (
	"fmt"
	"slices"

	"github.com/sporefront/colony/internal/core/event"
)

// ColonySize is a coarse size bucket of a player's living colony relative to
// the board, memoized per round.
type ColonySize uint8

const (
	ColonySmall ColonySize = iota
	ColonyMedium
	ColonyLarge
)

func (s ColonySize) String() string {
	switch s {
	case ColonySmall:
		return "small"
	case ColonyMedium:
		return "medium"
	}
	return "large"
}

// Board is the fixed tile grid plus the authoritative occupancy index.
// It is single-threaded: every method runs to completion on the caller's
// goroutine, including the event handlers it triggers.
type Board struct {
	width   int
	height  int
	tiles   []Tile
	index   *occupancy
	players []int
	bus     *event.Bus

	round      int
	cycle      int // growth cycle within the round, 0 outside the growth phase
	cycleStamp int // monotonically increasing across rounds
	roundCtx   *RoundContext

	memoRatio   float64
	memoRatioOK bool
	memoSizes   map[int]ColonySize
}

// New builds a width×height board for the given players. Player ids are
// owner identifiers; the player objects live elsewhere.
func New(width, height int, playerIDs []int, bus *event.Bus) (*Board, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("new board %dx%d: %w", width, height, ErrInvalidSize)
	}
	if len(playerIDs) == 0 {
		return nil, ErrNoPlayers
	}
	seen := make(map[int]struct{}, len(playerIDs))
	for _, id := range playerIDs {
		if id < 0 {
			return nil, fmt.Errorf("player id %d: %w", id, ErrUnknownPlayer)
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("duplicate player id %d", id)
		}
		seen[id] = struct{}{}
	}
	if bus == nil {
		bus = event.NewBus()
	}
	b := &Board{
		width:     width,
		height:    height,
		tiles:     make([]Tile, width*height),
		index:     newOccupancy(width * height),
		players:   slices.Clone(playerIDs),
		bus:       bus,
		round:     1,
		roundCtx:  newRoundContext(),
		memoSizes: make(map[int]ColonySize),
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			id := y*width + x
			b.tiles[id] = Tile{ID: id, X: x, Y: y}
		}
	}
	return b, nil
}

func (b *Board) Width() int                  { return b.width }
func (b *Board) Height() int                 { return b.height }
func (b *Board) TileCount() int              { return len(b.tiles) }
func (b *Board) Bus() *event.Bus             { return b.bus }
func (b *Board) Round() int                  { return b.round }
func (b *Board) GrowthCycle() int            { return b.cycle }
func (b *Board) RoundContext() *RoundContext { return b.roundCtx }

// Players returns the player ids in board order.
func (b *Board) Players() []int { return slices.Clone(b.players) }

func (b *Board) HasPlayer(id int) bool { return slices.Contains(b.players, id) }

func (b *Board) InBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

// TileID converts coordinates to a tile id.
func (b *Board) TileID(x, y int) (int, bool) {
	if !b.InBounds(x, y) {
		return 0, false
	}
	return y*b.width + x, true
}

func (b *Board) XY(tileID int) (int, int) {
	return tileID % b.width, tileID / b.width
}

func (b *Board) validTile(tileID int) bool {
	return tileID >= 0 && tileID < len(b.tiles)
}

func (b *Board) Tile(tileID int) (Tile, bool) {
	if !b.validTile(tileID) {
		return Tile{}, false
	}
	return b.tiles[tileID], true
}

// Cell returns a copy of the cell on tileID.
func (b *Board) Cell(tileID int) (Cell, bool) {
	c, ok := b.index.get(tileID)
	if !ok {
		return Cell{}, false
	}
	return *c, true
}

func (b *Board) IsEmpty(tileID int) bool {
	_, ok := b.index.get(tileID)
	return b.validTile(tileID) && !ok
}

var orthogonal = [4][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}

var surrounding = [8][2]int{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// OrthogonalNeighbors returns the in-bounds N/E/S/W neighbours of tileID.
func (b *Board) OrthogonalNeighbors(tileID int) []int {
	return b.neighbors(tileID, orthogonal[:])
}

// Neighbors returns all in-bounds neighbours including diagonals.
func (b *Board) Neighbors(tileID int) []int {
	return b.neighbors(tileID, surrounding[:])
}

func (b *Board) neighbors(tileID int, offsets [][2]int) []int {
	if !b.validTile(tileID) {
		return nil
	}
	x, y := b.XY(tileID)
	out := make([]int, 0, len(offsets))
	for _, d := range offsets {
		if id, ok := b.TileID(x+d[0], y+d[1]); ok {
			out = append(out, id)
		}
	}
	return out
}

// Cells returns copies of every cell in tile order. The slice is a snapshot:
// callers may mutate the board while ranging over it.
func (b *Board) Cells() []Cell {
	return b.collect(func(*Cell) bool { return true })
}

func (b *Board) LivingCells() []Cell {
	return b.collect(func(c *Cell) bool { return c.Type == CellAlive })
}

func (b *Board) DeadCells() []Cell {
	return b.collect(func(c *Cell) bool { return c.Type == CellDead })
}

func (b *Board) ToxinCells() []Cell {
	return b.collect(func(c *Cell) bool { return c.Type == CellToxin })
}

func (b *Board) collect(keep func(*Cell) bool) []Cell {
	out := make([]Cell, 0, b.index.len())
	for i := range b.tiles {
		if c := b.tiles[i].cell; c != nil && keep(c) {
			out = append(out, *c)
		}
	}
	return out
}

// OwnedTileIDs returns the sorted tiles whose occupant belongs to playerID,
// regardless of cell type.
func (b *Board) OwnedTileIDs(playerID int) []int {
	return b.index.ownedBy(playerID)
}

// CellsOwnedBy returns copies of every cell owned by playerID in tile order.
func (b *Board) CellsOwnedBy(playerID int) []Cell {
	ids := b.index.ownedBy(playerID)
	out := make([]Cell, 0, len(ids))
	for _, id := range ids {
		c, _ := b.index.get(id)
		out = append(out, *c)
	}
	return out
}

func (b *Board) LivingCellCount(playerID int) int {
	n := 0
	for _, id := range b.index.ownedBy(playerID) {
		if c, _ := b.index.get(id); c.Type == CellAlive {
			n++
		}
	}
	return n
}

// OccupiedCount is the number of tiles holding a cell of any type.
func (b *Board) OccupiedCount() int { return b.index.len() }

// OccupancyRatio is the fraction of occupied tiles, memoized until the round
// advances.
func (b *Board) OccupancyRatio() float64 {
	if !b.memoRatioOK {
		b.memoRatio = float64(b.index.len()) / float64(len(b.tiles))
		b.memoRatioOK = true
	}
	return b.memoRatio
}

// ColonySize buckets a player's living colony, memoized until the round
// advances.
func (b *Board) ColonySize(playerID int) ColonySize {
	if s, ok := b.memoSizes[playerID]; ok {
		return s
	}
	share := float64(b.LivingCellCount(playerID)) / float64(len(b.tiles))
	s := ColonyLarge
	switch {
	case share < 0.02:
		s = ColonySmall
	case share < 0.10:
		s = ColonyMedium
	}
	b.memoSizes[playerID] = s
	return s
}

// BeginGrowthCycle marks the start of growth cycle n of the current round.
// Each call opens a new aging window for AgeCells.
func (b *Board) BeginGrowthCycle(n int) {
	b.cycle = n
	b.cycleStamp++
	for i := range b.tiles {
		if c := b.tiles[i].cell; c != nil {
			c.NewlyGrown = false
			c.Dying = false
			c.ReceivingToxin = false
		}
	}
}

// EndGrowthPhase resets the growth cycle counter.
func (b *Board) EndGrowthPhase() { b.cycle = 0 }

// AdvanceRound moves to the next round, resetting the round context and
// dropping per-round memoized data.
func (b *Board) AdvanceRound() {
	b.round++
	b.cycle = 0
	b.roundCtx.reset()
	b.memoRatioOK = false
	clear(b.memoSizes)
}

// Verify checks that the occupancy index and the tile slots agree exactly.
func (b *Board) Verify() error {
	count := 0
	for i := range b.tiles {
		slot := b.tiles[i].cell
		indexed, ok := b.index.cells[i]
		if slot == nil {
			if ok {
				return fmt.Errorf("tile %d: index has cell but slot is empty", i)
			}
			continue
		}
		count++
		if indexed != slot {
			return fmt.Errorf("tile %d: index and slot disagree", i)
		}
		if slot.TileID != i {
			return fmt.Errorf("tile %d: cell claims tile %d", i, slot.TileID)
		}
		if slot.OwnerID != NoPlayer {
			if _, ok := b.index.owned[slot.OwnerID][i]; !ok {
				return fmt.Errorf("tile %d: missing from owner %d set", i, slot.OwnerID)
			}
		}
	}
	if count != b.index.len() {
		return fmt.Errorf("index holds %d cells, grid holds %d", b.index.len(), count)
	}
	for owner, set := range b.index.owned {
		for id := range set {
			c := b.tiles[id].cell
			if c == nil || c.OwnerID != owner {
				return fmt.Errorf("owner %d set lists stale tile %d", owner, id)
			}
		}
	}
	return nil
}
