package board

import (
	"fmt"
	"sort"
)

// occupancy is the tile-id → cell index plus per-player owned-tile sets.
// It is kept in lockstep with the tile slots by Board.swap; nothing else
// writes to it.
type occupancy struct {
	cells   map[int]*Cell
	ownerOf map[int]int              // tileID → owner the tile is indexed under
	owned   map[int]map[int]struct{} // playerID → set of tileIDs
}

func newOccupancy(capacity int) *occupancy {
	return &occupancy{
		cells:   make(map[int]*Cell, capacity),
		ownerOf: make(map[int]int, capacity),
		owned:   make(map[int]map[int]struct{}),
	}
}

func (o *occupancy) get(tileID int) (*Cell, bool) {
	c, ok := o.cells[tileID]
	return c, ok
}

// put indexes c under tileID. Re-putting the same cell after an in-place
// ownership change moves the tile between owner sets.
func (o *occupancy) put(tileID int, c *Cell) {
	o.detach(tileID)
	o.cells[tileID] = c
	if c.OwnerID == NoPlayer {
		return
	}
	set := o.owned[c.OwnerID]
	if set == nil {
		set = make(map[int]struct{})
		o.owned[c.OwnerID] = set
	}
	set[tileID] = struct{}{}
	o.ownerOf[tileID] = c.OwnerID
}

func (o *occupancy) remove(tileID int) {
	o.detach(tileID)
	delete(o.cells, tileID)
}

func (o *occupancy) detach(tileID int) {
	owner, ok := o.ownerOf[tileID]
	if !ok {
		return
	}
	delete(o.ownerOf, tileID)
	if set := o.owned[owner]; set != nil {
		delete(set, tileID)
		if len(set) == 0 {
			delete(o.owned, owner)
		}
	}
}

func (o *occupancy) ownedBy(playerID int) []int {
	set := o.owned[playerID]
	ids := make([]int, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func (o *occupancy) len() int { return len(o.cells) }

// mustAgree panics when the index and the tile slot disagree. That can only
// happen if something bypassed Board.swap.
func (o *occupancy) mustAgree(tileID int, slot *Cell) {
	indexed, ok := o.cells[tileID]
	switch {
	case slot == nil && ok:
		panic(fmt.Sprintf("board: occupancy index holds cell for empty tile %d", tileID))
	case slot != nil && indexed != slot:
		panic(fmt.Sprintf("board: occupancy index out of sync at tile %d", tileID))
	}
}
