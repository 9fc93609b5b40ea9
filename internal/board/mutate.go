package board

import (
	"fmt"

	"github.com/sporefront/colony/internal/core/event"
)

// swap is the single choke point for writing a tile's cell slot. It replaces
// whatever occupies tileID with next (nil clears the tile) and keeps the
// occupancy index in lockstep. A resistant occupant is never replaced or
// cleared; only re-putting that same cell after an in-place change is allowed.
func (b *Board) swap(tileID int, next *Cell) (prev *Cell, ok bool) {
	t := &b.tiles[tileID]
	prev = t.cell
	b.index.mustAgree(tileID, prev)
	if prev != nil && prev.Resistant && prev != next {
		return prev, false
	}
	t.cell = next
	if next == nil {
		b.index.remove(tileID)
	} else {
		next.TileID = tileID
		b.index.put(tileID, next)
	}
	return prev, true
}

func (b *Board) checkTile(tileID int) error {
	if !b.validTile(tileID) {
		return fmt.Errorf("tile %d: %w", tileID, ErrOutOfBounds)
	}
	return nil
}

func (b *Board) checkPlayer(playerID int) error {
	if !b.HasPlayer(playerID) {
		return fmt.Errorf("player %d: %w", playerID, ErrUnknownPlayer)
	}
	return nil
}

// PlaceInitialSpore puts playerID's starting cell at (x, y).
func (b *Board) PlaceInitialSpore(playerID, x, y int) error {
	id, ok := b.TileID(x, y)
	if !ok {
		return fmt.Errorf("initial spore (%d,%d): %w", x, y, ErrOutOfBounds)
	}
	return b.Colonize(playerID, id, SourceInitialSpore)
}

// PlaceStartingSpores spreads one initial spore per player around a ring
// centred on the board.
func (b *Board) PlaceStartingSpores() error {
	cx, cy := b.width/2, b.height/2
	rx, ry := b.width/4, b.height/4
	n := len(b.players)
	for i, pid := range b.players {
		x, y := cx, cy
		if n > 1 {
			x, y = ringPoint(cx, cy, rx, ry, i, n)
		}
		if err := b.PlaceInitialSpore(pid, x, y); err != nil {
			return err
		}
	}
	return nil
}

// Colonize grows a new living cell for playerID on an empty tile.
func (b *Board) Colonize(playerID, tileID int, src Source) error {
	if err := b.checkTile(tileID); err != nil {
		return err
	}
	if err := b.checkPlayer(playerID); err != nil {
		return err
	}
	if b.tiles[tileID].cell != nil {
		return fmt.Errorf("colonize tile %d: %w", tileID, ErrTileOccupied)
	}
	c := newCell(tileID, playerID, CellAlive, src, b.round, b.cycleStamp)
	c.NewlyGrown = true
	b.swap(tileID, c)
	event.Publish(b.bus, CellColonized{TileID: tileID, PlayerID: playerID, Source: src})
	return nil
}

// DeathInfo describes a kill request. Build it with Death or Killed; the
// zero KillerID and AttackerTileID name player 0 and tile 0.
type DeathInfo struct {
	Reason         DeathReason
	KillerID       int
	AttackerTileID int
}

// Death is a kill request nobody is credited for.
func Death(reason DeathReason) DeathInfo {
	return DeathInfo{Reason: reason, KillerID: NoPlayer, AttackerTileID: NoTile}
}

// Killed is a kill request credited to killerID, attacking from attackerTileID.
func Killed(reason DeathReason, killerID, attackerTileID int) DeathInfo {
	return DeathInfo{Reason: reason, KillerID: killerID, AttackerTileID: attackerTileID}
}

// Kill turns the living cell on tileID into a dead one. Empty, dead, toxin
// and resistant tiles are left alone and false is returned.
func (b *Board) Kill(tileID int, info DeathInfo) bool {
	if !b.validTile(tileID) {
		return false
	}
	prev := b.tiles[tileID].cell
	if prev == nil || prev.Type != CellAlive || prev.Resistant {
		return false
	}
	next := *prev
	next.Type = CellDead
	next.CauseOfDeath = info.Reason
	next.Dying = true
	b.swap(tileID, &next)
	event.Publish(b.bus, CellDied{
		TileID:         tileID,
		OwnerID:        next.OwnerID,
		Reason:         info.Reason,
		KillerID:       info.KillerID,
		AttackerTileID: info.AttackerTileID,
	})
	return true
}

// Reclaim revives the dead cell on tileID under playerID. Anything other
// than a dead cell is a caller error, and a resistant slot is refused with
// ErrResistant.
func (b *Board) Reclaim(playerID, tileID int, src Source) error {
	if err := b.checkTile(tileID); err != nil {
		return err
	}
	if err := b.checkPlayer(playerID); err != nil {
		return err
	}
	prev := b.tiles[tileID].cell
	if prev == nil || prev.Type != CellDead {
		return fmt.Errorf("reclaim tile %d: %w", tileID, ErrNotDead)
	}
	if !b.reclaim(playerID, prev, src) {
		return fmt.Errorf("reclaim tile %d: %w", tileID, ErrResistant)
	}
	return nil
}

// reclaim reports false when the slot refused the write.
func (b *Board) reclaim(playerID int, prev *Cell, src Source) bool {
	next := *prev
	next.LastOwnerID = prev.OwnerID
	next.OwnerID = playerID
	next.Type = CellAlive
	next.CauseOfDeath = DeathReasonNone
	next.ReclaimCount++
	next.Age = 0
	next.Source = src
	next.NewlyGrown = true
	next.Dying = false
	if _, ok := b.swap(prev.TileID, &next); !ok {
		return false
	}
	event.Publish(b.bus, CellReclaimed{
		TileID:          prev.TileID,
		PlayerID:        playerID,
		PreviousOwnerID: prev.OwnerID,
		ReclaimCount:    next.ReclaimCount,
		Source:          src,
	})
	return true
}

// Toxify places playerID's toxin on tileID, expiring when its age reaches
// expiration. Resistant occupants are left alone and false is returned.
func (b *Board) Toxify(playerID, tileID, expiration int, src Source) (bool, error) {
	if expiration < 1 {
		return false, fmt.Errorf("toxify tile %d with expiration %d: %w", tileID, expiration, ErrInvalidExpiration)
	}
	if err := b.checkTile(tileID); err != nil {
		return false, err
	}
	if err := b.checkPlayer(playerID); err != nil {
		return false, err
	}
	prev := b.tiles[tileID].cell
	if prev != nil && prev.Resistant {
		return false, nil
	}
	next := newCell(tileID, playerID, CellToxin, src, b.round, b.cycleStamp)
	next.ToxinExpiration = expiration
	next.ReceivingToxin = true
	if prev != nil {
		next.LastOwnerID = prev.OwnerID
		next.ReclaimCount = prev.ReclaimCount
		if prev.Type == CellAlive {
			next.CauseOfDeath = DeathReasonToxified
		}
	}
	b.swap(tileID, next)
	if prev == nil {
		event.Publish(b.bus, ToxinPlaced{TileID: tileID, PlayerID: playerID, Expiration: expiration, Source: src})
	} else {
		event.Publish(b.bus, CellToxified{
			TileID:          tileID,
			PlayerID:        playerID,
			PreviousOwnerID: prev.OwnerID,
			PreviousType:    prev.Type,
			Expiration:      expiration,
			Source:          src,
		})
	}
	return true, nil
}

// DropToxins toxifies each tile in order, then raises one ToxinsDropped
// listing the tiles that actually changed.
func (b *Board) DropToxins(playerID int, tileIDs []int, expiration int, src Source) ([]int, error) {
	if expiration < 1 {
		return nil, fmt.Errorf("drop toxins with expiration %d: %w", expiration, ErrInvalidExpiration)
	}
	if err := b.checkPlayer(playerID); err != nil {
		return nil, err
	}
	placed := make([]int, 0, len(tileIDs))
	for _, id := range tileIDs {
		ok, err := b.Toxify(playerID, id, expiration, src)
		if err != nil {
			return placed, err
		}
		if ok {
			placed = append(placed, id)
		}
	}
	if len(placed) > 0 {
		event.Publish(b.bus, ToxinsDropped{PlayerID: playerID, TileIDs: placed, Source: src})
	}
	return placed, nil
}

// ExpireToxin removes the toxin on tileID if its age has reached its
// expiration, raising ToxinExpired.
func (b *Board) ExpireToxin(tileID int) bool {
	if !b.validTile(tileID) {
		return false
	}
	prev := b.tiles[tileID].cell
	if prev == nil || !prev.IsExpiredToxin() {
		return false
	}
	if _, ok := b.swap(tileID, nil); !ok {
		return false
	}
	event.Publish(b.bus, ToxinExpired{TileID: tileID, OwnerID: prev.OwnerID})
	return true
}

// RemoveCell clears tileID. Removing from an empty tile is a no-op with no
// event; a resistant occupant is never removed.
func (b *Board) RemoveCell(tileID int) bool {
	if !b.validTile(tileID) {
		return false
	}
	prev, ok := b.swap(tileID, nil)
	if prev == nil || !ok {
		return false
	}
	event.Publish(b.bus, CellRemoved{TileID: tileID, OwnerID: prev.OwnerID, Type: prev.Type})
	return true
}

// MakeResistant flags the living cell on tileID as resistant and raises
// ResistantCellsGranted for that one tile. Returns false if there is no
// living cell or it already is resistant.
func (b *Board) MakeResistant(tileID int, src Source) bool {
	if !b.makeResistant(tileID) {
		return false
	}
	c := b.tiles[tileID].cell
	event.Publish(b.bus, ResistantCellsGranted{PlayerID: c.OwnerID, TileIDs: []int{tileID}, Source: src})
	return true
}

func (b *Board) makeResistant(tileID int) bool {
	if !b.validTile(tileID) {
		return false
	}
	c := b.tiles[tileID].cell
	if c == nil || c.Type != CellAlive || c.Resistant {
		return false
	}
	c.Resistant = true
	b.swap(tileID, c)
	return true
}

// MakeResistantMany flags each listed living cell owned by playerID as
// resistant and raises one ResistantCellsGranted for those that changed.
func (b *Board) MakeResistantMany(playerID int, tileIDs []int, src Source) []int {
	granted := make([]int, 0, len(tileIDs))
	for _, id := range tileIDs {
		if !b.validTile(id) {
			continue
		}
		if c := b.tiles[id].cell; c == nil || c.OwnerID != playerID {
			continue
		}
		if b.makeResistant(id) {
			granted = append(granted, id)
		}
	}
	if len(granted) > 0 {
		event.Publish(b.bus, ResistantCellsGranted{PlayerID: playerID, TileIDs: granted, Source: src})
	}
	return granted
}

// ResetAge sets the age of a living cell back to zero.
func (b *Board) ResetAge(tileID int) bool {
	if !b.validTile(tileID) {
		return false
	}
	c := b.tiles[tileID].cell
	if c == nil || c.Type != CellAlive {
		return false
	}
	c.Age = 0
	return true
}

// AgeCells ages every cell by one growth cycle. A cell ages at most once per
// BeginGrowthCycle window, so repeated calls within one cycle are harmless.
// Toxins whose age reaches their expiration are removed on the spot.
// Returns the number of toxins expired.
func (b *Board) AgeCells() int {
	expired := 0
	for i := range b.tiles {
		c := b.tiles[i].cell
		if c == nil || c.agedAt == b.cycleStamp {
			continue
		}
		c.agedAt = b.cycleStamp
		c.Age++
		if c.IsExpiredToxin() && b.ExpireToxin(i) {
			expired++
		}
	}
	return expired
}
