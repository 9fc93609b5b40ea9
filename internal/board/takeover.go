package board

import "github.com/sporefront/colony/internal/core/event"

// TakeoverResult is the outcome of one player trying to claim one tile.
type TakeoverResult uint8

const (
	TakeoverInvalid TakeoverResult = iota
	TakeoverAlreadyOwned
	TakeoverInfested
	TakeoverReclaimed
	TakeoverOvergrown
	TakeoverInvalidBecauseResistant
)

func (r TakeoverResult) String() string {
	switch r {
	case TakeoverAlreadyOwned:
		return "already_owned"
	case TakeoverInfested:
		return "infested"
	case TakeoverReclaimed:
		return "reclaimed"
	case TakeoverOvergrown:
		return "overgrown"
	case TakeoverInvalidBecauseResistant:
		return "invalid_resistant"
	}
	return "invalid"
}

// Succeeded reports whether the result changed the tile.
func (r TakeoverResult) Succeeded() bool {
	return r == TakeoverInfested || r == TakeoverReclaimed || r == TakeoverOvergrown
}

// ResolveTakeover decides what a takeover of occupant by requester would do,
// without touching anything. A nil occupant (empty tile) is Invalid; empty
// tiles are colonized, not taken over.
func ResolveTakeover(occupant *Cell, requester int, allowToxin bool) TakeoverResult {
	switch {
	case occupant == nil:
		return TakeoverInvalid
	case occupant.Resistant:
		return TakeoverInvalidBecauseResistant
	case occupant.Type == CellAlive && occupant.OwnerID == requester:
		return TakeoverAlreadyOwned
	case occupant.Type == CellAlive:
		return TakeoverInfested
	case occupant.Type == CellDead:
		return TakeoverReclaimed
	case occupant.Type == CellToxin && allowToxin:
		return TakeoverOvergrown
	}
	return TakeoverInvalid
}

// ResolveTakeover is the side-effect-free precondition check for Takeover.
func (b *Board) ResolveTakeover(playerID, tileID int, allowToxin bool) TakeoverResult {
	if !b.validTile(tileID) || !b.HasPlayer(playerID) {
		return TakeoverInvalid
	}
	return ResolveTakeover(b.tiles[tileID].cell, playerID, allowToxin)
}

// Takeover applies the same decision as ResolveTakeover and commits it,
// raising CellInfested, CellReclaimed or CellOvergrown. Non-committing
// outcomes raise nothing.
func (b *Board) Takeover(playerID, tileID int, allowToxin bool, src Source) TakeoverResult {
	result := b.ResolveTakeover(playerID, tileID, allowToxin)
	if !result.Succeeded() {
		return result
	}
	prev := b.tiles[tileID].cell
	switch result {
	case TakeoverInfested:
		next := newCell(tileID, playerID, CellAlive, SourceInfestation, b.round, b.cycleStamp)
		next.LastOwnerID = prev.OwnerID
		next.ReclaimCount = prev.ReclaimCount
		next.NewlyGrown = true
		b.swap(tileID, next)
		event.Publish(b.bus, CellInfested{
			TileID:          tileID,
			PlayerID:        playerID,
			PreviousOwnerID: prev.OwnerID,
			Cause:           DeathReasonInfested,
			Source:          src,
		})
	case TakeoverReclaimed:
		b.reclaim(playerID, prev, src)
	case TakeoverOvergrown:
		next := newCell(tileID, playerID, CellAlive, SourceOvergrowth, b.round, b.cycleStamp)
		next.LastOwnerID = prev.OwnerID
		next.ReclaimCount = prev.ReclaimCount
		next.NewlyGrown = true
		b.swap(tileID, next)
		event.Publish(b.bus, CellOvergrown{
			TileID:          tileID,
			PlayerID:        playerID,
			PreviousOwnerID: prev.OwnerID,
			Source:          src,
		})
	}
	return result
}
