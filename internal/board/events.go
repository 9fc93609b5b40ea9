package board

// Cell-state events. Each is published on the board's bus after the state
// change it describes has been applied.

// CellColonized: new growth on an empty tile.
type CellColonized struct {
	TileID   int
	PlayerID int
	Source   Source
}

// CellInfested: a living enemy cell was replaced. The new cell is tagged
// SourceInfestation; Source is the mechanism that caused the takeover.
type CellInfested struct {
	TileID          int
	PlayerID        int
	PreviousOwnerID int
	Cause           DeathReason // what happened to the displaced cell
	Source          Source
}

// CellReclaimed: a dead cell was revived.
type CellReclaimed struct {
	TileID          int
	PlayerID        int
	PreviousOwnerID int
	ReclaimCount    int
	Source          Source
}

// CellToxified: an existing occupant (alive or dead) was turned into a toxin.
type CellToxified struct {
	TileID          int
	PlayerID        int
	PreviousOwnerID int
	PreviousType    CellType
	Expiration      int
	Source          Source
}

// ToxinPlaced: a toxin was placed on an empty tile.
type ToxinPlaced struct {
	TileID     int
	PlayerID   int
	Expiration int
	Source     Source
}

// CellOvergrown: a toxin was replaced by a living cell.
type CellOvergrown struct {
	TileID          int
	PlayerID        int
	PreviousOwnerID int
	Source          Source
}

// CellDied: a living cell became dead.
type CellDied struct {
	TileID         int
	OwnerID        int
	Reason         DeathReason
	KillerID       int // NoPlayer when nobody is credited
	AttackerTileID int // NoTile unless the death came from a neighbour
}

// ToxinExpired: a toxin reached its expiration age and was removed.
type ToxinExpired struct {
	TileID  int
	OwnerID int
}

// CellRemoved: a cell was cleared by RemoveCell.
type CellRemoved struct {
	TileID  int
	OwnerID int
	Type    CellType
}

// Batch events, raised once after the per-tile work of a bulk operation.

// ResistantCellsGranted lists the cells that became resistant in one call.
type ResistantCellsGranted struct {
	PlayerID int
	TileIDs  []int
	Source   Source
}

// ToxinsDropped lists the tiles toxified by one DropToxins call.
type ToxinsDropped struct {
	PlayerID int
	TileIDs  []int
	Source   Source
}

// Phase-boundary events, raised by the orchestrator on the board's bus.

type MutationPhaseStarted struct{ Round int }

type PreGrowthPhase struct{ Round int }

type GrowthCycleCompleted struct {
	Round int
	Cycle int
}

type PostGrowthPhase struct{ Round int }

// PostGrowthPhaseCompleted fires once per growth phase, after PostGrowthPhase,
// for cleanup passes that must see every post-growth effect applied.
type PostGrowthPhaseCompleted struct{ Round int }

// DecayPhase carries, per player, how many living cells failed to grow
// during the round's growth cycles.
type DecayPhase struct {
	Round         int
	FailedGrowths map[int]int
}

type PostDecayPhase struct{ Round int }

type RoundAdvanced struct{ Round int }
