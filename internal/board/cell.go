package board

// NoPlayer marks an absent owner, killer or previous owner.
const NoPlayer = -1

// NoTile marks an absent attacker tile.
const NoTile = -1

// CellType is the occupancy state of a tile. An empty tile has no cell at all.
type CellType uint8

const (
	CellAlive CellType = iota
	CellDead
	CellToxin
)

func (t CellType) String() string {
	switch t {
	case CellAlive:
		return "alive"
	case CellDead:
		return "dead"
	case CellToxin:
		return "toxin"
	}
	return "unknown"
}

// DeathReason tags why a cell stopped being alive.
type DeathReason uint8

const (
	DeathReasonNone DeathReason = iota
	DeathReasonRandomness
	DeathReasonAge
	DeathReasonAdjacentAttack
	DeathReasonInfested
	DeathReasonToxified
	DeathReasonCascade
	DeathReasonEffect
)

var deathReasonNames = [...]string{
	DeathReasonNone:           "none",
	DeathReasonRandomness:     "randomness",
	DeathReasonAge:            "age",
	DeathReasonAdjacentAttack: "adjacent_attack",
	DeathReasonInfested:       "infested",
	DeathReasonToxified:       "toxified",
	DeathReasonCascade:        "cascade",
	DeathReasonEffect:         "effect",
}

func (r DeathReason) String() string {
	if int(r) < len(deathReasonNames) {
		return deathReasonNames[r]
	}
	return "unknown"
}

// Source tags the mechanism that produced a placement. Overgrowth is kept
// apart from ordinary growth since it means breaking through a toxin.
type Source uint8

const (
	SourceUnknown Source = iota
	SourceInitialSpore
	SourceHyphalOutgrowth
	SourceReclaim
	SourceInfestation
	SourceOvergrowth
	SourceToxinDrop
	SourceCascade
	SourceEffect
)

var sourceNames = [...]string{
	SourceUnknown:         "unknown",
	SourceInitialSpore:    "initial_spore",
	SourceHyphalOutgrowth: "hyphal_outgrowth",
	SourceReclaim:         "reclaim",
	SourceInfestation:     "infestation",
	SourceOvergrowth:      "overgrowth",
	SourceToxinDrop:       "toxin_drop",
	SourceCascade:         "cascade",
	SourceEffect:          "effect",
}

func (s Source) String() string {
	if int(s) < len(sourceNames) {
		return sourceNames[s]
	}
	return "unknown"
}

// Cell is the occupant record of a tile. Values handed out by the Board are
// copies; state only changes through Board methods.
type Cell struct {
	TileID          int
	OwnerID         int
	OriginalOwnerID int
	LastOwnerID     int // owner before the most recent ownership change
	Type            CellType
	Resistant       bool
	Age             int // growth cycles lived
	ToxinExpiration int // age at which a toxin is removed
	CauseOfDeath    DeathReason
	ReclaimCount    int
	Source          Source
	BornRound       int

	// Display-only; cleared at the start of each growth cycle.
	NewlyGrown     bool
	Dying          bool
	ReceivingToxin bool

	agedAt int // growth-cycle stamp of the last aging; cells born in a cycle skip it
}

func (c Cell) IsAlive() bool { return c.Type == CellAlive }
func (c Cell) IsDead() bool  { return c.Type == CellDead }
func (c Cell) IsToxin() bool { return c.Type == CellToxin }

// IsExpiredToxin reports whether a toxin has reached its expiration age.
func (c Cell) IsExpiredToxin() bool {
	return c.Type == CellToxin && c.Age >= c.ToxinExpiration
}

func newCell(tileID, ownerID int, t CellType, src Source, round, stamp int) *Cell {
	return &Cell{
		TileID:          tileID,
		OwnerID:         ownerID,
		OriginalOwnerID: ownerID,
		LastOwnerID:     NoPlayer,
		Type:            t,
		Source:          src,
		BornRound:       round,
		agedAt:          stamp,
	}
}
