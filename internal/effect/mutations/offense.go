package mutations

import (
	"github.com/sporefront/colony/internal/board"
	"github.com/sporefront/colony/internal/data"
	"github.com/sporefront/colony/internal/effect"
	"go.uber.org/zap"
)

// PutrefactiveCascade lets the killer of an adjacency kill take the dead
// cell over, then push through it and kill the next enemy cell in the same
// direction. The follow-up death is tagged Cascade, which this module
// ignores, so a cascade never chains.
type PutrefactiveCascade struct{}

func (PutrefactiveCascade) Name() string            { return string(data.PutrefactiveCascade) }
func (PutrefactiveCascade) Category() data.Category { return data.CategoryOffense }

func (PutrefactiveCascade) OnCellDied(ctx *effect.Context, e board.CellDied) {
	if e.Reason != board.DeathReasonAdjacentAttack || e.KillerID == board.NoPlayer || e.AttackerTileID == board.NoTile {
		return
	}
	killer, ok := ctx.Player(e.KillerID)
	if !ok {
		return
	}
	chance := killer.CascadeChance()
	if chance <= 0 || ctx.Rand.Float64() >= chance {
		return
	}
	if limit := killer.CapFor(data.PutrefactiveCascade); limit > 0 &&
		!ctx.RoundContext().TryConsume(killer.ID(), string(data.PutrefactiveCascade), limit) {
		return
	}

	b := ctx.Board
	if b.Takeover(killer.ID(), e.TileID, false, board.SourceCascade) != board.TakeoverReclaimed {
		return
	}
	ctx.Observer.RecordReclaim(killer.ID(), board.SourceCascade)

	ax, ay := b.XY(e.AttackerTileID)
	vx, vy := b.XY(e.TileID)
	next, ok := b.TileID(2*vx-ax, 2*vy-ay)
	if !ok {
		return
	}
	c, ok := b.Cell(next)
	if !ok || !c.IsAlive() || c.OwnerID == killer.ID() {
		return
	}
	if b.Kill(next, board.Killed(board.DeathReasonCascade, killer.ID(), e.TileID)) {
		ctx.Observer.RecordDeath(c.OwnerID, board.DeathReasonCascade, killer.ID())
	}
}

// SporicidalRelease may scatter the dying cell owner's toxins onto the
// empty tiles around it.
type SporicidalRelease struct{}

func (SporicidalRelease) Name() string            { return string(data.SporicidalRelease) }
func (SporicidalRelease) Category() data.Category { return data.CategoryOffense }

func (SporicidalRelease) OnCellDied(ctx *effect.Context, e board.CellDied) {
	p, ok := ctx.Player(e.OwnerID)
	if !ok {
		return
	}
	chance := p.ToxinDropChance()
	if chance <= 0 || ctx.Rand.Float64() >= chance {
		return
	}
	b := ctx.Board
	var targets []int
	for _, n := range b.OrthogonalNeighbors(e.TileID) {
		if b.IsEmpty(n) {
			targets = append(targets, n)
		}
	}
	if len(targets) == 0 {
		return
	}
	if limit := p.CapFor(data.SporicidalRelease); limit > 0 &&
		!ctx.RoundContext().TryConsume(p.ID(), string(data.SporicidalRelease), limit) {
		return
	}

	base := ctx.Rules.ToxinDuration
	if m := p.Catalog().Get(data.SporicidalRelease); m != nil && m.Duration > 0 {
		base = m.Duration
	}
	expiration := ctx.Formulas.ToxinDuration(p.MutationLevel(data.SporicidalRelease), base)
	dropped, err := b.DropToxins(p.ID(), targets, expiration, board.SourceToxinDrop)
	if err != nil {
		ctx.Log.Warn("sporicidal release", zap.Int("player", p.ID()), zap.Int("tile", e.TileID), zap.Error(err))
		return
	}
	if len(dropped) > 0 {
		ctx.Observer.RecordToxinDrop(p.ID(), len(dropped), board.SourceToxinDrop)
	}
}
