package mutations

import (
	"github.com/sporefront/colony/internal/board"
	"github.com/sporefront/colony/internal/data"
	"github.com/sporefront/colony/internal/effect"
)

// RegenerativeHyphae sweeps the board once per growth phase. Each of a
// player's own dead cells that touches one of its living cells may be
// reclaimed. Cells revived early in the sweep make their dead neighbours
// eligible later in the same sweep.
type RegenerativeHyphae struct{}

func (RegenerativeHyphae) Name() string            { return string(data.RegenerativeHyphae) }
func (RegenerativeHyphae) Category() data.Category { return data.CategoryResilience }

func (RegenerativeHyphae) OnPostGrowthCompleted(ctx *effect.Context, _ board.PostGrowthPhaseCompleted) {
	b := ctx.Board
	for _, p := range ctx.Roster.All() {
		chance := p.ReclaimChance()
		if chance <= 0 {
			continue
		}
		limit := p.CapFor(data.RegenerativeHyphae)
		for _, snap := range b.DeadCells() {
			if snap.OwnerID != p.ID() {
				continue
			}
			cur, ok := b.Cell(snap.TileID)
			if !ok || !cur.IsDead() || !touchesLiving(b, cur.TileID, p.ID()) {
				continue
			}
			if ctx.Rand.Float64() >= chance {
				continue
			}
			if limit > 0 && !ctx.RoundContext().TryConsume(p.ID(), string(data.RegenerativeHyphae), limit) {
				break
			}
			if err := b.Reclaim(p.ID(), cur.TileID, board.SourceReclaim); err != nil {
				continue
			}
			ctx.Observer.RecordReclaim(p.ID(), board.SourceReclaim)
		}
	}
}

func touchesLiving(b *board.Board, tileID, playerID int) bool {
	for _, n := range b.OrthogonalNeighbors(tileID) {
		if c, ok := b.Cell(n); ok && c.IsAlive() && c.OwnerID == playerID {
			return true
		}
	}
	return false
}

// Chronoresilience may reset the age of old cells just before death
// resolution.
type Chronoresilience struct{}

func (Chronoresilience) Name() string            { return string(data.Chronoresilience) }
func (Chronoresilience) Category() data.Category { return data.CategoryResilience }

func (Chronoresilience) OnDecay(ctx *effect.Context, _ board.DecayPhase) {
	b := ctx.Board
	for _, p := range ctx.Roster.All() {
		chance := p.AgeResetChance()
		if chance <= 0 {
			continue
		}
		for _, c := range b.CellsOwnedBy(p.ID()) {
			if !c.IsAlive() || c.Age <= ctx.Rules.AgeDelayThreshold {
				continue
			}
			if ctx.Rand.Float64() < chance {
				b.ResetAge(c.TileID)
			}
		}
	}
}
