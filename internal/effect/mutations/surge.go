package mutations

import (
	"slices"

	"github.com/sporefront/colony/internal/board"
	"github.com/sporefront/colony/internal/data"
	"github.com/sporefront/colony/internal/effect"
	"go.uber.org/zap"
)

// MycelialBastion makes a random set of the player's living cells resistant
// once per round while the surge is active.
type MycelialBastion struct{}

func (MycelialBastion) Name() string            { return string(data.MycelialBastion) }
func (MycelialBastion) Category() data.Category { return data.CategorySurge }

func (MycelialBastion) OnPreGrowth(ctx *effect.Context, _ board.PreGrowthPhase) {
	b := ctx.Board
	for _, p := range ctx.Roster.All() {
		n := p.ResistanceGrant()
		if n <= 0 || !ctx.RoundContext().TryConsume(p.ID(), string(data.MycelialBastion), 1) {
			continue
		}
		var pool []int
		for _, c := range b.CellsOwnedBy(p.ID()) {
			if c.IsAlive() && !c.Resistant {
				pool = append(pool, c.TileID)
			}
		}
		n = min(n, len(pool))
		for i := 0; i < n; i++ {
			j := i + ctx.Rand.Intn(len(pool)-i)
			pool[i], pool[j] = pool[j], pool[i]
		}
		picked := pool[:n]
		slices.Sort(picked)
		b.MakeResistantMany(p.ID(), picked, board.SourceEffect)
	}
}

// SurgeTimers counts every active surge down after decay.
type SurgeTimers struct{}

func (SurgeTimers) Name() string            { return "surge_timers" }
func (SurgeTimers) Category() data.Category { return data.CategorySurge }

func (SurgeTimers) OnPostDecay(ctx *effect.Context, e board.PostDecayPhase) {
	for _, p := range ctx.Roster.All() {
		for _, id := range p.TickSurges() {
			ctx.Log.Debug("surge ended", zap.Int("player", p.ID()), zap.String("mutation", string(id)), zap.Int("round", e.Round))
		}
	}
}
