package mutations

import (
	"github.com/sporefront/colony/internal/board"
	"github.com/sporefront/colony/internal/data"
	"github.com/sporefront/colony/internal/effect"
	"go.uber.org/zap"
)

// Income pays every player at the start of the mutation phase. Adaptive
// expression adds a chance of one bonus point.
type Income struct{}

func (Income) Name() string            { return "income" }
func (Income) Category() data.Category { return data.CategoryDrift }

func (Income) OnMutationPhase(ctx *effect.Context, e board.MutationPhaseStarted) {
	b := ctx.Board
	for _, p := range ctx.Roster.All() {
		dead := 0
		for _, c := range b.CellsOwnedBy(p.ID()) {
			if c.IsDead() {
				dead++
			}
		}
		n := ctx.Formulas.Income(effect.IncomeInput{
			Round:     e.Round,
			Base:      ctx.Rules.BaseIncome,
			Living:    b.LivingCellCount(p.ID()),
			Dead:      dead,
			TileCount: b.TileCount(),
		})
		if n > 0 {
			p.AddMutationPoints(n)
			ctx.Observer.RecordPointsEarned(p.ID(), n, "income")
		}
		if c := p.BonusIncomeChance(); c > 0 && ctx.Rand.Float64() < c {
			p.AddMutationPoints(1)
			ctx.Observer.RecordPointsEarned(p.ID(), 1, string(data.AdaptiveExpression))
		}
	}
}

// MutatorPhenotype may grant a free level of a random upgradable mutation
// each mutation phase.
type MutatorPhenotype struct{}

func (MutatorPhenotype) Name() string            { return string(data.MutatorPhenotype) }
func (MutatorPhenotype) Category() data.Category { return data.CategoryDrift }

func (MutatorPhenotype) OnMutationPhase(ctx *effect.Context, _ board.MutationPhaseStarted) {
	for _, p := range ctx.Roster.All() {
		lvl := p.MutationLevel(data.MutatorPhenotype)
		if lvl == 0 {
			continue
		}
		m := p.Catalog().Get(data.MutatorPhenotype)
		if ctx.Rand.Float64() >= ctx.Formulas.AutoUpgradeChance(lvl, m.EffectPerLevel) {
			continue
		}
		options := p.Upgradable()
		if len(options) == 0 {
			continue
		}
		id := options[ctx.Rand.Intn(len(options))]
		if p.GrantLevel(id) {
			ctx.Observer.RecordUpgrade(p.ID(), string(id), true)
			ctx.Log.Debug("free mutation level", zap.Int("player", p.ID()), zap.String("mutation", string(id)))
		}
	}
}
