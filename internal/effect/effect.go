// Package effect connects rule modules to the board's event surface.
//
// A module is any value with a Name and a Category that also implements one
// or more hook interfaces below. The Dispatcher subscribes once per hook and
// calls every implementing module in category order, then registration order.
package effect

import (
	"github.com/sporefront/colony/internal/board"
	"github.com/sporefront/colony/internal/data"
	"github.com/sporefront/colony/internal/observer"
	"github.com/sporefront/colony/internal/player"
	"github.com/sporefront/colony/internal/rng"
	"go.uber.org/zap"
)

// Rules are the game-wide constants modules read.
type Rules struct {
	BaseIncome        int
	AgeDelayThreshold int
	ToxinDuration     int // growth cycles a toxin lasts when the mutation sets none
}

// Context is everything a module function may touch. Modules mutate the
// board only through its public API.
type Context struct {
	Board    *board.Board
	Roster   *player.Roster
	Rand     rng.Source
	Observer observer.Observer
	Formulas Formulas
	Rules    Rules
	Log      *zap.Logger
}

func (c *Context) RoundContext() *board.RoundContext { return c.Board.RoundContext() }

func (c *Context) Player(id int) (*player.Player, bool) { return c.Roster.Get(id) }

// Module is the common part of every rule module.
type Module interface {
	Name() string
	Category() data.Category
}

type MutationPhaseHook interface {
	OnMutationPhase(ctx *Context, e board.MutationPhaseStarted)
}

type PreGrowthHook interface {
	OnPreGrowth(ctx *Context, e board.PreGrowthPhase)
}

type GrowthCycleHook interface {
	OnGrowthCycle(ctx *Context, e board.GrowthCycleCompleted)
}

type PostGrowthHook interface {
	OnPostGrowth(ctx *Context, e board.PostGrowthPhase)
}

// PostGrowthCompletedHook runs once per growth phase, after every
// PostGrowthHook, for board-wide cleanup sweeps.
type PostGrowthCompletedHook interface {
	OnPostGrowthCompleted(ctx *Context, e board.PostGrowthPhaseCompleted)
}

// DecayHook runs before death resolution starts.
type DecayHook interface {
	OnDecay(ctx *Context, e board.DecayPhase)
}

type PostDecayHook interface {
	OnPostDecay(ctx *Context, e board.PostDecayPhase)
}

type CellDiedHook interface {
	OnCellDied(ctx *Context, e board.CellDied)
}

type CellInfestedHook interface {
	OnCellInfested(ctx *Context, e board.CellInfested)
}

type CellReclaimedHook interface {
	OnCellReclaimed(ctx *Context, e board.CellReclaimed)
}
