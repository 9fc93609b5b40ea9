// Package phase drives a game through its rounds: mutation, a fixed number
// of growth cycles, decay, then round advance. Every phase boundary is
// published on the board's event bus.
package phase

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/sporefront/colony/internal/board"
	"github.com/sporefront/colony/internal/core/event"
	"github.com/sporefront/colony/internal/data"
	"github.com/sporefront/colony/internal/death"
	"github.com/sporefront/colony/internal/observer"
	"github.com/sporefront/colony/internal/player"
	"github.com/sporefront/colony/internal/rng"
	"go.uber.org/zap"
)

// Phase is the step the orchestrator will run next.
type Phase uint8

const (
	PhaseMutation Phase = iota
	PhaseGrowth
	PhaseDecay
	PhaseAdvance
)

var phaseNames = [...]string{"mutation", "growth", "decay", "advance"}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "unknown"
}

var (
	ErrRosterMismatch = errors.New("roster does not match board players")
	ErrGrowthCycles   = errors.New("growth cycles must be at least 1")
	ErrNoRandom       = errors.New("random source is required")
)

// Strategy spends a player's mutation points during the mutation phase.
type Strategy interface {
	Spend(b *board.Board, p *player.Player, r rng.Source)
}

// StrategyFunc adapts a plain function to Strategy.
type StrategyFunc func(b *board.Board, p *player.Player, r rng.Source)

func (f StrategyFunc) Spend(b *board.Board, p *player.Player, r rng.Source) { f(b, p, r) }

// Config holds the per-game rule constants the orchestrator needs.
type Config struct {
	GrowthCycles int
	Death        death.Params
}

// Option customises an Orchestrator.
type Option func(*Orchestrator)

func WithGrowthEngine(g GrowthEngine) Option { return func(o *Orchestrator) { o.engine = g } }
func WithStrategy(s Strategy) Option         { return func(o *Orchestrator) { o.strategy = s } }
func WithObserver(obs observer.Observer) Option {
	return func(o *Orchestrator) { o.obs = obs }
}
func WithLogger(log *zap.Logger) Option { return func(o *Orchestrator) { o.log = log } }

// Orchestrator owns the round state machine for one board.
type Orchestrator struct {
	board      *board.Board
	roster     *player.Roster
	rand       rng.Source
	resolver   *death.Resolver
	combatants map[int]death.Combatant
	engine     GrowthEngine
	strategy   Strategy
	obs        observer.Observer
	log        *zap.Logger

	cycles int
	next   Phase
	failed map[int]int
}

// New validates the setup; a bad setup is a programming error caught here,
// before any round runs.
func New(b *board.Board, roster *player.Roster, r rng.Source, cfg Config, opts ...Option) (*Orchestrator, error) {
	if r == nil {
		return nil, ErrNoRandom
	}
	if cfg.GrowthCycles < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrGrowthCycles, cfg.GrowthCycles)
	}
	ids := roster.IDs()
	if len(ids) == 0 {
		return nil, board.ErrNoPlayers
	}
	if !slices.Equal(ids, b.Players()) {
		return nil, fmt.Errorf("%w: roster %v, board %v", ErrRosterMismatch, ids, b.Players())
	}

	o := &Orchestrator{
		board:      b,
		roster:     roster,
		rand:       r,
		resolver:   death.NewResolver(cfg.Death),
		combatants: make(map[int]death.Combatant, len(ids)),
		engine:     OrthogonalGrowth{},
		obs:        observer.Nop{},
		log:        zap.NewNop(),
		cycles:     cfg.GrowthCycles,
		failed:     make(map[int]int, len(ids)),
	}
	for _, p := range roster.All() {
		o.combatants[p.ID()] = p
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.log == nil {
		o.log = zap.NewNop()
	}
	if o.obs == nil {
		o.obs = observer.Nop{}
	}
	o.log = o.log.Named("phase")
	return o, nil
}

func (o *Orchestrator) Board() *board.Board         { return o.board }
func (o *Orchestrator) Roster() *player.Roster      { return o.roster }
func (o *Orchestrator) Rand() rng.Source            { return o.rand }
func (o *Orchestrator) Observer() observer.Observer { return o.obs }
func (o *Orchestrator) Next() Phase                 { return o.next }

// FailedGrowths returns a copy of this round's failed growth counts so far.
func (o *Orchestrator) FailedGrowths() map[int]int {
	out := make(map[int]int, len(o.failed))
	for k, v := range o.failed {
		out[k] = v
	}
	return out
}

func (o *Orchestrator) expect(p Phase) {
	if o.next != p {
		panic(fmt.Sprintf("phase: %s phase requested while %s is due", p, o.next))
	}
}

// RunMutationPhase raises MutationPhaseStarted, then lets the strategy spend
// each player's points in roster order.
func (o *Orchestrator) RunMutationPhase() {
	o.expect(PhaseMutation)
	round := o.board.Round()
	o.log.Debug("mutation phase", zap.Int("round", round))
	event.Publish(o.board.Bus(), board.MutationPhaseStarted{Round: round})
	if o.strategy != nil {
		for _, p := range o.roster.All() {
			before := p.Levels()
			o.strategy.Spend(o.board, p, o.rand)
			o.recordUpgrades(p, before)
		}
	}
	o.next = PhaseGrowth
}

// recordUpgrades reports every level the strategy bought, in mutation id order.
func (o *Orchestrator) recordUpgrades(p *player.Player, before map[data.MutationID]int) {
	after := p.Levels()
	ids := make([]data.MutationID, 0, len(after))
	for id := range after {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		for n := after[id] - before[id]; n > 0; n-- {
			o.obs.RecordUpgrade(p.ID(), string(id), false)
		}
	}
}

// RunGrowthPhase runs every growth cycle of the round. Cells age once per
// cycle, after that cycle's growth.
func (o *Orchestrator) RunGrowthPhase() {
	o.expect(PhaseGrowth)
	b := o.board
	round := b.Round()
	event.Publish(b.Bus(), board.PreGrowthPhase{Round: round})

	for cycle := 1; cycle <= o.cycles; cycle++ {
		b.BeginGrowthCycle(cycle)
		res := o.engine.Grow(b, o.roster, o.rand)
		for _, id := range b.Players() {
			if n := res.Grown[id]; n > 0 {
				o.obs.RecordGrowth(id, n)
			}
			o.failed[id] += res.Failed[id]
		}
		for _, inf := range res.Infestations {
			o.obs.RecordInfestation(inf.PlayerID, inf.VictimID)
		}
		expired := b.AgeCells()
		o.log.Debug("growth cycle",
			zap.Int("round", round),
			zap.Int("cycle", cycle),
			zap.Int("living", len(b.LivingCells())),
			zap.Int("toxins_expired", expired),
		)
		event.Publish(b.Bus(), board.GrowthCycleCompleted{Round: round, Cycle: cycle})
	}

	b.EndGrowthPhase()
	event.Publish(b.Bus(), board.PostGrowthPhase{Round: round})
	event.Publish(b.Bus(), board.PostGrowthPhaseCompleted{Round: round})
	o.next = PhaseDecay
}

// RunDecayPhase resolves death for every living cell in tile order, then
// sweeps expired toxins.
func (o *Orchestrator) RunDecayPhase() {
	o.expect(PhaseDecay)
	b := o.board
	round := b.Round()
	event.Publish(b.Bus(), board.DecayPhase{Round: round, FailedGrowths: o.FailedGrowths()})

	deaths := 0
	for _, snap := range b.LivingCells() {
		cur, ok := b.Cell(snap.TileID)
		if !ok || !cur.IsAlive() || cur.Resistant || cur.OwnerID != snap.OwnerID {
			continue
		}
		owner, ok := o.combatants[cur.OwnerID]
		if !ok {
			continue
		}
		out := o.resolver.Resolve(b, cur, owner, o.combatants, o.rand.Float64(), o.rand)
		if !out.Dies {
			continue
		}
		if b.Kill(cur.TileID, out.Info()) {
			deaths++
			o.obs.RecordDeath(cur.OwnerID, out.Reason, out.KillerID)
		}
	}

	expired := 0
	for _, c := range b.ToxinCells() {
		if c.IsExpiredToxin() && b.ExpireToxin(c.TileID) {
			expired++
		}
	}
	o.log.Debug("decay phase",
		zap.Int("round", round),
		zap.Int("deaths", deaths),
		zap.Int("toxins_expired", expired),
	)
	event.Publish(b.Bus(), board.PostDecayPhase{Round: round})
	o.next = PhaseAdvance
}

// AdvanceRound moves the board to the next round and resets per-round state.
func (o *Orchestrator) AdvanceRound() {
	o.expect(PhaseAdvance)
	o.board.AdvanceRound()
	clear(o.failed)
	o.next = PhaseMutation
	event.Publish(o.board.Bus(), board.RoundAdvanced{Round: o.board.Round()})
}

// PlayRound runs one full round and returns the per-player summary taken
// after decay, before the round advances.
func (o *Orchestrator) PlayRound() []Summary {
	o.RunMutationPhase()
	o.RunGrowthPhase()
	o.RunDecayPhase()
	sums := o.Summarize()
	o.AdvanceRound()
	return sums
}

// Run plays up to rounds rounds, stopping early when ctx is cancelled.
// each is called with every round's summary; it may be nil.
func (o *Orchestrator) Run(ctx context.Context, rounds int, each func([]Summary) error) error {
	for i := 0; i < rounds; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		sums := o.PlayRound()
		if each == nil {
			continue
		}
		if err := each(sums); err != nil {
			return fmt.Errorf("round %d: %w", sums[0].Round, err)
		}
	}
	return nil
}
