package mutations

import (
	"context"
	"slices"
	"testing"

	"github.com/sporefront/colony/internal/board"
	"github.com/sporefront/colony/internal/core/event"
	"github.com/sporefront/colony/internal/data"
	"github.com/sporefront/colony/internal/effect"
	"github.com/sporefront/colony/internal/journal"
	"github.com/sporefront/colony/internal/observer"
	"github.com/sporefront/colony/internal/player"
	"github.com/sporefront/colony/internal/rng"
)

type fixture struct {
	ctx   *effect.Context
	b     *board.Board
	p0    *player.Player
	p1    *player.Player
	tally *observer.Tally
}

// newFixture builds a two-player board on which every given mutation is
// certain to fire (effect_per_level 1).
func newFixture(t *testing.T, w, h int, module effect.Module, muts ...data.Mutation) fixture {
	t.Helper()
	for i := range muts {
		if muts[i].MaxLevel == 0 {
			muts[i].MaxLevel = 5
		}
		if muts[i].EffectPerLevel == 0 {
			muts[i].EffectPerLevel = 1
		}
	}
	cat, err := data.NewCatalog(muts)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	b, err := board.New(w, h, []int{0, 1}, nil)
	if err != nil {
		t.Fatalf("board: %v", err)
	}
	p0, p1 := player.New(0, "green", cat, 0), player.New(1, "violet", cat, 0)
	roster, _ := player.NewRoster(p0, p1)
	tally := observer.NewTally()
	ctx := &effect.Context{
		Board:    b,
		Roster:   roster,
		Rand:     rng.NewSequence(0),
		Observer: tally,
		Rules:    effect.Rules{BaseIncome: 5, AgeDelayThreshold: 2, ToxinDuration: 3},
	}
	d := effect.NewDispatcher(ctx, nil)
	if err := d.Register(module); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := d.Attach(); err != nil {
		t.Fatalf("attach: %v", err)
	}
	return fixture{ctx: ctx, b: b, p0: p0, p1: p1, tally: tally}
}

func (f fixture) colonize(t *testing.T, playerID, tileID int) {
	t.Helper()
	if err := f.b.Colonize(playerID, tileID, board.SourceEffect); err != nil {
		t.Fatalf("colonize %d: %v\n%s", tileID, err, f.b)
	}
}

func (f fixture) kill(tileID int) {
	f.b.Kill(tileID, board.Death(board.DeathReasonAge))
}

func TestIncomePaysBaseShareAndBonus(t *testing.T) {
	f := newFixture(t, 10, 10, Income{}, data.Mutation{ID: data.AdaptiveExpression, Category: data.CategoryDrift})
	f.p0.GrantLevel(data.AdaptiveExpression)
	for _, id := range []int{0, 1, 2} {
		f.colonize(t, 0, id)
	}

	event.Publish(f.b.Bus(), board.MutationPhaseStarted{Round: 1})

	if got := f.p0.MutationPoints(); got != 9 {
		t.Fatalf("p0 points=%d want=9", got)
	}
	if got := f.p1.MutationPoints(); got != 5 {
		t.Fatalf("p1 points=%d want=5", got)
	}
	if got := f.tally.Player(0).PointsEarned; got != 9 {
		t.Fatalf("recorded=%d want=9", got)
	}
}

func TestMutatorPhenotypeGrantsFreeLevel(t *testing.T) {
	f := newFixture(t, 3, 3, MutatorPhenotype{},
		data.Mutation{ID: data.MutatorPhenotype, Category: data.CategoryDrift, MaxLevel: 1},
		data.Mutation{ID: data.HyphalGrowth, Category: data.CategoryGrowth, EffectPerLevel: 0.01},
	)
	f.p0.GrantLevel(data.MutatorPhenotype)

	event.Publish(f.b.Bus(), board.MutationPhaseStarted{Round: 1})

	if got := f.p0.MutationLevel(data.HyphalGrowth); got != 1 {
		t.Fatalf("hyphal growth level=%d want=1", got)
	}
	if got := f.p1.MutationLevel(data.HyphalGrowth); got != 0 {
		t.Fatalf("p1 got a free level")
	}
	if s := f.tally.Player(0); s.FreeUpgrades != 1 {
		t.Fatalf("stats=%+v", s)
	}
}

func TestRegenerativeHyphaeChainsReclamation(t *testing.T) {
	f := newFixture(t, 4, 1, RegenerativeHyphae{}, data.Mutation{ID: data.RegenerativeHyphae, Category: data.CategoryResilience})
	f.p0.GrantLevel(data.RegenerativeHyphae)
	f.colonize(t, 0, 0)
	f.colonize(t, 0, 1)
	f.colonize(t, 0, 2)
	f.colonize(t, 1, 3)
	f.kill(1)
	f.kill(2)
	f.kill(3)

	var reclaimed []int
	event.Subscribe(f.b.Bus(), func(e board.CellReclaimed) { reclaimed = append(reclaimed, e.TileID) })
	event.Publish(f.b.Bus(), board.PostGrowthPhaseCompleted{Round: 1})

	if !slices.Equal(reclaimed, []int{1, 2}) {
		t.Fatalf("reclaimed=%v want=[1 2]\n%s", reclaimed, f.b)
	}
	if c, _ := f.b.Cell(3); !c.IsDead() {
		t.Fatalf("enemy dead cell touched: %+v", c)
	}
}

func TestRegenerativeHyphaeRespectsRoundCap(t *testing.T) {
	f := newFixture(t, 4, 1, RegenerativeHyphae{}, data.Mutation{ID: data.RegenerativeHyphae, Category: data.CategoryResilience, Cap: 1})
	f.p0.GrantLevel(data.RegenerativeHyphae)
	for id := 0; id < 4; id++ {
		f.colonize(t, 0, id)
	}
	f.kill(1)
	f.kill(3)

	event.Publish(f.b.Bus(), board.PostGrowthPhaseCompleted{Round: 1})
	event.Publish(f.b.Bus(), board.PostGrowthPhaseCompleted{Round: 1})

	if got := f.b.LivingCellCount(0); got != 3 {
		t.Fatalf("living=%d want=3\n%s", got, f.b)
	}
}

func TestChronoresilienceResetsOldCells(t *testing.T) {
	f := newFixture(t, 3, 1, Chronoresilience{}, data.Mutation{ID: data.Chronoresilience, Category: data.CategoryResilience})
	f.p0.GrantLevel(data.Chronoresilience)
	f.colonize(t, 0, 0)
	for cycle := 1; cycle <= 3; cycle++ {
		f.b.BeginGrowthCycle(cycle)
		f.b.AgeCells()
	}
	f.colonize(t, 0, 1)

	event.Publish(f.b.Bus(), board.DecayPhase{Round: 1})

	if c, _ := f.b.Cell(0); c.Age != 0 {
		t.Fatalf("old cell age=%d want=0", c.Age)
	}
}

func TestPutrefactiveCascadeTakesOverAndPushesThrough(t *testing.T) {
	f := newFixture(t, 4, 1, PutrefactiveCascade{}, data.Mutation{ID: data.PutrefactiveCascade, Category: data.CategoryOffense})
	f.p1.GrantLevel(data.PutrefactiveCascade)
	f.colonize(t, 1, 0)
	f.colonize(t, 0, 1)
	f.colonize(t, 0, 2)
	f.colonize(t, 0, 3)

	var died []board.CellDied
	event.Subscribe(f.b.Bus(), func(e board.CellDied) { died = append(died, e) })
	f.b.Kill(1, board.Killed(board.DeathReasonAdjacentAttack, 1, 0))

	if c, _ := f.b.Cell(1); !c.IsAlive() || c.OwnerID != 1 || c.Source != board.SourceCascade {
		t.Fatalf("victim tile=%+v want alive for 1 via cascade", c)
	}
	if c, _ := f.b.Cell(2); !c.IsDead() || c.CauseOfDeath != board.DeathReasonCascade {
		t.Fatalf("next tile=%+v want cascade death", c)
	}
	if c, _ := f.b.Cell(3); !c.IsAlive() {
		t.Fatalf("cascade chained into tile 3")
	}
	// The cascade death is raised while the first death is still being
	// dispatched, so this later subscriber sees it first.
	if len(died) != 2 || died[0].TileID != 2 || died[0].KillerID != 1 || died[0].AttackerTileID != 1 || died[1].TileID != 1 {
		t.Fatalf("deaths=%+v", died)
	}
	if s := f.tally.Player(0); s.Deaths[board.DeathReasonCascade] != 1 {
		t.Fatalf("stats=%+v", s)
	}
}

func TestJournalKeepsCascadeInCausalOrder(t *testing.T) {
	f := newFixture(t, 3, 1, PutrefactiveCascade{}, data.Mutation{ID: data.PutrefactiveCascade, Category: data.CategoryOffense})
	f.p1.GrantLevel(data.PutrefactiveCascade)
	// attached after the dispatcher, so its handlers would run last
	rec := journal.NewRecorder(f.b, nil)
	f.colonize(t, 1, 0)
	f.colonize(t, 0, 1)
	f.colonize(t, 0, 2)
	if err := rec.Flush(context.Background(), &journal.Memory{}); err != nil {
		t.Fatalf("flush: %v", err)
	}

	f.b.Kill(1, board.Killed(board.DeathReasonAdjacentAttack, 1, 0))

	mem := &journal.Memory{}
	if err := rec.Flush(context.Background(), mem); err != nil {
		t.Fatalf("flush: %v", err)
	}
	type step struct {
		kind string
		tile int
	}
	var got []step
	for _, e := range mem.Entries {
		got = append(got, step{e.Kind, e.TileID})
	}
	want := []step{{journal.KindDied, 1}, {journal.KindReclaimed, 1}, {journal.KindDied, 2}}
	if !slices.Equal(got, want) {
		t.Fatalf("journal=%v want=%v", got, want)
	}
	for i := 1; i < len(mem.Entries); i++ {
		if mem.Entries[i].Seq <= mem.Entries[i-1].Seq {
			t.Fatalf("seq not increasing: %+v", mem.Entries)
		}
	}
	// the last entry for tile 1 matches the board
	if c, _ := f.b.Cell(1); !c.IsAlive() || c.OwnerID != 1 {
		t.Fatalf("tile 1=%+v want alive for 1", c)
	}
}

func TestPutrefactiveCascadeIgnoresOtherDeaths(t *testing.T) {
	f := newFixture(t, 3, 1, PutrefactiveCascade{}, data.Mutation{ID: data.PutrefactiveCascade, Category: data.CategoryOffense})
	f.p1.GrantLevel(data.PutrefactiveCascade)
	f.colonize(t, 1, 0)
	f.colonize(t, 0, 1)
	f.kill(1)

	if c, _ := f.b.Cell(1); !c.IsDead() {
		t.Fatalf("age death was taken over: %+v", c)
	}
}

func TestSporicidalReleaseDropsToxinsAround(t *testing.T) {
	f := newFixture(t, 3, 3, SporicidalRelease{}, data.Mutation{ID: data.SporicidalRelease, Category: data.CategoryOffense, Duration: 4})
	f.p0.GrantLevel(data.SporicidalRelease)
	f.colonize(t, 0, 4)
	f.colonize(t, 1, 1)

	var batch []board.ToxinsDropped
	event.Subscribe(f.b.Bus(), func(e board.ToxinsDropped) { batch = append(batch, e) })
	f.kill(4)

	if len(batch) != 1 || !slices.Equal(batch[0].TileIDs, []int{5, 7, 3}) {
		t.Fatalf("batch=%+v", batch)
	}
	for _, id := range batch[0].TileIDs {
		c, _ := f.b.Cell(id)
		if !c.IsToxin() || c.ToxinExpiration != 4 || c.OwnerID != 0 {
			t.Fatalf("tile %d=%+v", id, c)
		}
	}
	if got := f.tally.Player(0).ToxinsDropped; got != 3 {
		t.Fatalf("recorded=%d want=3", got)
	}
}

func TestMycelialBastionGrantsOncePerRound(t *testing.T) {
	f := newFixture(t, 5, 1, MycelialBastion{},
		data.Mutation{ID: data.MycelialBastion, Category: data.CategorySurge, EffectPerLevel: 3, Duration: 1, Cost: 1})
	f.p0.GrantLevel(data.MycelialBastion)
	f.p0.AddMutationPoints(1)
	if err := f.p0.ActivateSurge(data.MycelialBastion); err != nil {
		t.Fatalf("activate: %v", err)
	}
	for id := 0; id < 5; id++ {
		f.colonize(t, 0, id)
	}

	var grants []board.ResistantCellsGranted
	event.Subscribe(f.b.Bus(), func(e board.ResistantCellsGranted) { grants = append(grants, e) })
	event.Publish(f.b.Bus(), board.PreGrowthPhase{Round: 1})
	event.Publish(f.b.Bus(), board.PreGrowthPhase{Round: 1})

	if len(grants) != 1 || len(grants[0].TileIDs) != 3 {
		t.Fatalf("grants=%+v", grants)
	}
	if !slices.IsSorted(grants[0].TileIDs) {
		t.Fatalf("tiles not sorted: %v", grants[0].TileIDs)
	}
}

func TestSurgeTimersExpireSurges(t *testing.T) {
	f := newFixture(t, 3, 1, SurgeTimers{},
		data.Mutation{ID: data.HyphalSurge, Category: data.CategorySurge, Duration: 2, Cost: 1})
	f.p0.GrantLevel(data.HyphalSurge)
	f.p0.AddMutationPoints(1)
	if err := f.p0.ActivateSurge(data.HyphalSurge); err != nil {
		t.Fatalf("activate: %v", err)
	}

	event.Publish(f.b.Bus(), board.PostDecayPhase{Round: 1})
	if !f.p0.SurgeActive(data.HyphalSurge) {
		t.Fatal("surge ended after one round")
	}
	event.Publish(f.b.Bus(), board.PostDecayPhase{Round: 2})
	if f.p0.SurgeActive(data.HyphalSurge) {
		t.Fatal("surge still active after two rounds")
	}
}
