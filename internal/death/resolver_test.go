package death

import (
	"math"
	"math/rand"
	"testing"

	"github.com/sporefront/colony/internal/board"
	"github.com/sporefront/colony/internal/rng"
)

type fakePlayer struct {
	id      int
	defense float64
	attack  float64
}

func (p *fakePlayer) ID() int                      { return p.id }
func (p *fakePlayer) DefenseReduction() float64    { return p.defense }
func (p *fakePlayer) AdjacencyKillEffect() float64 { return p.attack }

type avertingPlayer struct{ fakePlayer }

func (p *avertingPlayer) AvertAdjacencyKill(r rng.Source) bool { return r.Float64() < 0.5 }

func combatants(ps ...Combatant) map[int]Combatant {
	m := make(map[int]Combatant, len(ps))
	for _, p := range ps {
		m[p.ID()] = p
	}
	return m
}

// arena builds a 3x3 board with the target at the centre owned by player 0.
func arena(t *testing.T, players ...int) (*board.Board, board.Cell) {
	t.Helper()
	b, err := board.New(3, 3, players, nil)
	if err != nil {
		t.Fatalf("new board: %v", err)
	}
	if err := b.Colonize(0, 4, board.SourceEffect); err != nil {
		t.Fatalf("colonize target: %v", err)
	}
	c, _ := b.Cell(4)
	return b, c
}

func place(t *testing.T, b *board.Board, player, tile int) {
	t.Helper()
	if err := b.Colonize(player, tile, board.SourceEffect); err != nil {
		t.Fatalf("colonize %d: %v", tile, err)
	}
}

var noIntrinsic = Params{BaseDeathRate: 0, AgeDelayThreshold: 100, AgeFactor: 0}

func TestAdjacentAttackRollAboveChanceSurvives(t *testing.T) {
	b, target := arena(t, 0, 1)
	place(t, b, 1, 1)
	owner := &fakePlayer{id: 0}
	enemy := &fakePlayer{id: 1, attack: 0.3}

	out := NewResolver(noIntrinsic).Resolve(b, target, owner, combatants(owner, enemy), 0.95, rng.NewSequence(0.9))
	if out.Dies {
		t.Fatalf("outcome=%+v want survival", out)
	}
}

func TestAdjacentAttackRollBelowChanceKills(t *testing.T) {
	b, target := arena(t, 0, 1)
	place(t, b, 1, 1)
	owner := &fakePlayer{id: 0}
	enemy := &fakePlayer{id: 1, attack: 0.3}

	out := NewResolver(noIntrinsic).Resolve(b, target, owner, combatants(owner, enemy), 0.1, rng.NewSequence(0.9))
	if !out.Dies || out.Reason != board.DeathReasonAdjacentAttack || out.KillerID != 1 || out.AttackerTileID != 1 {
		t.Fatalf("outcome=%+v", out)
	}
}

func TestAdjacentAttackCreditsByInterval(t *testing.T) {
	b, target := arena(t, 0, 1, 2)
	place(t, b, 1, 1) // interval [0, 0.2)
	place(t, b, 2, 5) // interval [0.2, 0.3)
	owner := &fakePlayer{id: 0}
	ps := combatants(owner, &fakePlayer{id: 1, attack: 0.2}, &fakePlayer{id: 2, attack: 0.1})
	r := NewResolver(noIntrinsic)

	out := r.Resolve(b, target, owner, ps, 0.25, nil)
	if !out.Dies || out.KillerID != 2 || out.AttackerTileID != 5 {
		t.Fatalf("roll 0.25 outcome=%+v want killer 2 from tile 5", out)
	}
	out = r.Resolve(b, target, owner, ps, 0.19, nil)
	if !out.Dies || out.KillerID != 1 {
		t.Fatalf("roll 0.19 outcome=%+v want killer 1", out)
	}
	if math.Abs(out.Chance-0.3) > 1e-9 {
		t.Fatalf("chance=%v want=0.3", out.Chance)
	}
}

func TestIntrinsicDeathTakesPriority(t *testing.T) {
	b, target := arena(t, 0, 1)
	place(t, b, 1, 1)
	owner := &fakePlayer{id: 0}
	ps := combatants(owner, &fakePlayer{id: 1, attack: 0.9})
	r := NewResolver(Params{BaseDeathRate: 0.05, AgeDelayThreshold: 100})

	out := r.Resolve(b, target, owner, ps, 0.01, nil)
	if !out.Dies || out.Reason != board.DeathReasonRandomness || out.KillerID != board.NoPlayer {
		t.Fatalf("outcome=%+v want randomness death with no killer", out)
	}
}

func TestAgeDeath(t *testing.T) {
	b, _ := arena(t, 0)
	for cycle := 1; cycle <= 12; cycle++ {
		b.BeginGrowthCycle(cycle)
		b.AgeCells()
	}
	target, _ := b.Cell(4)
	owner := &fakePlayer{id: 0}
	r := NewResolver(Params{BaseDeathRate: 0.01, AgeDelayThreshold: 10, AgeFactor: 0.05})

	base, age := r.IntrinsicChances(target, owner)
	if base != 0.01 || math.Abs(age-0.10) > 1e-9 {
		t.Fatalf("base=%v age=%v want=0.01,0.10", base, age)
	}
	out := r.Resolve(b, target, owner, combatants(owner), 0.05, nil)
	if !out.Dies || out.Reason != board.DeathReasonAge {
		t.Fatalf("outcome=%+v want age death", out)
	}
	out = r.Resolve(b, target, owner, combatants(owner), 0.2, nil)
	if out.Dies {
		t.Fatalf("outcome=%+v want survival", out)
	}
}

func TestDefenseReductionClampsAtZero(t *testing.T) {
	b, _ := arena(t, 0)
	for cycle := 1; cycle <= 12; cycle++ {
		b.BeginGrowthCycle(cycle)
		b.AgeCells()
	}
	target, _ := b.Cell(4)
	owner := &fakePlayer{id: 0, defense: 0.5}
	r := NewResolver(Params{BaseDeathRate: 0.01, AgeDelayThreshold: 10, AgeFactor: 0.05})

	base, age := r.IntrinsicChances(target, owner)
	if base != 0 || age != 0 {
		t.Fatalf("base=%v age=%v want 0,0", base, age)
	}
}

func TestNoAttackersNoDeath(t *testing.T) {
	b, target := arena(t, 0, 1)
	place(t, b, 0, 1) // friendly neighbour never attacks
	place(t, b, 1, 3)
	owner := &fakePlayer{id: 0, attack: 0.5}
	ps := combatants(owner, &fakePlayer{id: 1, attack: 0})

	out := NewResolver(noIntrinsic).Resolve(b, target, owner, ps, 0, nil)
	if out.Dies {
		t.Fatalf("outcome=%+v want survival", out)
	}
}

func TestDeadOrResistantCellsNeverDie(t *testing.T) {
	b, target := arena(t, 0)
	owner := &fakePlayer{id: 0}
	r := NewResolver(Params{BaseDeathRate: 1})
	b.MakeResistant(4, board.SourceEffect)
	resistant, _ := b.Cell(4)
	if out := r.Resolve(b, resistant, owner, combatants(owner), 0, nil); out.Dies {
		t.Fatalf("resistant cell died: %+v", out)
	}
	target.Type = board.CellDead
	if out := r.Resolve(b, target, owner, combatants(owner), 0, nil); out.Dies {
		t.Fatalf("dead cell died again: %+v", out)
	}
}

func TestAverterUsesFreshDraw(t *testing.T) {
	b, target := arena(t, 0, 1)
	place(t, b, 1, 1)
	owner := &avertingPlayer{fakePlayer{id: 0}}
	ps := combatants(owner, &fakePlayer{id: 1, attack: 0.3})
	r := NewResolver(noIntrinsic)

	fresh := rng.NewSequence(0.1, 0.9)
	if out := r.Resolve(b, target, owner, ps, 0.1, fresh); out.Dies {
		t.Fatalf("averted kill still died: %+v", out)
	}
	if out := r.Resolve(b, target, owner, ps, 0.1, fresh); !out.Dies {
		t.Fatalf("second resolve should kill: %+v", out)
	}
	if fresh.Draws() != 2 {
		t.Fatalf("fresh draws=%d want=2", fresh.Draws())
	}
}

func TestAttributionIsProportional(t *testing.T) {
	attackers := []Attacker{
		{TileID: 1, PlayerID: 1, Magnitude: 0.05},
		{TileID: 3, PlayerID: 2, Magnitude: 0.15},
		{TileID: 5, PlayerID: 3, Magnitude: 0.30},
	}
	const trials = 200000
	src := rand.New(rand.NewSource(11))
	credited := map[int]int{}
	deaths := 0
	for i := 0; i < trials; i++ {
		if a, ok := Attribute(attackers, src.Float64()); ok {
			credited[a.PlayerID]++
			deaths++
		}
	}
	for _, a := range attackers {
		got := float64(credited[a.PlayerID]) / float64(deaths)
		want := a.Magnitude / 0.5
		if math.Abs(got-want) > 0.01 {
			t.Fatalf("player %d credited %.4f want %.4f", a.PlayerID, got, want)
		}
	}
	if rate := float64(deaths) / trials; math.Abs(rate-0.5) > 0.01 {
		t.Fatalf("death rate=%.4f want 0.5", rate)
	}
}

func TestAttributionIsDeterministic(t *testing.T) {
	attackers := []Attacker{{TileID: 1, PlayerID: 1, Magnitude: 0.2}, {TileID: 5, PlayerID: 2, Magnitude: 0.1}}
	first, _ := Attribute(attackers, 0.2)
	for i := 0; i < 10; i++ {
		again, _ := Attribute(attackers, 0.2)
		if again != first {
			t.Fatalf("attribution changed: %+v vs %+v", again, first)
		}
	}
	if first.PlayerID != 2 {
		t.Fatalf("roll on the boundary credited %d want 2", first.PlayerID)
	}
}
