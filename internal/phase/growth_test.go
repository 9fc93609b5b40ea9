package phase

import (
	"testing"

	"github.com/sporefront/colony/internal/board"
	"github.com/sporefront/colony/internal/data"
	"github.com/sporefront/colony/internal/player"
	"github.com/sporefront/colony/internal/rng"
)

func TestOrthogonalGrowthSpreadsIntoOneNeighbour(t *testing.T) {
	g := newGame(t, 3, 3, 1, Config{GrowthCycles: 1}, rng.NewSeeded(1))
	center := colonize(t, g.board, 0, 1, 1)

	// roll 0 passes the growth check; Intn(4) on 0.6 picks the third
	// neighbour in N, E, S, W order.
	res := OrthogonalGrowth{}.Grow(g.board, g.roster, rng.NewSequence(0, 0.6))

	if res.Grown[0] != 1 || res.Failed[0] != 0 {
		t.Fatalf("result=%+v", res)
	}
	south := g.board.OrthogonalNeighbors(center)[2]
	c, ok := g.board.Cell(south)
	if !ok || c.OwnerID != 0 || c.Source != board.SourceHyphalOutgrowth {
		t.Fatalf("south=%+v ok=%v\n%s", c, ok, g.board)
	}
	if g.board.LivingCellCount(0) != 2 {
		t.Fatalf("living=%d want=2\n%s", g.board.LivingCellCount(0), g.board)
	}
}

func TestOrthogonalGrowthReclaimsDeadNeighbour(t *testing.T) {
	g := newGame(t, 2, 1, 1, Config{GrowthCycles: 1}, rng.NewSeeded(1))
	colonize(t, g.board, 0, 0, 0)
	dead := colonize(t, g.board, 1, 1, 0)
	g.board.Kill(dead, board.Death(board.DeathReasonAge))

	res := OrthogonalGrowth{}.Grow(g.board, g.roster, rng.NewSequence(0))

	c, _ := g.board.Cell(dead)
	if !c.IsAlive() || c.OwnerID != 0 || c.ReclaimCount != 1 {
		t.Fatalf("cell=%+v want reclaimed by 0", c)
	}
	if res.Grown[0] != 1 {
		t.Fatalf("result=%+v", res)
	}
}

func TestOrthogonalGrowthCountsBlockedCellsAsFailed(t *testing.T) {
	g := newGame(t, 2, 1, 1, Config{GrowthCycles: 1}, rng.NewSeeded(1))
	colonize(t, g.board, 0, 0, 0)
	colonize(t, g.board, 1, 1, 0)

	res := OrthogonalGrowth{}.Grow(g.board, g.roster, rng.NewSequence(0))

	if res.Failed[0] != 1 || res.Failed[1] != 1 || len(res.Grown) != 0 {
		t.Fatalf("result=%+v", res)
	}
}

func TestOrthogonalGrowthInfestsDuringSurge(t *testing.T) {
	cat, err := data.NewCatalog([]data.Mutation{
		{ID: data.HyphalSurge, Category: data.CategorySurge, MaxLevel: 1, Duration: 1},
	})
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	green := player.New(0, "green", cat, 1)
	violet := player.New(1, "violet", cat, 1)
	if err := green.Upgrade(data.HyphalSurge); err != nil {
		t.Fatalf("upgrade: %v", err)
	}
	if err := green.ActivateSurge(data.HyphalSurge); err != nil {
		t.Fatalf("activate: %v", err)
	}
	roster, _ := player.NewRoster(green, violet)
	b, _ := board.New(2, 1, []int{0, 1}, nil)
	colonize(t, b, 0, 0, 0)
	enemy := colonize(t, b, 1, 1, 0)

	res := OrthogonalGrowth{}.Grow(b, roster, rng.NewSequence(0))

	c, _ := b.Cell(enemy)
	if !c.IsAlive() || c.OwnerID != 0 || c.LastOwnerID != 1 {
		t.Fatalf("cell=%+v want infested by 0\n%s", c, b)
	}
	want := Infestation{TileID: enemy, PlayerID: 0, VictimID: 1}
	if len(res.Infestations) != 1 || res.Infestations[0] != want {
		t.Fatalf("infestations=%+v want=[%+v]", res.Infestations, want)
	}
	// violet's only cell was taken before its turn came up.
	if res.Grown[0] != 1 || res.Failed[1] != 0 {
		t.Fatalf("result=%+v", res)
	}
}

func TestOrthogonalGrowthLeavesEnemiesAloneWithoutSurge(t *testing.T) {
	g := newGame(t, 2, 1, 1, Config{GrowthCycles: 1}, rng.NewSeeded(1))
	colonize(t, g.board, 0, 0, 0)
	enemy := colonize(t, g.board, 1, 1, 0)

	res := OrthogonalGrowth{}.Grow(g.board, g.roster, rng.NewSequence(0))

	if c, _ := g.board.Cell(enemy); c.OwnerID != 1 {
		t.Fatalf("enemy cell taken: %+v", c)
	}
	if len(res.Infestations) != 0 {
		t.Fatalf("infestations=%+v", res.Infestations)
	}
}
