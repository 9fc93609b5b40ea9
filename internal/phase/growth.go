package phase

import (
	"github.com/sporefront/colony/internal/board"
	"github.com/sporefront/colony/internal/data"
	"github.com/sporefront/colony/internal/player"
	"github.com/sporefront/colony/internal/rng"
)

// GrowthResult is what one growth cycle produced, per player.
type GrowthResult struct {
	Grown        map[int]int
	Failed       map[int]int
	Infestations []Infestation
}

// Infestation is one living enemy cell replaced by growth.
type Infestation struct {
	TileID   int
	PlayerID int
	VictimID int
}

func newGrowthResult() GrowthResult {
	return GrowthResult{Grown: make(map[int]int), Failed: make(map[int]int)}
}

// GrowthEngine performs one growth cycle. Implementations mutate the board
// only through its public API.
type GrowthEngine interface {
	Grow(b *board.Board, roster *player.Roster, r rng.Source) GrowthResult
}

// GrowthFunc adapts a plain function to GrowthEngine.
type GrowthFunc func(b *board.Board, roster *player.Roster, r rng.Source) GrowthResult

func (f GrowthFunc) Grow(b *board.Board, roster *player.Roster, r rng.Source) GrowthResult {
	return f(b, roster, r)
}

// OrthogonalGrowth is the default engine. Every living cell rolls against its
// owner's growth chance; on success it spreads into one random orthogonal
// neighbour that is empty or holds a dead cell. While the owner's hyphal surge
// is active, living enemy cells are valid targets too and get infested.
// A cell that rolls low or has nowhere to go counts as a failed growth.
type OrthogonalGrowth struct{}

func (OrthogonalGrowth) Grow(b *board.Board, roster *player.Roster, r rng.Source) GrowthResult {
	res := newGrowthResult()
	for _, snap := range b.LivingCells() {
		cur, ok := b.Cell(snap.TileID)
		if !ok || !cur.IsAlive() || cur.OwnerID != snap.OwnerID {
			continue
		}
		owner, ok := roster.Get(cur.OwnerID)
		if !ok {
			continue
		}
		if r.Float64() >= owner.GrowthChance() {
			res.Failed[owner.ID()]++
			continue
		}
		infest := owner.SurgeActive(data.HyphalSurge)
		targets := growthTargets(b, cur.TileID, owner.ID(), infest)
		if len(targets) == 0 {
			res.Failed[owner.ID()]++
			continue
		}
		target := targets[r.Intn(len(targets))]
		victim, _ := b.Cell(target)
		grown, infested := spread(b, owner.ID(), target)
		if !grown {
			res.Failed[owner.ID()]++
			continue
		}
		res.Grown[owner.ID()]++
		if infested {
			res.Infestations = append(res.Infestations, Infestation{TileID: target, PlayerID: owner.ID(), VictimID: victim.OwnerID})
		}
	}
	return res
}

func growthTargets(b *board.Board, tileID, playerID int, infest bool) []int {
	var out []int
	for _, n := range b.OrthogonalNeighbors(tileID) {
		if b.IsEmpty(n) {
			out = append(out, n)
			continue
		}
		switch b.ResolveTakeover(playerID, n, false) {
		case board.TakeoverReclaimed:
			out = append(out, n)
		case board.TakeoverInfested:
			if infest {
				out = append(out, n)
			}
		}
	}
	return out
}

func spread(b *board.Board, playerID, tileID int) (grown, infested bool) {
	if b.IsEmpty(tileID) {
		return b.Colonize(playerID, tileID, board.SourceHyphalOutgrowth) == nil, false
	}
	res := b.Takeover(playerID, tileID, false, board.SourceHyphalOutgrowth)
	return res.Succeeded(), res == board.TakeoverInfested
}
