// Package death decides whether a living cell dies during the decay phase,
// why, and which attacker (if any) is credited.
package death

import (
	"sort"

	"github.com/sporefront/colony/internal/board"
	"github.com/sporefront/colony/internal/rng"
)

// Combatant is what the resolver needs to know about a player.
type Combatant interface {
	ID() int
	// DefenseReduction lowers both the base and the age death chance.
	DefenseReduction() float64
	// AdjacencyKillEffect is the chance this player's living cells add to
	// an orthogonally adjacent enemy cell's death roll.
	AdjacencyKillEffect() float64
}

// Averter is optionally implemented by the owner of a cell to survive an
// adjacency kill using its own fresh random draw.
type Averter interface {
	AvertAdjacencyKill(r rng.Source) bool
}

// Params are the intrinsic death-rate constants.
type Params struct {
	BaseDeathRate     float64
	AgeDelayThreshold int
	AgeFactor         float64
}

// Outcome is the result of one resolution. A zero Outcome means the cell lives.
type Outcome struct {
	Dies           bool
	Reason         board.DeathReason
	KillerID       int
	AttackerTileID int
	Chance         float64 // total chance that was rolled against
}

func survives(chance float64) Outcome {
	return Outcome{KillerID: board.NoPlayer, AttackerTileID: board.NoTile, Chance: chance}
}

// Info converts a fatal outcome into the board's kill request.
func (o Outcome) Info() board.DeathInfo {
	return board.Killed(o.Reason, o.KillerID, o.AttackerTileID)
}

// Attacker is one adjacent living enemy cell contributing to a kill chance.
type Attacker struct {
	TileID    int
	PlayerID  int
	Magnitude float64
}

// Resolver holds the constants; it keeps no per-call state.
type Resolver struct {
	params Params
}

func NewResolver(p Params) *Resolver {
	return &Resolver{params: p}
}

func (r *Resolver) Params() Params { return r.params }

// IntrinsicChances returns the base and age death chances for a cell.
func (r *Resolver) IntrinsicChances(cell board.Cell, owner Combatant) (base, age float64) {
	reduction := owner.DefenseReduction()
	base = max(0, r.params.BaseDeathRate-reduction)
	if cell.Age > r.params.AgeDelayThreshold {
		age = max(0, float64(cell.Age-r.params.AgeDelayThreshold)*r.params.AgeFactor-reduction)
	}
	return base, age
}

// Resolve decides the fate of a living cell. roll is the single draw for this
// cell; fresh is only handed to sub-effects that need their own randomness.
// Intrinsic death (randomness or age) takes priority over adjacency attacks.
func (r *Resolver) Resolve(b *board.Board, cell board.Cell, owner Combatant, players map[int]Combatant, roll float64, fresh rng.Source) Outcome {
	if cell.Type != board.CellAlive || cell.Resistant {
		return survives(0)
	}

	base, age := r.IntrinsicChances(cell, owner)
	total := min(1, max(0, base+age))
	if roll < total {
		out := Outcome{Dies: true, Reason: board.DeathReasonAge, KillerID: board.NoPlayer, AttackerTileID: board.NoTile, Chance: total}
		if roll < base {
			out.Reason = board.DeathReasonRandomness
		}
		return out
	}

	attackers := Attackers(b, cell, players)
	chance := 0.0
	for _, a := range attackers {
		chance += a.Magnitude
	}
	if chance <= 0 {
		return survives(total)
	}

	a, ok := Attribute(attackers, roll)
	if !ok {
		return survives(chance)
	}
	if av, ok := owner.(Averter); ok && fresh != nil && av.AvertAdjacencyKill(fresh) {
		return survives(chance)
	}
	return Outcome{
		Dies:           true,
		Reason:         board.DeathReasonAdjacentAttack,
		KillerID:       a.PlayerID,
		AttackerTileID: a.TileID,
		Chance:         chance,
	}
}

// Attackers lists the orthogonally adjacent living enemy cells with a
// positive adjacency kill effect, sorted by tile id.
func Attackers(b *board.Board, cell board.Cell, players map[int]Combatant) []Attacker {
	var out []Attacker
	for _, n := range b.OrthogonalNeighbors(cell.TileID) {
		nc, ok := b.Cell(n)
		if !ok || nc.Type != board.CellAlive || nc.OwnerID == cell.OwnerID {
			continue
		}
		p, ok := players[nc.OwnerID]
		if !ok {
			continue
		}
		if m := p.AdjacencyKillEffect(); m > 0 {
			out = append(out, Attacker{TileID: n, PlayerID: nc.OwnerID, Magnitude: m})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TileID < out[j].TileID })
	return out
}

// Attribute assigns each attacker, in order, a sub-interval of [0, sum) as
// wide as its magnitude and returns the one whose interval contains roll.
// A roll at or beyond the sum hits nobody.
func Attribute(attackers []Attacker, roll float64) (Attacker, bool) {
	lo := 0.0
	for _, a := range attackers {
		hi := lo + a.Magnitude
		if roll >= lo && roll < hi {
			return a, true
		}
		lo = hi
	}
	return Attacker{}, false
}
