// Package player holds the per-player resource state the kernel and effect
// modules query: mutation levels, the mutation-point balance and active
// surges. How a player decides what to buy lives outside this package.
package player

import (
	"errors"
	"fmt"
	"sort"

	"github.com/sporefront/colony/internal/data"
	"github.com/sporefront/colony/internal/rng"
)

var (
	ErrUnknownMutation    = errors.New("unknown mutation")
	ErrMaxLevel           = errors.New("mutation already at max level")
	ErrInsufficientPoints = errors.New("insufficient mutation points")
	ErrRequirement        = errors.New("mutation requirement not met")
	ErrNotSurge           = errors.New("mutation is not a surge")
	ErrSurgeActive        = errors.New("surge already active")
)

// Player is accessed only from the simulation goroutine.
type Player struct {
	id      int
	name    string
	points  int
	levels  map[data.MutationID]int
	surges  map[data.MutationID]int // remaining rounds
	catalog *data.Catalog

	baseGrowthChance float64
}

func New(id int, name string, catalog *data.Catalog, baseGrowthChance float64) *Player {
	return &Player{
		id:               id,
		name:             name,
		levels:           make(map[data.MutationID]int),
		surges:           make(map[data.MutationID]int),
		catalog:          catalog,
		baseGrowthChance: baseGrowthChance,
	}
}

func (p *Player) ID() int                { return p.id }
func (p *Player) Name() string           { return p.name }
func (p *Player) MutationPoints() int    { return p.points }
func (p *Player) Catalog() *data.Catalog { return p.catalog }

// AddMutationPoints adjusts the point balance. It is the only mutator the
// kernel and effect modules use on a player.
func (p *Player) AddMutationPoints(n int) {
	p.points += n
	if p.points < 0 {
		p.points = 0
	}
}

func (p *Player) MutationLevel(id data.MutationID) int { return p.levels[id] }

// Levels returns a copy of every non-zero mutation level.
func (p *Player) Levels() map[data.MutationID]int {
	out := make(map[data.MutationID]int, len(p.levels))
	for id, lvl := range p.levels {
		if lvl > 0 {
			out[id] = lvl
		}
	}
	return out
}

// effect is level × effect_per_level for a catalog mutation.
func (p *Player) effect(id data.MutationID) float64 {
	m := p.catalog.Get(id)
	if m == nil {
		return 0
	}
	return float64(p.levels[id]) * m.EffectPerLevel
}

// CanUpgrade reports why id cannot be bought right now, or nil.
func (p *Player) CanUpgrade(id data.MutationID) error {
	m := p.catalog.Get(id)
	if m == nil {
		return fmt.Errorf("%s: %w", id, ErrUnknownMutation)
	}
	if p.levels[id] >= m.MaxLevel {
		return fmt.Errorf("%s: %w", id, ErrMaxLevel)
	}
	if req := m.Requires; req != nil && p.levels[req.ID] < req.Level {
		return fmt.Errorf("%s needs %s level %d: %w", id, req.ID, req.Level, ErrRequirement)
	}
	if p.points < m.Cost {
		return fmt.Errorf("%s costs %d, have %d: %w", id, m.Cost, p.points, ErrInsufficientPoints)
	}
	return nil
}

// Upgrade buys one level of id.
func (p *Player) Upgrade(id data.MutationID) error {
	if err := p.CanUpgrade(id); err != nil {
		return err
	}
	p.points -= p.catalog.Get(id).Cost
	p.levels[id]++
	return nil
}

// GrantLevel adds a free level of id, ignoring cost but honouring max level
// and requirements. Returns false when nothing changed.
func (p *Player) GrantLevel(id data.MutationID) bool {
	m := p.catalog.Get(id)
	if m == nil || p.levels[id] >= m.MaxLevel {
		return false
	}
	if req := m.Requires; req != nil && p.levels[req.ID] < req.Level {
		return false
	}
	p.levels[id]++
	return true
}

// Upgradable lists the mutations that could receive a free level, by id.
func (p *Player) Upgradable() []data.MutationID {
	var out []data.MutationID
	for _, m := range p.catalog.All() {
		if p.levels[m.ID] >= m.MaxLevel {
			continue
		}
		if req := m.Requires; req != nil && p.levels[req.ID] < req.Level {
			continue
		}
		out = append(out, m.ID)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// CanActivateSurge reports why surge id cannot be started right now, or nil.
func (p *Player) CanActivateSurge(id data.MutationID) error {
	m := p.catalog.Get(id)
	if m == nil {
		return fmt.Errorf("%s: %w", id, ErrUnknownMutation)
	}
	if m.Category != data.CategorySurge {
		return fmt.Errorf("%s: %w", id, ErrNotSurge)
	}
	if p.levels[id] == 0 {
		return fmt.Errorf("%s not learned: %w", id, ErrRequirement)
	}
	if p.surges[id] > 0 {
		return fmt.Errorf("%s: %w", id, ErrSurgeActive)
	}
	if p.points < m.Cost {
		return fmt.Errorf("%s costs %d, have %d: %w", id, m.Cost, p.points, ErrInsufficientPoints)
	}
	return nil
}

// ActivateSurge spends the surge's cost and starts its timer.
func (p *Player) ActivateSurge(id data.MutationID) error {
	if err := p.CanActivateSurge(id); err != nil {
		return err
	}
	m := p.catalog.Get(id)
	p.points -= m.Cost
	p.surges[id] = max(1, m.Duration)
	return nil
}

func (p *Player) SurgeActive(id data.MutationID) bool { return p.surges[id] > 0 }

func (p *Player) SurgeRemaining(id data.MutationID) int { return p.surges[id] }

// TickSurges counts every active surge down by one round and returns the
// ones that just ended.
func (p *Player) TickSurges() []data.MutationID {
	var ended []data.MutationID
	for id, left := range p.surges {
		if left <= 1 {
			delete(p.surges, id)
			ended = append(ended, id)
			continue
		}
		p.surges[id] = left - 1
	}
	sort.Slice(ended, func(i, j int) bool { return ended[i] < ended[j] })
	return ended
}

// GrowthChance is the chance a living cell grows each cycle.
func (p *Player) GrowthChance() float64 {
	c := p.baseGrowthChance + p.effect(data.HyphalGrowth)
	if p.SurgeActive(data.HyphalSurge) {
		c += p.effect(data.HyphalSurge)
	}
	return min(1, c)
}

// DefenseReduction lowers intrinsic death chances.
func (p *Player) DefenseReduction() float64 { return p.effect(data.HomeostaticHarmony) }

// AdjacencyKillEffect is the chance each living cell adds to adjacent enemy
// death rolls.
func (p *Player) AdjacencyKillEffect() float64 { return p.effect(data.MycotoxinPotentiation) }

// AvertAdjacencyKill rolls the cytoplasmic reserve. No draw is consumed when
// the mutation is not learned.
func (p *Player) AvertAdjacencyKill(r rng.Source) bool {
	c := p.effect(data.CytoplasmicReserve)
	if c <= 0 {
		return false
	}
	return r.Float64() < c
}

func (p *Player) ReclaimChance() float64     { return p.effect(data.RegenerativeHyphae) }
func (p *Player) AgeResetChance() float64    { return p.effect(data.Chronoresilience) }
func (p *Player) BonusIncomeChance() float64 { return p.effect(data.AdaptiveExpression) }
func (p *Player) ToxinDropChance() float64   { return p.effect(data.SporicidalRelease) }
func (p *Player) CascadeChance() float64     { return p.effect(data.PutrefactiveCascade) }

// ResistanceGrant is how many cells an active bastion surge makes resistant.
func (p *Player) ResistanceGrant() int {
	if !p.SurgeActive(data.MycelialBastion) {
		return 0
	}
	return int(p.effect(data.MycelialBastion))
}

// CapFor is the per-round firing cap for id, 0 when uncapped.
func (p *Player) CapFor(id data.MutationID) int {
	if m := p.catalog.Get(id); m != nil {
		return m.Cap
	}
	return 0
}
