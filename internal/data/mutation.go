package data

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// MutationID identifies a catalog entry.
type MutationID string

// Mutations the bundled effect modules and player queries look up.
const (
	HyphalGrowth          MutationID = "hyphal_growth"
	HomeostaticHarmony    MutationID = "homeostatic_harmony"
	MycotoxinPotentiation MutationID = "mycotoxin_potentiation"
	CytoplasmicReserve    MutationID = "cytoplasmic_reserve"
	RegenerativeHyphae    MutationID = "regenerative_hyphae"
	Chronoresilience      MutationID = "chronoresilience"
	AdaptiveExpression    MutationID = "adaptive_expression"
	MutatorPhenotype      MutationID = "mutator_phenotype"
	SporicidalRelease     MutationID = "sporicidal_release"
	PutrefactiveCascade   MutationID = "putrefactive_cascade"
	HyphalSurge           MutationID = "hyphal_surge"
	MycelialBastion       MutationID = "mycelial_bastion"
)

// Category groups mutations by gameplay role. The kernel never looks at it;
// the effect dispatcher uses it to order modules.
type Category string

const (
	CategoryGrowth     Category = "growth"
	CategoryResilience Category = "resilience"
	CategoryDrift      Category = "drift"
	CategoryOffense    Category = "offense"
	CategorySurge      Category = "surge"
)

// Categories in dispatch order.
var Categories = []Category{CategoryGrowth, CategoryResilience, CategoryDrift, CategoryOffense, CategorySurge}

var ErrDuplicateMutation = errors.New("duplicate mutation id")

// Mutation is one upgradeable rule. EffectPerLevel is the magnitude each
// level adds; its unit depends on the rule (a chance, a count, ...).
type Mutation struct {
	ID             MutationID   `yaml:"id"`
	Name           string       `yaml:"name"`
	Category       Category     `yaml:"category"`
	MaxLevel       int          `yaml:"max_level"`
	Cost           int          `yaml:"cost"` // mutation points per level
	EffectPerLevel float64      `yaml:"effect_per_level"`
	Duration       int          `yaml:"duration"` // rounds for a surge, growth cycles for a toxin
	Cap            int          `yaml:"cap"`      // per-round firing cap, 0 = none
	Requires       *Requirement `yaml:"requires"`
}

// Requirement gates a mutation behind another mutation's level.
type Requirement struct {
	ID    MutationID `yaml:"id"`
	Level int        `yaml:"level"`
}

type mutationFile struct {
	Mutations []Mutation `yaml:"mutations"`
}

// Catalog is the read-only set of mutations, built once at game setup.
type Catalog struct {
	byID  map[MutationID]*Mutation
	order []MutationID
}

// LoadCatalog loads mutations.yaml.
func LoadCatalog(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mutation catalog: %w", err)
	}
	return ParseCatalog(raw)
}

// ParseCatalog builds a catalog from YAML bytes.
func ParseCatalog(raw []byte) (*Catalog, error) {
	var f mutationFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse mutation catalog: %w", err)
	}
	return NewCatalog(f.Mutations)
}

// NewCatalog validates and indexes mutations.
func NewCatalog(mutations []Mutation) (*Catalog, error) {
	c := &Catalog{byID: make(map[MutationID]*Mutation, len(mutations))}
	for i := range mutations {
		m := mutations[i]
		if m.ID == "" {
			return nil, fmt.Errorf("mutation #%d has no id", i)
		}
		if _, dup := c.byID[m.ID]; dup {
			return nil, fmt.Errorf("mutation %s: %w", m.ID, ErrDuplicateMutation)
		}
		if m.MaxLevel < 1 {
			return nil, fmt.Errorf("mutation %s: max_level must be positive", m.ID)
		}
		if m.Cost < 0 {
			return nil, fmt.Errorf("mutation %s: negative cost", m.ID)
		}
		c.byID[m.ID] = &m
		c.order = append(c.order, m.ID)
	}
	for _, id := range c.order {
		if req := c.byID[id].Requires; req != nil {
			if _, ok := c.byID[req.ID]; !ok {
				return nil, fmt.Errorf("mutation %s requires unknown %s", id, req.ID)
			}
		}
	}
	return c, nil
}

// Get returns the mutation with the given id, or nil if none.
func (c *Catalog) Get(id MutationID) *Mutation {
	return c.byID[id]
}

// All returns every mutation in file order.
func (c *Catalog) All() []*Mutation {
	out := make([]*Mutation, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

// ByCategory returns the mutations of one category sorted by id.
func (c *Catalog) ByCategory(cat Category) []*Mutation {
	var out []*Mutation
	for _, m := range c.byID {
		if m.Category == cat {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Count returns the number of mutations loaded.
func (c *Catalog) Count() int {
	return len(c.order)
}
