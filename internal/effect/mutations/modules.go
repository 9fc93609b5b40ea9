// Package mutations holds the rule modules behind the catalog's mutations.
// Each module reads its magnitudes from the owning player's catalog levels.
package mutations

import "github.com/sporefront/colony/internal/effect"

// Defaults returns every bundled module. Within a category the order here is
// the dispatch order: cascade takeover runs before sporicidal release sees
// the same death.
func Defaults() []effect.Module {
	return []effect.Module{
		RegenerativeHyphae{},
		Chronoresilience{},
		Income{},
		MutatorPhenotype{},
		PutrefactiveCascade{},
		SporicidalRelease{},
		MycelialBastion{},
		SurgeTimers{},
	}
}
