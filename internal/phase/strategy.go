package phase

import (
	"github.com/sporefront/colony/internal/board"
	"github.com/sporefront/colony/internal/data"
	"github.com/sporefront/colony/internal/player"
	"github.com/sporefront/colony/internal/rng"
)

// RandomStrategy first starts every learned surge it can afford, then buys
// random affordable upgrades until nothing is affordable.
type RandomStrategy struct{}

func (RandomStrategy) Spend(_ *board.Board, p *player.Player, r rng.Source) {
	for _, m := range p.Catalog().ByCategory(data.CategorySurge) {
		if p.CanActivateSurge(m.ID) != nil {
			continue
		}
		if err := p.ActivateSurge(m.ID); err != nil {
			return
		}
	}
	for {
		var affordable []data.MutationID
		for _, id := range p.Upgradable() {
			if p.CanUpgrade(id) == nil {
				affordable = append(affordable, id)
			}
		}
		if len(affordable) == 0 {
			return
		}
		if err := p.Upgrade(affordable[r.Intn(len(affordable))]); err != nil {
			return
		}
	}
}
