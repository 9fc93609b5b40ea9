package phase

// Summary is one player's standing at the end of a round's decay phase.
type Summary struct {
	Round          int
	PlayerID       int
	Living         int
	Dead           int
	Toxins         int
	Resistant      int
	MutationPoints int
	FailedGrowths  int
	Occupancy      float64
}

// Summarize counts the board per player in roster order.
func (o *Orchestrator) Summarize() []Summary {
	b := o.board
	byID := make(map[int]*Summary, o.roster.Len())
	out := make([]Summary, 0, o.roster.Len())
	for _, p := range o.roster.All() {
		out = append(out, Summary{
			Round:          b.Round(),
			PlayerID:       p.ID(),
			MutationPoints: p.MutationPoints(),
			FailedGrowths:  o.failed[p.ID()],
		})
	}
	for i := range out {
		byID[out[i].PlayerID] = &out[i]
	}
	for _, c := range b.Cells() {
		s := byID[c.OwnerID]
		if s == nil {
			continue
		}
		switch {
		case c.IsAlive():
			s.Living++
			if c.Resistant {
				s.Resistant++
			}
		case c.IsDead():
			s.Dead++
		case c.IsToxin():
			s.Toxins++
		}
	}
	tiles := float64(b.TileCount())
	for i := range out {
		out[i].Occupancy = float64(out[i].Living) / tiles
	}
	return out
}
