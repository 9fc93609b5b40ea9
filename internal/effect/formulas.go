package effect

// IncomeInput is what an income formula sees for one player.
type IncomeInput struct {
	Round     int
	Base      int
	Living    int
	Dead      int
	TileCount int
}

// Formulas are the balance curves rule modules consult. The scripting
// package provides a Lua-backed implementation.
type Formulas interface {
	Income(in IncomeInput) int
	AutoUpgradeChance(level int, perLevel float64) float64
	ToxinDuration(level, base int) int
}

// DefaultFormulas are the built-in curves.
type DefaultFormulas struct{}

// Income is the base plus one point per full percent of the board held.
func (DefaultFormulas) Income(in IncomeInput) int {
	if in.TileCount <= 0 {
		return in.Base
	}
	return in.Base + in.Living*100/in.TileCount
}

func (DefaultFormulas) AutoUpgradeChance(level int, perLevel float64) float64 {
	return min(1, float64(level)*perLevel)
}

// ToxinDuration adds one growth cycle for every three levels.
func (DefaultFormulas) ToxinDuration(level, base int) int {
	return max(1, base+level/3)
}
