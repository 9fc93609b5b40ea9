package board

// RoundContext is per-round scratch state, cleared when the round advances.
// Effect modules use it to cap how often an effect fires per player per round.
type RoundContext struct {
	counters map[roundKey]int
}

type roundKey struct {
	playerID int
	key      string
}

func newRoundContext() *RoundContext {
	return &RoundContext{counters: make(map[roundKey]int)}
}

func (r *RoundContext) Count(playerID int, key string) int {
	return r.counters[roundKey{playerID, key}]
}

// Increment bumps a counter and returns the new value.
func (r *RoundContext) Increment(playerID int, key string) int {
	k := roundKey{playerID, key}
	r.counters[k]++
	return r.counters[k]
}

// TryConsume increments the counter only while it is below limit.
func (r *RoundContext) TryConsume(playerID int, key string, limit int) bool {
	k := roundKey{playerID, key}
	if r.counters[k] >= limit {
		return false
	}
	r.counters[k]++
	return true
}

func (r *RoundContext) reset() {
	clear(r.counters)
}
