// Package rng provides the injected random source shared by a whole
// simulation run. Nothing in the kernel creates its own generator.
package rng

import "math/rand"

// Source is the random stream consumed by the kernel and effect modules.
type Source interface {
	// Float64 returns a draw in [0,1).
	Float64() float64
	// Intn returns a draw in [0,n). n must be positive.
	Intn(n int) int
}

// NewSeeded returns a deterministic source. Two sources built from the same
// seed produce the same stream.
func NewSeeded(seed int64) Source {
	return rand.New(rand.NewSource(seed))
}

// Sequence replays a fixed list of Float64 draws, cycling when exhausted.
// Intn is derived from the next float draw. Used to script exact rolls.
type Sequence struct {
	values []float64
	next   int
}

func NewSequence(values ...float64) *Sequence {
	if len(values) == 0 {
		values = []float64{0}
	}
	return &Sequence{values: values}
}

func (s *Sequence) Float64() float64 {
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

func (s *Sequence) Intn(n int) int {
	v := int(s.Float64() * float64(n))
	if v >= n {
		v = n - 1
	}
	return v
}

// Draws is the number of values consumed so far.
func (s *Sequence) Draws() int { return s.next }
