package board

import (
	"fmt"
	"testing"

	"github.com/sporefront/colony/internal/core/event"
)

// recorder captures every cell event raised on a board's bus, in order.
type recorder struct {
	events []any
}

func (r *recorder) names() []string {
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = fmt.Sprintf("%T", e)
	}
	return out
}

func record[T any](bus *event.Bus, r *recorder) {
	event.Subscribe(bus, func(e T) { r.events = append(r.events, e) })
}

func newTestBoard(t *testing.T, w, h int, players ...int) (*Board, *recorder) {
	t.Helper()
	b, err := New(w, h, players, nil)
	if err != nil {
		t.Fatalf("new board: %v", err)
	}
	r := &recorder{}
	record[CellColonized](b.Bus(), r)
	record[CellInfested](b.Bus(), r)
	record[CellReclaimed](b.Bus(), r)
	record[CellToxified](b.Bus(), r)
	record[ToxinPlaced](b.Bus(), r)
	record[CellOvergrown](b.Bus(), r)
	record[CellDied](b.Bus(), r)
	record[ToxinExpired](b.Bus(), r)
	record[CellRemoved](b.Bus(), r)
	record[ResistantCellsGranted](b.Bus(), r)
	record[ToxinsDropped](b.Bus(), r)
	return b, r
}

func mustColonize(t *testing.T, b *Board, player, x, y int) int {
	t.Helper()
	id, ok := b.TileID(x, y)
	if !ok {
		t.Fatalf("(%d,%d) out of bounds", x, y)
	}
	if err := b.Colonize(player, id, SourceEffect); err != nil {
		t.Fatalf("colonize (%d,%d): %v\n%s", x, y, err, b)
	}
	return id
}

func mustVerify(t *testing.T, b *Board) {
	t.Helper()
	if err := b.Verify(); err != nil {
		t.Fatalf("verify: %v\n%s", err, b)
	}
}
