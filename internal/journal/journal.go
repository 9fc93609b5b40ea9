// Package journal turns the board's event stream into ordered rows that can
// be persisted or exported for replay and analysis.
package journal

import (
	"context"
	"fmt"

	"github.com/sporefront/colony/internal/board"
	"go.uber.org/zap"
)

// Entry kinds.
const (
	KindColonized        = "colonized"
	KindInfested         = "infested"
	KindReclaimed        = "reclaimed"
	KindToxified         = "toxified"
	KindToxinPlaced      = "toxin_placed"
	KindOvergrown        = "overgrown"
	KindDied             = "died"
	KindToxinExpired     = "toxin_expired"
	KindRemoved          = "removed"
	KindResistantGranted = "resistant_granted"
	KindToxinsDropped    = "toxins_dropped"
)

// Entry is one journaled transition. OtherID is the previous owner for
// ownership changes and the killer for deaths. Batch kinds carry NoTile
// and the number of tiles in Count.
type Entry struct {
	Seq      int64  `parquet:"seq"`
	Round    int    `parquet:"round"`
	Cycle    int    `parquet:"cycle"`
	Kind     string `parquet:"kind,dict"`
	TileID   int    `parquet:"tile_id"`
	PlayerID int    `parquet:"player_id"`
	OtherID  int    `parquet:"other_id"`
	Detail   string `parquet:"detail,dict"`
	Count    int    `parquet:"count"`
}

// Sink receives flushed entries in order.
type Sink interface {
	WriteEntries(ctx context.Context, entries []Entry) error
}

// Recorder buffers entries between flushes. It taps the bus, so entries are
// numbered in publish order: an event raised by a handler reacting to another
// event is always journaled after the event that caused it.
type Recorder struct {
	board   *board.Board
	log     *zap.Logger
	seq     int64
	pending []Entry
	sent    map[Sink]int // entries of pending already written, per sink
}

func NewRecorder(b *board.Board, log *zap.Logger) *Recorder {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Recorder{
		board:   b,
		log:     log.Named("journal"),
		pending: make([]Entry, 0, 256),
		sent:    make(map[Sink]int),
	}
	b.Bus().Tap(r.record)
	return r
}

func (r *Recorder) add(e Entry) {
	r.seq++
	e.Seq = r.seq
	e.Round = r.board.Round()
	e.Cycle = r.board.GrowthCycle()
	r.pending = append(r.pending, e)
}

func (r *Recorder) record(ev any) {
	switch e := ev.(type) {
	case board.CellColonized:
		r.add(Entry{Kind: KindColonized, TileID: e.TileID, PlayerID: e.PlayerID, OtherID: board.NoPlayer, Detail: e.Source.String()})
	case board.CellInfested:
		r.add(Entry{Kind: KindInfested, TileID: e.TileID, PlayerID: e.PlayerID, OtherID: e.PreviousOwnerID, Detail: e.Source.String()})
	case board.CellReclaimed:
		r.add(Entry{Kind: KindReclaimed, TileID: e.TileID, PlayerID: e.PlayerID, OtherID: e.PreviousOwnerID, Detail: e.Source.String(), Count: e.ReclaimCount})
	case board.CellToxified:
		r.add(Entry{Kind: KindToxified, TileID: e.TileID, PlayerID: e.PlayerID, OtherID: e.PreviousOwnerID, Detail: e.Source.String(), Count: e.Expiration})
	case board.ToxinPlaced:
		r.add(Entry{Kind: KindToxinPlaced, TileID: e.TileID, PlayerID: e.PlayerID, OtherID: board.NoPlayer, Detail: e.Source.String(), Count: e.Expiration})
	case board.CellOvergrown:
		r.add(Entry{Kind: KindOvergrown, TileID: e.TileID, PlayerID: e.PlayerID, OtherID: e.PreviousOwnerID, Detail: e.Source.String()})
	case board.CellDied:
		r.add(Entry{Kind: KindDied, TileID: e.TileID, PlayerID: e.OwnerID, OtherID: e.KillerID, Detail: e.Reason.String()})
	case board.ToxinExpired:
		r.add(Entry{Kind: KindToxinExpired, TileID: e.TileID, PlayerID: e.OwnerID, OtherID: board.NoPlayer})
	case board.CellRemoved:
		r.add(Entry{Kind: KindRemoved, TileID: e.TileID, PlayerID: e.OwnerID, OtherID: board.NoPlayer, Detail: e.Type.String()})
	case board.ResistantCellsGranted:
		r.add(Entry{Kind: KindResistantGranted, TileID: board.NoTile, PlayerID: e.PlayerID, OtherID: board.NoPlayer, Detail: e.Source.String(), Count: len(e.TileIDs)})
	case board.ToxinsDropped:
		r.add(Entry{Kind: KindToxinsDropped, TileID: board.NoTile, PlayerID: e.PlayerID, OtherID: board.NoPlayer, Detail: e.Source.String(), Count: len(e.TileIDs)})
	}
}

// Pending returns the number of buffered entries.
func (r *Recorder) Pending() int { return len(r.pending) }

// Flush writes buffered entries to every sink in order. A sink only ever
// receives entries it has not been given yet, so when a later sink fails,
// retrying does not write the same entries to an earlier one twice. The
// buffer is cleared once every sink has everything. Sinks are tracked by
// value and must be comparable.
func (r *Recorder) Flush(ctx context.Context, sinks ...Sink) error {
	if len(r.pending) == 0 {
		return nil
	}
	for _, s := range sinks {
		from := r.sent[s]
		if from >= len(r.pending) {
			continue
		}
		if err := s.WriteEntries(ctx, r.pending[from:]); err != nil {
			return fmt.Errorf("journal flush: %w", err)
		}
		r.sent[s] = len(r.pending)
	}
	r.log.Debug("journal flushed", zap.Int("entries", len(r.pending)), zap.Int64("seq", r.seq))
	r.pending = r.pending[:0]
	clear(r.sent)
	return nil
}

// Memory keeps every entry it is given.
type Memory struct {
	Entries []Entry
}

func (m *Memory) WriteEntries(_ context.Context, entries []Entry) error {
	m.Entries = append(m.Entries, entries...)
	return nil
}
