package persist

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/sporefront/colony/internal/journal"
)

var journalColumns = []string{
	"game_id", "seq", "round", "cycle", "kind", "tile_id", "player_id", "other_id", "detail", "count",
}

type JournalRepo struct {
	db *DB
}

func NewJournalRepo(db *DB) *JournalRepo {
	return &JournalRepo{db: db}
}

// Insert copies a batch of journal entries in a single transaction.
func (r *JournalRepo) Insert(ctx context.Context, gameID int64, entries []journal.Entry) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("journal begin: %w", err)
	}
	defer tx.Rollback(ctx)

	n, err := tx.CopyFrom(ctx, pgx.Identifier{"journal_entries"}, journalColumns,
		pgx.CopyFromSlice(len(entries), func(i int) ([]any, error) {
			e := entries[i]
			return []any{gameID, e.Seq, e.Round, e.Cycle, e.Kind, e.TileID, e.PlayerID, e.OtherID, e.Detail, e.Count}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("journal copy: %w", err)
	}
	if int(n) != len(entries) {
		return fmt.Errorf("journal copy: wrote %d of %d rows", n, len(entries))
	}
	return tx.Commit(ctx)
}

// Sink binds the repo to one game so a journal.Recorder can flush into it.
func (r *JournalRepo) Sink(gameID int64) journal.Sink {
	return gameSink{repo: r, gameID: gameID}
}

type gameSink struct {
	repo   *JournalRepo
	gameID int64
}

func (s gameSink) WriteEntries(ctx context.Context, entries []journal.Entry) error {
	return s.repo.Insert(ctx, s.gameID, entries)
}
