// Package export writes a finished game's round summaries and event journal
// as zstd-compressed parquet files for offline balance analysis.
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"

	"github.com/sporefront/colony/internal/journal"
	"github.com/sporefront/colony/internal/phase"
)

// SummaryRow is one player's standing at the end of one round.
type SummaryRow struct {
	GameID         string  `parquet:"game_id,dict"`
	Round          int32   `parquet:"round"`
	PlayerID       int32   `parquet:"player_id"`
	PlayerName     string  `parquet:"player_name,dict"`
	Living         int32   `parquet:"living"`
	Dead           int32   `parquet:"dead"`
	Toxins         int32   `parquet:"toxins"`
	Resistant      int32   `parquet:"resistant"`
	MutationPoints int32   `parquet:"mutation_points"`
	FailedGrowths  int32   `parquet:"failed_growths"`
	Occupancy      float64 `parquet:"occupancy"`
}

// Exporter buffers a game's rows until Close writes them. It is also a
// journal.Sink.
type Exporter struct {
	dir       string
	gameID    string
	names     map[int]string
	summaries []SummaryRow
	entries   []journal.Entry
}

func New(dir, gameID string, names map[int]string) *Exporter {
	return &Exporter{dir: dir, gameID: gameID, names: names}
}

func (x *Exporter) AddSummaries(sums []phase.Summary) {
	for _, s := range sums {
		x.summaries = append(x.summaries, SummaryRow{
			GameID:         x.gameID,
			Round:          int32(s.Round),
			PlayerID:       int32(s.PlayerID),
			PlayerName:     x.names[s.PlayerID],
			Living:         int32(s.Living),
			Dead:           int32(s.Dead),
			Toxins:         int32(s.Toxins),
			Resistant:      int32(s.Resistant),
			MutationPoints: int32(s.MutationPoints),
			FailedGrowths:  int32(s.FailedGrowths),
			Occupancy:      s.Occupancy,
		})
	}
}

func (x *Exporter) WriteEntries(_ context.Context, entries []journal.Entry) error {
	x.entries = append(x.entries, entries...)
	return nil
}

// Close writes summaries_<game>.parquet and journal_<game>.parquet and
// returns their paths. Empty row sets are skipped.
func (x *Exporter) Close() ([]string, error) {
	var paths []string
	if len(x.summaries) > 0 {
		p := filepath.Join(x.dir, "summaries_"+x.gameID+".parquet")
		if err := writeAtomic(p, x.summaries, "round_summary_v1", x.gameID); err != nil {
			return paths, err
		}
		paths = append(paths, p)
	}
	if len(x.entries) > 0 {
		p := filepath.Join(x.dir, "journal_"+x.gameID+".parquet")
		if err := writeAtomic(p, x.entries, "journal_entry_v1", x.gameID); err != nil {
			return paths, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}

// writeAtomic writes rows to a temp file and renames it into place so
// readers never see a partial file.
func writeAtomic[T any](outPath string, rows []T, schema, gameID string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	tmpPath := outPath + ".tmp"
	_ = os.Remove(tmpPath)

	if err := parquet.WriteFile(tmpPath, rows,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.KeyValueMetadata("schema", schema),
		parquet.KeyValueMetadata("game_id", gameID),
	); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write parquet: %w", err)
	}
	if err := os.Rename(tmpPath, outPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename parquet: %w", err)
	}
	return nil
}
