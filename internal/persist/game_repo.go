package persist

import (
	"context"
	"fmt"

	"github.com/sporefront/colony/internal/phase"
	"go.uber.org/zap"
)

// Game is the setup a simulation was started with.
type Game struct {
	Seed         int64
	Width        int
	Height       int
	Players      []string
	GrowthCycles int
}

type GameRepo struct {
	db *DB
}

func NewGameRepo(db *DB) *GameRepo {
	return &GameRepo{db: db}
}

// Create records a new game and returns its id.
func (r *GameRepo) Create(ctx context.Context, g Game) (int64, error) {
	var id int64
	err := r.db.Pool.QueryRow(ctx,
		`INSERT INTO games (seed, width, height, players, growth_cycles)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		g.Seed, g.Width, g.Height, g.Players, g.GrowthCycles,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create game: %w", err)
	}
	return id, nil
}

// Finish stamps the game as finished after rounds rounds.
func (r *GameRepo) Finish(ctx context.Context, gameID int64, rounds int) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE games SET finished_at = now(), rounds = $2 WHERE id = $1`,
		gameID, rounds,
	)
	if err != nil {
		return fmt.Errorf("finish game %d: %w", gameID, err)
	}
	return nil
}

// WriteRoundSummaries atomically writes one round's summaries.
func (r *GameRepo) WriteRoundSummaries(ctx context.Context, gameID int64, sums []phase.Summary) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("summaries begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, s := range sums {
		if _, err := tx.Exec(ctx,
			`INSERT INTO round_summaries
			   (game_id, round, player_id, living, dead, toxins, resistant, mutation_points, failed_growths, occupancy)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			gameID, s.Round, s.PlayerID, s.Living, s.Dead, s.Toxins, s.Resistant, s.MutationPoints, s.FailedGrowths, s.Occupancy,
		); err != nil {
			return fmt.Errorf("summary insert: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("summaries commit: %w", err)
	}
	r.db.log.Debug("round summaries saved", zap.Int64("game", gameID), zap.Int("rows", len(sums)))
	return nil
}
