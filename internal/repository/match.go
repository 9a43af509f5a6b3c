package repository

import (
	"context"
	"database/sql"
	"fmt"
	"swiss-tournament/internal/db"
	"swiss-tournament/internal/domain"
	"swiss-tournament/internal/swiss"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

type MatchRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
	now     func() time.Time
}

func NewMatchRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *MatchRepository {
	return &MatchRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
		now:     time.Now,
	}
}

// Record stores one result and credits both players in a single
// transaction. If either player is missing nothing is written.
func (r *MatchRepository) Record(ctx context.Context, winnerID, loserID int64, round int) (*domain.Match, error) {
	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate nanoid: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)

	n, err := qtx.CreditWin(ctx, winnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to credit winner %d: %w", winnerID, err)
	}
	if n == 0 {
		return nil, &domain.UnknownPlayerError{PlayerID: winnerID}
	}

	n, err = qtx.CreditLoss(ctx, loserID)
	if err != nil {
		return nil, fmt.Errorf("failed to credit loser %d: %w", loserID, err)
	}
	if n == 0 {
		return nil, &domain.UnknownPlayerError{PlayerID: loserID}
	}

	match := &domain.Match{
		ID:        id,
		WinnerID:  winnerID,
		LoserID:   loserID,
		Round:     round,
		CreatedAt: r.now().UTC(),
	}
	err = qtx.InsertMatch(ctx, db.InsertMatchParams{
		ID:        match.ID,
		WinnerID:  match.WinnerID,
		LoserID:   match.LoserID,
		Round:     int64(match.Round),
		CreatedAt: match.CreatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to insert match %s: %w", match.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit match %s: %w", match.ID, err)
	}

	r.logger.Debug().
		Str("match_id", match.ID).
		Int64("winner_id", winnerID).
		Int64("loser_id", loserID).
		Int("round", round).
		Msg("match recorded")
	return match, nil
}

func (r *MatchRepository) List(ctx context.Context) ([]domain.Match, error) {
	matches, err := r.queries.ListMatches(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}

	result := make([]domain.Match, len(matches))
	for i, m := range matches {
		result[i] = domain.Match{
			ID:        m.ID,
			WinnerID:  m.WinnerID,
			LoserID:   m.LoserID,
			Round:     int(m.Round),
			CreatedAt: m.CreatedAt,
		}
	}
	return result, nil
}

// DeleteAll clears the match history and zeroes every player's record.
func (r *MatchRepository) DeleteAll(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)

	if err := qtx.DeleteAllMatches(ctx); err != nil {
		return fmt.Errorf("failed to delete matches: %w", err)
	}
	if err := qtx.ResetPlayerRecords(ctx); err != nil {
		return fmt.Errorf("failed to reset player records: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit match deletion: %w", err)
	}
	r.logger.Info().Msg("all matches deleted and player records reset")
	return nil
}

// Reconcile checks every player's stored counters against the recorded
// matches and returns the first mismatch as an InvariantViolationError.
func (r *MatchRepository) Reconcile(ctx context.Context) error {
	rows, err := r.queries.CountRecordedResults(ctx)
	if err != nil {
		return fmt.Errorf("failed to count recorded results: %w", err)
	}

	for _, row := range rows {
		if err := swiss.CheckRecord(row.ID, int(row.Wins), int(row.Matches)); err != nil {
			return err
		}
		if row.Wins != row.RecordedWins || row.Matches != row.RecordedMatches {
			r.logger.Warn().
				Int64("player_id", row.ID).
				Int64("wins", row.Wins).
				Int64("matches", row.Matches).
				Int64("recorded_wins", row.RecordedWins).
				Int64("recorded_matches", row.RecordedMatches).
				Msg("player record does not match history")
			reason := fmt.Sprintf("history has %d wins in %d matches", row.RecordedWins, row.RecordedMatches)
			return &domain.InvariantViolationError{
				PlayerID: row.ID,
				Wins:     int(row.Wins),
				Matches:  int(row.Matches),
				Reason:   reason,
			}
		}
	}
	return nil
}
