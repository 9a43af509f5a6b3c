package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"swiss-tournament/internal/db"
	"swiss-tournament/internal/domain"

	"github.com/rs/zerolog"
)

type PlayerRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewPlayerRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *PlayerRepository {
	return &PlayerRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

func (r *PlayerRepository) Insert(ctx context.Context, name string) (int64, error) {
	id, err := r.queries.InsertPlayer(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("failed to insert player: %w", err)
	}
	r.logger.Debug().Int64("player_id", id).Str("name", name).Msg("player inserted")
	return id, nil
}

func (r *PlayerRepository) Get(ctx context.Context, id int64) (*domain.Player, error) {
	player, err := r.queries.GetPlayer(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.UnknownPlayerError{PlayerID: id}
	}
	if err != nil {
		return nil, err
	}

	p := toDomainPlayer(player)
	return &p, nil
}

func (r *PlayerRepository) Count(ctx context.Context) (int, error) {
	count, err := r.queries.CountPlayers(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count players: %w", err)
	}
	return int(count), nil
}

func (r *PlayerRepository) List(ctx context.Context) ([]domain.Player, error) {
	players, err := r.queries.ListPlayers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}

	result := make([]domain.Player, len(players))
	for i, p := range players {
		result[i] = toDomainPlayer(p)
	}
	return result, nil
}

// FetchStandings reads the standings view, already ordered by wins.
func (r *PlayerRepository) FetchStandings(ctx context.Context) ([]domain.Standing, error) {
	rows, err := r.queries.ListStandings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch standings: %w", err)
	}

	result := make([]domain.Standing, len(rows))
	for i, row := range rows {
		result[i] = domain.Standing{
			PlayerID: row.ID,
			Name:     row.Name,
			Wins:     int(row.Wins),
			Matches:  int(row.Matches),
		}
	}
	return result, nil
}

// DeleteAll removes every player together with the match history that
// refers to them.
func (r *PlayerRepository) DeleteAll(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)

	if err := qtx.DeleteAllMatches(ctx); err != nil {
		return fmt.Errorf("failed to delete matches: %w", err)
	}
	if err := qtx.DeleteAllPlayers(ctx); err != nil {
		return fmt.Errorf("failed to delete players: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit player deletion: %w", err)
	}
	r.logger.Info().Msg("all players deleted")
	return nil
}

func toDomainPlayer(p db.Player) domain.Player {
	return domain.Player{
		ID:        p.ID,
		Name:      p.Name,
		Wins:      int(p.Wins),
		Matches:   int(p.Matches),
		CreatedAt: p.CreatedAt,
	}
}
