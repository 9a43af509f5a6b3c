package service

import (
	"context"
	"swiss-tournament/internal/domain"
)

// PlayerStore is the player half of the storage gateway.
type PlayerStore interface {
	Insert(ctx context.Context, name string) (int64, error)
	Get(ctx context.Context, id int64) (*domain.Player, error)
	Count(ctx context.Context) (int, error)
	List(ctx context.Context) ([]domain.Player, error)
	FetchStandings(ctx context.Context) ([]domain.Standing, error)
	DeleteAll(ctx context.Context) error
}

// MatchStore is the match half of the storage gateway. Record must apply
// the match row and both counter updates atomically.
type MatchStore interface {
	Record(ctx context.Context, winnerID, loserID int64, round int) (*domain.Match, error)
	List(ctx context.Context) ([]domain.Match, error)
	DeleteAll(ctx context.Context) error
	Reconcile(ctx context.Context) error
}

type RoundNotifier interface {
	NotifyRound(ctx context.Context, event string, round *domain.Round) error
}
