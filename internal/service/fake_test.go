package service

import (
	"context"
	"swiss-tournament/internal/domain"
	"sync"
)

// FakePlayerStore lets each test override only the calls it cares about.
type FakePlayerStore struct {
	InsertFunc         func(ctx context.Context, name string) (int64, error)
	GetFunc            func(ctx context.Context, id int64) (*domain.Player, error)
	CountFunc          func(ctx context.Context) (int, error)
	ListFunc           func(ctx context.Context) ([]domain.Player, error)
	FetchStandingsFunc func(ctx context.Context) ([]domain.Standing, error)
	DeleteAllFunc      func(ctx context.Context) error
}

func (f *FakePlayerStore) Insert(ctx context.Context, name string) (int64, error) {
	if f.InsertFunc != nil {
		return f.InsertFunc(ctx, name)
	}
	return 1, nil
}

func (f *FakePlayerStore) Get(ctx context.Context, id int64) (*domain.Player, error) {
	if f.GetFunc != nil {
		return f.GetFunc(ctx, id)
	}
	return &domain.Player{ID: id}, nil
}

func (f *FakePlayerStore) List(ctx context.Context) ([]domain.Player, error) {
	if f.ListFunc != nil {
		return f.ListFunc(ctx)
	}
	return nil, nil
}

func (f *FakePlayerStore) Count(ctx context.Context) (int, error) {
	if f.CountFunc != nil {
		return f.CountFunc(ctx)
	}
	return 0, nil
}

func (f *FakePlayerStore) FetchStandings(ctx context.Context) ([]domain.Standing, error) {
	if f.FetchStandingsFunc != nil {
		return f.FetchStandingsFunc(ctx)
	}
	return nil, nil
}

func (f *FakePlayerStore) DeleteAll(ctx context.Context) error {
	if f.DeleteAllFunc != nil {
		return f.DeleteAllFunc(ctx)
	}
	return nil
}

type FakeMatchStore struct {
	RecordFunc    func(ctx context.Context, winnerID, loserID int64, round int) (*domain.Match, error)
	ListFunc      func(ctx context.Context) ([]domain.Match, error)
	DeleteAllFunc func(ctx context.Context) error
	ReconcileFunc func(ctx context.Context) error
}

func (f *FakeMatchStore) Record(ctx context.Context, winnerID, loserID int64, round int) (*domain.Match, error) {
	if f.RecordFunc != nil {
		return f.RecordFunc(ctx, winnerID, loserID, round)
	}
	return &domain.Match{ID: "m", WinnerID: winnerID, LoserID: loserID, Round: round}, nil
}

func (f *FakeMatchStore) List(ctx context.Context) ([]domain.Match, error) {
	if f.ListFunc != nil {
		return f.ListFunc(ctx)
	}
	return nil, nil
}

func (f *FakeMatchStore) DeleteAll(ctx context.Context) error {
	if f.DeleteAllFunc != nil {
		return f.DeleteAllFunc(ctx)
	}
	return nil
}

func (f *FakeMatchStore) Reconcile(ctx context.Context) error {
	if f.ReconcileFunc != nil {
		return f.ReconcileFunc(ctx)
	}
	return nil
}

type sentEvent struct {
	Event string
	Round *domain.Round
}

// FakeNotifier records every event it is asked to send.
type FakeNotifier struct {
	mu     sync.Mutex
	events []sentEvent
	Err    error
}

func (f *FakeNotifier) NotifyRound(ctx context.Context, event string, round *domain.Round) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, sentEvent{Event: event, Round: round})
	return f.Err
}

func (f *FakeNotifier) Events() []sentEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentEvent(nil), f.events...)
}
