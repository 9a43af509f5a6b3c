package service

import (
	"context"
	"errors"
	"swiss-tournament/internal/api"
	"swiss-tournament/internal/config"
	"swiss-tournament/internal/domain"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(players *FakePlayerStore, matches *FakeMatchStore, notifier *FakeNotifier, avoidRematches bool) *TournamentService {
	return NewTournamentService(
		players,
		matches,
		notifier,
		nil,
		&config.Config{AvoidRematches: avoidRematches},
		zerolog.Nop(),
	)
}

func fourStandings() []domain.Standing {
	return []domain.Standing{
		{PlayerID: 1, Name: "A", Wins: 1, Matches: 1},
		{PlayerID: 3, Name: "C", Wins: 1, Matches: 1},
		{PlayerID: 2, Name: "B", Wins: 0, Matches: 1},
		{PlayerID: 4, Name: "D", Wins: 0, Matches: 1},
	}
}

func TestRegisterPlayer(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		insertErr  error
		wantName   string
		wantErr    error
		wantInsert bool
	}{
		{
			name:       "registers trimmed name",
			input:      "  Markov Chaney ",
			wantName:   "Markov Chaney",
			wantInsert: true,
		},
		{
			name:    "blank name",
			input:   "   ",
			wantErr: domain.ErrInvalidName,
		},
		{
			name:       "storage failure",
			input:      "A",
			insertErr:  errors.New("disk full"),
			wantInsert: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var inserted string
			players := &FakePlayerStore{
				InsertFunc: func(ctx context.Context, name string) (int64, error) {
					inserted = name
					return 7, tt.insertErr
				},
			}
			svc := newTestService(players, &FakeMatchStore{}, &FakeNotifier{}, true)

			err := svc.RegisterPlayer(context.Background(), tt.input)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.insertErr != nil:
				assert.ErrorIs(t, err, tt.insertErr)
			default:
				assert.NoError(t, err)
				assert.Equal(t, tt.wantName, inserted)
			}
			if !tt.wantInsert {
				assert.Empty(t, inserted)
			}
		})
	}
}

func TestRegisterPlayerClosedDuringRound(t *testing.T) {
	players := &FakePlayerStore{
		FetchStandingsFunc: func(ctx context.Context) ([]domain.Standing, error) {
			return fourStandings(), nil
		},
		InsertFunc: func(ctx context.Context, name string) (int64, error) {
			t.Fatal("insert must not be called while a round is open")
			return 0, nil
		},
	}
	svc := newTestService(players, &FakeMatchStore{}, &FakeNotifier{}, false)

	_, err := svc.SwissPairings(context.Background())
	require.NoError(t, err)

	err = svc.RegisterPlayer(context.Background(), "Late Comer")
	assert.ErrorIs(t, err, domain.ErrRoundInProgress)
}

func TestReportMatch(t *testing.T) {
	tests := []struct {
		name      string
		winner    int64
		loser     int64
		recordErr error
		wantErr   bool
		wantAs    any
		wantIs    error
	}{
		{
			name:   "ad-hoc result",
			winner: 1,
			loser:  2,
		},
		{
			name:    "self match",
			winner:  3,
			loser:   3,
			wantErr: true,
			wantIs:  domain.ErrSelfMatch,
		},
		{
			name:      "unknown player",
			winner:    1,
			loser:     99,
			recordErr: &domain.UnknownPlayerError{PlayerID: 99},
			wantErr:   true,
			wantAs:    new(*domain.UnknownPlayerError),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotRound = -1
			matches := &FakeMatchStore{
				RecordFunc: func(ctx context.Context, winnerID, loserID int64, round int) (*domain.Match, error) {
					gotRound = round
					if tt.recordErr != nil {
						return nil, tt.recordErr
					}
					return &domain.Match{ID: "m1", WinnerID: winnerID, LoserID: loserID, Round: round}, nil
				},
			}
			svc := newTestService(&FakePlayerStore{}, matches, &FakeNotifier{}, true)

			err := svc.ReportMatch(context.Background(), tt.winner, tt.loser)

			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, 0, gotRound)
				return
			}
			require.Error(t, err)
			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
				assert.Equal(t, -1, gotRound, "store must not be touched")
			}
			if tt.wantAs != nil {
				assert.ErrorAs(t, err, tt.wantAs)
			}
		})
	}
}

func TestRoundFlow(t *testing.T) {
	ctx := context.Background()
	notifier := &FakeNotifier{}
	var recordedRounds []int
	players := &FakePlayerStore{
		FetchStandingsFunc: func(ctx context.Context) ([]domain.Standing, error) {
			return fourStandings(), nil
		},
	}
	matches := &FakeMatchStore{
		RecordFunc: func(ctx context.Context, winnerID, loserID int64, round int) (*domain.Match, error) {
			recordedRounds = append(recordedRounds, round)
			return &domain.Match{ID: "m", WinnerID: winnerID, LoserID: loserID, Round: round}, nil
		},
	}
	svc := newTestService(players, matches, notifier, false)

	pairings, err := svc.SwissPairings(ctx)
	require.NoError(t, err)
	svc.Wait()
	require.Len(t, pairings, 2)
	assert.True(t, pairings[0].Involves(1, 3))
	assert.True(t, pairings[1].Involves(2, 4))

	again, err := svc.SwissPairings(ctx)
	require.NoError(t, err)
	assert.Equal(t, pairings, again, "open round is returned unchanged")

	round, err := svc.CurrentRound(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, round.Number)
	assert.Equal(t, domain.RoundInProgress, round.Status)

	err = svc.ReportMatch(ctx, 1, 2)
	assert.ErrorIs(t, err, domain.ErrNotPaired)

	require.NoError(t, svc.ReportMatch(ctx, 3, 1))
	err = svc.ReportMatch(ctx, 1, 3)
	assert.ErrorIs(t, err, domain.ErrNotPaired, "pairing already reported")

	require.NoError(t, svc.ReportMatch(ctx, 2, 4))
	svc.Wait()
	assert.Equal(t, []int{1, 1}, recordedRounds)

	round, err = svc.CurrentRound(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.RoundComplete, round.Status)

	_, err = svc.SwissPairings(ctx)
	require.NoError(t, err)
	round, err = svc.CurrentRound(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, round.Number)

	svc.Wait()
	events := notifier.Events()
	require.Len(t, events, 3)
	assert.Equal(t, api.EventRoundOpened, events[0].Event)
	assert.Equal(t, api.EventRoundCompleted, events[1].Event)
	assert.Equal(t, 1, events[1].Round.Number)
	assert.Equal(t, api.EventRoundOpened, events[2].Event)
	assert.Equal(t, 2, events[2].Round.Number)
}

func TestReportMatchFailureReleasesPairing(t *testing.T) {
	ctx := context.Background()
	fail := true
	players := &FakePlayerStore{
		FetchStandingsFunc: func(ctx context.Context) ([]domain.Standing, error) {
			return fourStandings(), nil
		},
	}
	matches := &FakeMatchStore{
		RecordFunc: func(ctx context.Context, winnerID, loserID int64, round int) (*domain.Match, error) {
			if fail {
				return nil, errors.New("database is locked")
			}
			return &domain.Match{ID: "m", WinnerID: winnerID, LoserID: loserID, Round: round}, nil
		},
	}
	svc := newTestService(players, matches, &FakeNotifier{}, false)

	_, err := svc.SwissPairings(ctx)
	require.NoError(t, err)

	require.Error(t, svc.ReportMatch(ctx, 1, 3))

	fail = false
	assert.NoError(t, svc.ReportMatch(ctx, 1, 3), "pairing can be reported again after a failed write")
}

func TestSwissPairings(t *testing.T) {
	tests := []struct {
		name           string
		standings      []domain.Standing
		history        []domain.Match
		avoidRematches bool
		want           [][2]int64
		wantOdd        bool
	}{
		{
			name:      "no players",
			standings: nil,
			want:      [][2]int64{},
		},
		{
			name:      "adjacent pairing",
			standings: fourStandings(),
			want:      [][2]int64{{1, 3}, {2, 4}},
		},
		{
			name:      "odd field",
			standings: fourStandings()[:3],
			wantOdd:   true,
		},
		{
			name:           "rematch avoided",
			standings:      fourStandings(),
			history:        []domain.Match{{WinnerID: 3, LoserID: 1}},
			avoidRematches: true,
			want:           [][2]int64{{1, 2}, {3, 4}},
		},
		{
			name:           "history ignored when avoidance is off",
			standings:      fourStandings(),
			history:        []domain.Match{{WinnerID: 3, LoserID: 1}},
			avoidRematches: false,
			want:           [][2]int64{{1, 3}, {2, 4}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			players := &FakePlayerStore{
				FetchStandingsFunc: func(ctx context.Context) ([]domain.Standing, error) {
					return tt.standings, nil
				},
			}
			matches := &FakeMatchStore{
				ListFunc: func(ctx context.Context) ([]domain.Match, error) {
					return tt.history, nil
				},
			}
			svc := newTestService(players, matches, &FakeNotifier{}, tt.avoidRematches)

			pairings, err := svc.SwissPairings(context.Background())

			if tt.wantOdd {
				var odd *domain.OddPlayerCountError
				require.ErrorAs(t, err, &odd)
				assert.Equal(t, 3, odd.Count)
				round, _ := svc.CurrentRound(context.Background())
				assert.Nil(t, round, "no round opens on failure")
				return
			}

			require.NoError(t, err)
			got := make([][2]int64, len(pairings))
			for i, p := range pairings {
				got[i] = [2]int64{p.PlayerAID, p.PlayerBID}
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSwissPairingsRejectsCorruptStandings(t *testing.T) {
	players := &FakePlayerStore{
		FetchStandingsFunc: func(ctx context.Context) ([]domain.Standing, error) {
			return []domain.Standing{
				{PlayerID: 1, Name: "A", Wins: 2, Matches: 1},
				{PlayerID: 2, Name: "B", Wins: 0, Matches: 1},
			}, nil
		},
	}
	svc := newTestService(players, &FakeMatchStore{}, &FakeNotifier{}, true)

	_, err := svc.SwissPairings(context.Background())
	var violation *domain.InvariantViolationError
	assert.ErrorAs(t, err, &violation)
}

func TestDeleteResetsRounds(t *testing.T) {
	tests := []struct {
		name   string
		delete func(*TournamentService) error
	}{
		{name: "delete matches", delete: func(s *TournamentService) error { return s.DeleteMatches(context.Background()) }},
		{name: "delete players", delete: func(s *TournamentService) error { return s.DeletePlayers(context.Background()) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			players := &FakePlayerStore{
				FetchStandingsFunc: func(ctx context.Context) ([]domain.Standing, error) {
					return fourStandings(), nil
				},
			}
			svc := newTestService(players, &FakeMatchStore{}, &FakeNotifier{}, false)

			_, err := svc.SwissPairings(context.Background())
			require.NoError(t, err)

			require.NoError(t, tt.delete(svc))

			round, err := svc.CurrentRound(context.Background())
			require.NoError(t, err)
			assert.Nil(t, round)
			assert.NoError(t, svc.RegisterPlayer(context.Background(), "New Player"))
		})
	}
}

func TestDeleteFailureKeepsRound(t *testing.T) {
	players := &FakePlayerStore{
		FetchStandingsFunc: func(ctx context.Context) ([]domain.Standing, error) {
			return fourStandings(), nil
		},
	}
	matches := &FakeMatchStore{
		DeleteAllFunc: func(ctx context.Context) error { return errors.New("locked") },
	}
	svc := newTestService(players, matches, &FakeNotifier{}, false)

	_, err := svc.SwissPairings(context.Background())
	require.NoError(t, err)

	assert.Error(t, svc.DeleteMatches(context.Background()))
	round, _ := svc.CurrentRound(context.Background())
	require.NotNil(t, round)
	assert.Equal(t, domain.RoundInProgress, round.Status)
}

func TestCheckIntegrity(t *testing.T) {
	violation := &domain.InvariantViolationError{PlayerID: 4, Wins: 1, Matches: 1, Reason: "history has 0 wins in 1 matches"}
	matches := &FakeMatchStore{
		ReconcileFunc: func(ctx context.Context) error { return violation },
	}
	svc := newTestService(&FakePlayerStore{}, matches, &FakeNotifier{}, true)

	err := svc.CheckIntegrity(context.Background())
	assert.ErrorIs(t, err, violation)
}

func TestNotificationFailureDoesNotFailCaller(t *testing.T) {
	players := &FakePlayerStore{
		FetchStandingsFunc: func(ctx context.Context) ([]domain.Standing, error) {
			return fourStandings(), nil
		},
	}
	notifier := &FakeNotifier{Err: errors.New("connection refused")}
	svc := newTestService(players, &FakeMatchStore{}, notifier, false)

	_, err := svc.SwissPairings(context.Background())
	require.NoError(t, err)
	svc.Wait()
	assert.Len(t, notifier.Events(), 1)
}

func TestPairingWaitsForRegistrationInFlight(t *testing.T) {
	ctx := context.Background()

	var mu sync.Mutex
	field := fourStandings()[:3]
	insertStarted := make(chan struct{})
	releaseInsert := make(chan struct{})
	players := &FakePlayerStore{
		InsertFunc: func(ctx context.Context, name string) (int64, error) {
			close(insertStarted)
			<-releaseInsert
			mu.Lock()
			defer mu.Unlock()
			field = append(field, domain.Standing{PlayerID: 5, Name: name})
			return 5, nil
		},
		FetchStandingsFunc: func(ctx context.Context) ([]domain.Standing, error) {
			mu.Lock()
			defer mu.Unlock()
			return append([]domain.Standing(nil), field...), nil
		},
	}
	svc := newTestService(players, &FakeMatchStore{}, &FakeNotifier{}, false)
	t.Cleanup(svc.Wait)

	registered := make(chan error, 1)
	go func() { registered <- svc.RegisterPlayer(ctx, "Late Comer") }()
	<-insertStarted

	type result struct {
		pairings []domain.Pairing
		err      error
	}
	paired := make(chan result, 1)
	go func() {
		p, err := svc.SwissPairings(ctx)
		paired <- result{pairings: p, err: err}
	}()

	assert.Never(t, func() bool { return len(paired) > 0 }, 50*time.Millisecond, 5*time.Millisecond)

	close(releaseInsert)
	require.NoError(t, <-registered)

	res := <-paired
	require.NoError(t, res.err)
	require.Len(t, res.pairings, 2)
	assert.True(t, res.pairings[1].Involves(2, 5), "late registrant is in the round")
}

func TestResetWaitsForPairingInFlight(t *testing.T) {
	ctx := context.Background()

	fetchStarted := make(chan struct{})
	releaseFetch := make(chan struct{})
	var once sync.Once
	var deleted atomic.Bool
	players := &FakePlayerStore{
		FetchStandingsFunc: func(ctx context.Context) ([]domain.Standing, error) {
			once.Do(func() { close(fetchStarted) })
			<-releaseFetch
			return fourStandings(), nil
		},
		DeleteAllFunc: func(ctx context.Context) error {
			deleted.Store(true)
			return nil
		},
	}
	svc := newTestService(players, &FakeMatchStore{}, &FakeNotifier{}, false)
	t.Cleanup(svc.Wait)

	paired := make(chan error, 1)
	go func() {
		_, err := svc.SwissPairings(ctx)
		paired <- err
	}()
	<-fetchStarted

	reset := make(chan error, 1)
	go func() { reset <- svc.DeletePlayers(ctx) }()

	assert.Never(t, deleted.Load, 50*time.Millisecond, 5*time.Millisecond)

	close(releaseFetch)
	require.NoError(t, <-paired)
	require.NoError(t, <-reset)

	round, err := svc.CurrentRound(ctx)
	require.NoError(t, err)
	assert.Nil(t, round, "reset applies after the round it raced with")
	assert.NoError(t, svc.RegisterPlayer(ctx, "New Player"))
}

func TestReportMatchUnknownPlayerDuringRound(t *testing.T) {
	ctx := context.Background()
	players := &FakePlayerStore{
		FetchStandingsFunc: func(ctx context.Context) ([]domain.Standing, error) {
			return fourStandings(), nil
		},
		GetFunc: func(ctx context.Context, id int64) (*domain.Player, error) {
			if id == 99 {
				return nil, &domain.UnknownPlayerError{PlayerID: id}
			}
			return &domain.Player{ID: id}, nil
		},
	}
	matches := &FakeMatchStore{
		RecordFunc: func(ctx context.Context, winnerID, loserID int64, round int) (*domain.Match, error) {
			t.Fatal("nothing may be recorded")
			return nil, nil
		},
	}
	svc := newTestService(players, matches, &FakeNotifier{}, false)

	_, err := svc.SwissPairings(ctx)
	require.NoError(t, err)

	err = svc.ReportMatch(ctx, 1, 99)
	var unknown *domain.UnknownPlayerError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, int64(99), unknown.PlayerID)

	err = svc.ReportMatch(ctx, 1, 2)
	assert.ErrorIs(t, err, domain.ErrNotPaired)
}

func TestCheckIntegrityRejectsMalformedRecords(t *testing.T) {
	players := &FakePlayerStore{
		ListFunc: func(ctx context.Context) ([]domain.Player, error) {
			return []domain.Player{{ID: 2, Name: "B", Wins: 3, Matches: 1}}, nil
		},
	}
	matches := &FakeMatchStore{
		ReconcileFunc: func(ctx context.Context) error {
			t.Fatal("reconcile runs only on well-formed records")
			return nil
		},
	}
	svc := newTestService(players, matches, &FakeNotifier{}, true)

	err := svc.CheckIntegrity(context.Background())
	var violation *domain.InvariantViolationError
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, int64(2), violation.PlayerID)
}
