package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"swiss-tournament/internal/api"
	"swiss-tournament/internal/config"
	"swiss-tournament/internal/constants"
	"swiss-tournament/internal/domain"
	"swiss-tournament/internal/metrics"
	"swiss-tournament/internal/swiss"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type TournamentService struct {
	players        PlayerStore
	matches        MatchStore
	notifier       RoundNotifier
	metrics        *metrics.Metrics
	rounds         *swiss.RoundTracker
	avoidRematches bool
	logger         zerolog.Logger

	// gate orders round transitions against the storage writes they depend
	// on: registration, pairing and resets hold it exclusively, match
	// reports share it.
	gate       sync.RWMutex
	background sync.WaitGroup
}

func NewTournamentService(players PlayerStore, matches MatchStore, notifier RoundNotifier, m *metrics.Metrics, cfg *config.Config, logger zerolog.Logger) *TournamentService {
	return &TournamentService{
		players:        players,
		matches:        matches,
		notifier:       notifier,
		metrics:        m,
		rounds:         swiss.NewRoundTracker(),
		avoidRematches: cfg.AvoidRematches,
		logger:         logger,
	}
}

// RegisterPlayer adds a player with an empty record. Names need not be
// unique. Registration is closed while a round is being played.
func (s *TournamentService) RegisterPlayer(ctx context.Context, name string) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	name = strings.TrimSpace(name)
	if name == "" {
		return domain.ErrInvalidName
	}

	s.gate.Lock()
	defer s.gate.Unlock()

	if s.rounds.InProgress() {
		s.logger.Warn().Str("name", name).Msg("registration rejected, round in progress")
		return domain.ErrRoundInProgress
	}

	id, err := s.players.Insert(ctx, name)
	if err != nil {
		s.logger.Error().Err(err).Str("name", name).Msg("failed to register player")
		return fmt.Errorf("failed to register player: %w", err)
	}

	s.metrics.PlayerRegistered()
	s.logger.Info().Int64("player_id", id).Str("name", name).Msg("player registered")
	return nil
}

// ReportMatch records that winnerID beat loserID. While a round is open
// the two players must be one of its unreported pairings. A player that does
// not exist is reported as UnknownPlayerError ahead of ErrNotPaired.
func (s *TournamentService) ReportMatch(ctx context.Context, winnerID, loserID int64) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if winnerID == loserID {
		return domain.ErrSelfMatch
	}

	s.gate.RLock()
	defer s.gate.RUnlock()

	round, idx, err := s.rounds.Claim(winnerID, loserID)
	if errors.Is(err, domain.ErrNotPaired) {
		if unknown := s.findUnknown(ctx, winnerID, loserID); unknown != nil {
			err = unknown
		}
	}
	if err != nil {
		s.logger.Warn().
			Err(err).
			Int64("winner_id", winnerID).
			Int64("loser_id", loserID).
			Msg("match report rejected")
		return err
	}

	match, err := s.matches.Record(ctx, winnerID, loserID, round)
	if err != nil {
		if idx >= 0 {
			s.rounds.Release(round, idx)
		}
		s.logger.Error().
			Err(err).
			Int64("winner_id", winnerID).
			Int64("loser_id", loserID).
			Msg("failed to record match")
		return fmt.Errorf("failed to record match: %w", err)
	}

	s.logger.Info().
		Str("match_id", match.ID).
		Int64("winner_id", winnerID).
		Int64("loser_id", loserID).
		Int("round", round).
		Msg("match reported")

	if idx < 0 {
		s.metrics.MatchReported(metrics.KindAdHoc)
		return nil
	}
	s.metrics.MatchReported(metrics.KindPaired)

	if s.rounds.Confirm(round, idx) {
		completed := s.rounds.Current()
		s.metrics.RoundCompleted()
		s.logger.Info().Int("round", completed.Number).Msg("round complete")
		s.notify(api.EventRoundCompleted, completed)
	}
	return nil
}

// PlayerStandings ranks every registered player by wins.
func (s *TournamentService) PlayerStandings(ctx context.Context) ([]domain.Standing, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	rows, err := s.players.FetchStandings(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to fetch standings")
		return nil, err
	}

	standings, err := swiss.RankStandings(rows)
	if err != nil {
		s.logger.Error().Err(err).Msg("standings failed validation")
		return nil, err
	}
	return standings, nil
}

// SwissPairings returns the pairings of the round in progress, or pairs the
// current standings and opens the next round.
func (s *TournamentService) SwissPairings(ctx context.Context) ([]domain.Pairing, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	s.gate.Lock()
	defer s.gate.Unlock()

	if current := s.rounds.Current(); current != nil && current.Status == domain.RoundInProgress {
		s.logger.Debug().Int("round", current.Number).Msg("returning pairings of open round")
		return current.Pairings, nil
	}

	var standings []domain.Standing
	var history []domain.Match

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		standings, err = s.PlayerStandings(gctx)
		return err
	})
	if s.avoidRematches {
		g.Go(func() error {
			var err error
			history, err = s.matches.List(gctx)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	played := swiss.NewHistory(history)
	var pairings []domain.Pairing
	var err error
	if s.avoidRematches {
		pairings, err = swiss.PairAvoidingRematches(standings, played)
	} else {
		pairings, err = swiss.Pair(standings)
	}
	if err != nil {
		s.logger.Warn().Err(err).Int("players", len(standings)).Msg("cannot pair standings")
		return nil, err
	}
	if len(pairings) == 0 {
		return pairings, nil
	}

	round, err := s.rounds.Open(pairings)
	if err != nil {
		return nil, err
	}

	rematches := played.Rematches(round.Pairings)
	s.metrics.RoundOpened(round.Number, s.avoidRematches && rematches > 0)
	s.logger.Info().
		Int("round", round.Number).
		Int("pairings", len(round.Pairings)).
		Int("rematches", rematches).
		Bool("avoid_rematches", s.avoidRematches).
		Msg("round opened")
	s.notify(api.EventRoundOpened, round)

	return round.Pairings, nil
}

func (s *TournamentService) CountPlayers(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	count, err := s.players.Count(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to count players")
		return 0, err
	}
	return count, nil
}

// DeleteMatches clears all results and zeroes every record. Players stay
// registered. Any round in progress is abandoned.
func (s *TournamentService) DeleteMatches(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	s.gate.Lock()
	defer s.gate.Unlock()

	if err := s.matches.DeleteAll(ctx); err != nil {
		s.logger.Error().Err(err).Msg("failed to delete matches")
		return err
	}
	s.rounds.Reset()
	s.metrics.RoundsReset()
	s.logger.Info().Msg("match history cleared")
	return nil
}

// DeletePlayers removes all players and their history.
func (s *TournamentService) DeletePlayers(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	s.gate.Lock()
	defer s.gate.Unlock()

	if err := s.players.DeleteAll(ctx); err != nil {
		s.logger.Error().Err(err).Msg("failed to delete players")
		return err
	}
	s.rounds.Reset()
	s.metrics.RoundsReset()
	s.logger.Info().Msg("players cleared")
	return nil
}

// CurrentRound returns the latest round, or nil before any pairings were
// issued.
func (s *TournamentService) CurrentRound(ctx context.Context) (*domain.Round, error) {
	return s.rounds.Current(), nil
}

// CheckIntegrity verifies that every player's record is well formed and
// agrees with the stored match history.
func (s *TournamentService) CheckIntegrity(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	err := s.checkIntegrity(ctx)
	s.metrics.IntegrityChecked(err)
	if err != nil {
		s.logger.Error().Err(err).Msg("integrity check failed")
		return err
	}
	return nil
}

func (s *TournamentService) checkIntegrity(ctx context.Context) error {
	players, err := s.players.List(ctx)
	if err != nil {
		return err
	}
	standings, err := swiss.Rank(players)
	if err != nil {
		return err
	}
	if err := s.matches.Reconcile(ctx); err != nil {
		return err
	}

	s.logger.Debug().Int("players", len(standings)).Msg("integrity check passed")
	return nil
}

// findUnknown returns an UnknownPlayerError for the first of the ids that is
// not registered, or nil.
func (s *TournamentService) findUnknown(ctx context.Context, ids ...int64) error {
	for _, id := range ids {
		_, err := s.players.Get(ctx, id)
		var unknown *domain.UnknownPlayerError
		if errors.As(err, &unknown) {
			return unknown
		}
	}
	return nil
}

// Wait blocks until pending round notifications have been delivered.
func (s *TournamentService) Wait() {
	s.background.Wait()
}

func (s *TournamentService) notify(event string, round *domain.Round) {
	if s.notifier == nil {
		return
	}

	s.background.Add(1)
	go func() {
		defer s.background.Done()

		ctx, cancel := context.WithTimeout(context.Background(), constants.WebhookTimeout)
		defer cancel()

		if err := s.notifier.NotifyRound(ctx, event, round); err != nil {
			s.logger.Warn().Err(err).Str("event", event).Int("round", round.Number).Msg("round notification failed")
		}
	}()
}
