// Package swiss holds the pure parts of a Swiss-system tournament: ranking
// players, pairing a ranking for the next round and tracking which round is
// currently being played. Nothing in here touches storage.
package swiss

import (
	"cmp"
	"slices"
	"swiss-tournament/internal/domain"
)

// Rank orders players by wins, most first. Players on equal wins are ordered
// by id so the same records always produce the same ranking.
func Rank(players []domain.Player) ([]domain.Standing, error) {
	records := make([]domain.Standing, len(players))
	for i, p := range players {
		records[i] = domain.Standing{
			PlayerID: p.ID,
			Name:     p.Name,
			Wins:     p.Wins,
			Matches:  p.Matches,
		}
	}
	return RankStandings(records)
}

// RankStandings validates and orders standings rows as Rank does. The input
// slice is not modified.
func RankStandings(records []domain.Standing) ([]domain.Standing, error) {
	seen := make(map[int64]struct{}, len(records))
	for _, r := range records {
		if err := CheckRecord(r.PlayerID, r.Wins, r.Matches); err != nil {
			return nil, err
		}
		if _, dup := seen[r.PlayerID]; dup {
			return nil, &domain.InvariantViolationError{
				PlayerID: r.PlayerID,
				Wins:     r.Wins,
				Matches:  r.Matches,
				Reason:   "player listed more than once",
			}
		}
		seen[r.PlayerID] = struct{}{}
	}

	standings := slices.Clone(records)
	if standings == nil {
		standings = []domain.Standing{}
	}
	slices.SortFunc(standings, compareStandings)
	return standings, nil
}

func compareStandings(a, b domain.Standing) int {
	if c := cmp.Compare(b.Wins, a.Wins); c != 0 {
		return c
	}
	return cmp.Compare(a.PlayerID, b.PlayerID)
}

// CheckRecord validates a single win/match record.
func CheckRecord(playerID int64, wins, matches int) error {
	var reason string
	switch {
	case wins < 0 || matches < 0:
		reason = "negative counter"
	case wins > matches:
		reason = "more wins than matches"
	default:
		return nil
	}
	return &domain.InvariantViolationError{
		PlayerID: playerID,
		Wins:     wins,
		Matches:  matches,
		Reason:   reason,
	}
}
