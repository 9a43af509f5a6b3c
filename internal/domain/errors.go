package domain

import (
	"errors"
	"fmt"
)

var (
	ErrRoundInProgress = errors.New("a round is in progress")
	ErrNotPaired       = errors.New("players are not an open pairing of the current round")
	ErrSelfMatch       = errors.New("a player cannot play against themselves")
	ErrInvalidName     = errors.New("player name must not be empty")
)

// OddPlayerCountError is returned when pairing a ranking with an odd number of players.
type OddPlayerCountError struct {
	Count int
}

func (e *OddPlayerCountError) Error() string {
	return fmt.Sprintf("cannot pair %d players: count must be even", e.Count)
}

// InvariantViolationError reports a player whose counters cannot be right,
// e.g. more wins than matches played.
type InvariantViolationError struct {
	PlayerID int64
	Wins     int
	Matches  int
	Reason   string
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("player %d has inconsistent record (wins=%d, matches=%d): %s",
		e.PlayerID, e.Wins, e.Matches, e.Reason)
}

type UnknownPlayerError struct {
	PlayerID int64
}

func (e *UnknownPlayerError) Error() string {
	return fmt.Sprintf("player %d does not exist", e.PlayerID)
}
