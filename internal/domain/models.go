package domain

import (
	"time"
)

type Player struct {
	ID        int64
	Name      string
	Wins      int
	Matches   int
	CreatedAt time.Time
}

type Match struct {
	ID        string // nanoid
	WinnerID  int64
	LoserID   int64
	Round     int // 0 when reported outside a round
	CreatedAt time.Time
}

// Standing is one row of the ranking. Never persisted.
type Standing struct {
	PlayerID int64
	Name     string
	Wins     int
	Matches  int
}

// Pairing lists the higher-ranked player first.
type Pairing struct {
	PlayerAID   int64
	PlayerAName string
	PlayerBID   int64
	PlayerBName string
}

func (p Pairing) Involves(a, b int64) bool {
	return (p.PlayerAID == a && p.PlayerBID == b) || (p.PlayerAID == b && p.PlayerBID == a)
}

type RoundStatus string

const (
	RoundInProgress RoundStatus = "in_progress"
	RoundComplete   RoundStatus = "complete"
)

// Round is the round currently tracked in memory. Reported is indexed like Pairings.
type Round struct {
	Number   int
	Status   RoundStatus
	Pairings []Pairing
	Reported []bool
	OpenedAt time.Time
	ClosedAt time.Time
}

func (r *Round) Outstanding() int {
	n := 0
	for _, done := range r.Reported {
		if !done {
			n++
		}
	}
	return n
}
