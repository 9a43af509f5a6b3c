package db

import (
	"time"
)

type Player struct {
	ID        int64
	Name      string
	Wins      int64
	Matches   int64
	CreatedAt time.Time
}

type Match struct {
	ID        string
	WinnerID  int64
	LoserID   int64
	Round     int64
	CreatedAt time.Time
}

type Standing struct {
	ID      int64
	Name    string
	Wins    int64
	Matches int64
}
