// Package tournamentv1 defines the swiss.v1.TournamentService RPC surface:
// request/response messages, the connect handler and a typed client. Messages
// travel as JSON.
package tournamentv1

type RegisterPlayerRequest struct {
	Name string `json:"name"`
}

type RegisterPlayerResponse struct{}

type ReportMatchRequest struct {
	WinnerId int64 `json:"winnerId"`
	LoserId  int64 `json:"loserId"`
}

type ReportMatchResponse struct{}

type PlayerStandingsRequest struct{}

type Standing struct {
	PlayerId int64  `json:"playerId"`
	Name     string `json:"name"`
	Wins     int32  `json:"wins"`
	Matches  int32  `json:"matches"`
}

type PlayerStandingsResponse struct {
	Standings []*Standing `json:"standings"`
}

type SwissPairingsRequest struct{}

type Pairing struct {
	PlayerAId   int64  `json:"playerAId"`
	PlayerAName string `json:"playerAName"`
	PlayerBId   int64  `json:"playerBId"`
	PlayerBName string `json:"playerBName"`
}

type SwissPairingsResponse struct {
	Pairings []*Pairing `json:"pairings"`
}

type CountPlayersRequest struct{}

type CountPlayersResponse struct {
	Count int32 `json:"count"`
}

type DeleteMatchesRequest struct{}

type DeleteMatchesResponse struct{}

type DeletePlayersRequest struct{}

type DeletePlayersResponse struct{}

type CurrentRoundRequest struct{}

type Round struct {
	Number   int32      `json:"number"`
	Status   string     `json:"status"`
	Pairings []*Pairing `json:"pairings"`
	Reported []bool     `json:"reported"`
}

// Round is nil before the first pairings are issued.
type CurrentRoundResponse struct {
	Round *Round `json:"round,omitempty"`
}

type CheckIntegrityRequest struct{}

type CheckIntegrityResponse struct{}
