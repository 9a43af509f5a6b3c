package tournamentv1

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

const TournamentServiceName = "swiss.v1.TournamentService"

const (
	TournamentServiceRegisterPlayerProcedure  = "/swiss.v1.TournamentService/RegisterPlayer"
	TournamentServiceReportMatchProcedure     = "/swiss.v1.TournamentService/ReportMatch"
	TournamentServicePlayerStandingsProcedure = "/swiss.v1.TournamentService/PlayerStandings"
	TournamentServiceSwissPairingsProcedure   = "/swiss.v1.TournamentService/SwissPairings"
	TournamentServiceCountPlayersProcedure    = "/swiss.v1.TournamentService/CountPlayers"
	TournamentServiceDeleteMatchesProcedure   = "/swiss.v1.TournamentService/DeleteMatches"
	TournamentServiceDeletePlayersProcedure   = "/swiss.v1.TournamentService/DeletePlayers"
	TournamentServiceCurrentRoundProcedure    = "/swiss.v1.TournamentService/CurrentRound"
	TournamentServiceCheckIntegrityProcedure  = "/swiss.v1.TournamentService/CheckIntegrity"
)

type TournamentServiceHandler interface {
	RegisterPlayer(context.Context, *connect.Request[RegisterPlayerRequest]) (*connect.Response[RegisterPlayerResponse], error)
	ReportMatch(context.Context, *connect.Request[ReportMatchRequest]) (*connect.Response[ReportMatchResponse], error)
	PlayerStandings(context.Context, *connect.Request[PlayerStandingsRequest]) (*connect.Response[PlayerStandingsResponse], error)
	SwissPairings(context.Context, *connect.Request[SwissPairingsRequest]) (*connect.Response[SwissPairingsResponse], error)
	CountPlayers(context.Context, *connect.Request[CountPlayersRequest]) (*connect.Response[CountPlayersResponse], error)
	DeleteMatches(context.Context, *connect.Request[DeleteMatchesRequest]) (*connect.Response[DeleteMatchesResponse], error)
	DeletePlayers(context.Context, *connect.Request[DeletePlayersRequest]) (*connect.Response[DeletePlayersResponse], error)
	CurrentRound(context.Context, *connect.Request[CurrentRoundRequest]) (*connect.Response[CurrentRoundResponse], error)
	CheckIntegrity(context.Context, *connect.Request[CheckIntegrityRequest]) (*connect.Response[CheckIntegrityResponse], error)
}

// NewTournamentServiceHandler returns the path to mount the service on and
// the handler serving it.
func NewTournamentServiceHandler(svc TournamentServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)

	handlers := map[string]http.Handler{
		TournamentServiceRegisterPlayerProcedure:  connect.NewUnaryHandler(TournamentServiceRegisterPlayerProcedure, svc.RegisterPlayer, opts...),
		TournamentServiceReportMatchProcedure:     connect.NewUnaryHandler(TournamentServiceReportMatchProcedure, svc.ReportMatch, opts...),
		TournamentServicePlayerStandingsProcedure: connect.NewUnaryHandler(TournamentServicePlayerStandingsProcedure, svc.PlayerStandings, opts...),
		TournamentServiceSwissPairingsProcedure:   connect.NewUnaryHandler(TournamentServiceSwissPairingsProcedure, svc.SwissPairings, opts...),
		TournamentServiceCountPlayersProcedure:    connect.NewUnaryHandler(TournamentServiceCountPlayersProcedure, svc.CountPlayers, opts...),
		TournamentServiceDeleteMatchesProcedure:   connect.NewUnaryHandler(TournamentServiceDeleteMatchesProcedure, svc.DeleteMatches, opts...),
		TournamentServiceDeletePlayersProcedure:   connect.NewUnaryHandler(TournamentServiceDeletePlayersProcedure, svc.DeletePlayers, opts...),
		TournamentServiceCurrentRoundProcedure:    connect.NewUnaryHandler(TournamentServiceCurrentRoundProcedure, svc.CurrentRound, opts...),
		TournamentServiceCheckIntegrityProcedure:  connect.NewUnaryHandler(TournamentServiceCheckIntegrityProcedure, svc.CheckIntegrity, opts...),
	}

	return "/" + TournamentServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h, ok := handlers[r.URL.Path]; ok {
			h.ServeHTTP(w, r)
			return
		}
		http.NotFound(w, r)
	})
}

type TournamentServiceClient struct {
	registerPlayer  *connect.Client[RegisterPlayerRequest, RegisterPlayerResponse]
	reportMatch     *connect.Client[ReportMatchRequest, ReportMatchResponse]
	playerStandings *connect.Client[PlayerStandingsRequest, PlayerStandingsResponse]
	swissPairings   *connect.Client[SwissPairingsRequest, SwissPairingsResponse]
	countPlayers    *connect.Client[CountPlayersRequest, CountPlayersResponse]
	deleteMatches   *connect.Client[DeleteMatchesRequest, DeleteMatchesResponse]
	deletePlayers   *connect.Client[DeletePlayersRequest, DeletePlayersResponse]
	currentRound    *connect.Client[CurrentRoundRequest, CurrentRoundResponse]
	checkIntegrity  *connect.Client[CheckIntegrityRequest, CheckIntegrityResponse]
}

func NewTournamentServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *TournamentServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(jsonCodec{})}, opts...)

	return &TournamentServiceClient{
		registerPlayer:  connect.NewClient[RegisterPlayerRequest, RegisterPlayerResponse](httpClient, baseURL+TournamentServiceRegisterPlayerProcedure, opts...),
		reportMatch:     connect.NewClient[ReportMatchRequest, ReportMatchResponse](httpClient, baseURL+TournamentServiceReportMatchProcedure, opts...),
		playerStandings: connect.NewClient[PlayerStandingsRequest, PlayerStandingsResponse](httpClient, baseURL+TournamentServicePlayerStandingsProcedure, opts...),
		swissPairings:   connect.NewClient[SwissPairingsRequest, SwissPairingsResponse](httpClient, baseURL+TournamentServiceSwissPairingsProcedure, opts...),
		countPlayers:    connect.NewClient[CountPlayersRequest, CountPlayersResponse](httpClient, baseURL+TournamentServiceCountPlayersProcedure, opts...),
		deleteMatches:   connect.NewClient[DeleteMatchesRequest, DeleteMatchesResponse](httpClient, baseURL+TournamentServiceDeleteMatchesProcedure, opts...),
		deletePlayers:   connect.NewClient[DeletePlayersRequest, DeletePlayersResponse](httpClient, baseURL+TournamentServiceDeletePlayersProcedure, opts...),
		currentRound:    connect.NewClient[CurrentRoundRequest, CurrentRoundResponse](httpClient, baseURL+TournamentServiceCurrentRoundProcedure, opts...),
		checkIntegrity:  connect.NewClient[CheckIntegrityRequest, CheckIntegrityResponse](httpClient, baseURL+TournamentServiceCheckIntegrityProcedure, opts...),
	}
}

func (c *TournamentServiceClient) RegisterPlayer(ctx context.Context, req *connect.Request[RegisterPlayerRequest]) (*connect.Response[RegisterPlayerResponse], error) {
	return c.registerPlayer.CallUnary(ctx, req)
}

func (c *TournamentServiceClient) ReportMatch(ctx context.Context, req *connect.Request[ReportMatchRequest]) (*connect.Response[ReportMatchResponse], error) {
	return c.reportMatch.CallUnary(ctx, req)
}

func (c *TournamentServiceClient) PlayerStandings(ctx context.Context, req *connect.Request[PlayerStandingsRequest]) (*connect.Response[PlayerStandingsResponse], error) {
	return c.playerStandings.CallUnary(ctx, req)
}

func (c *TournamentServiceClient) SwissPairings(ctx context.Context, req *connect.Request[SwissPairingsRequest]) (*connect.Response[SwissPairingsResponse], error) {
	return c.swissPairings.CallUnary(ctx, req)
}

func (c *TournamentServiceClient) CountPlayers(ctx context.Context, req *connect.Request[CountPlayersRequest]) (*connect.Response[CountPlayersResponse], error) {
	return c.countPlayers.CallUnary(ctx, req)
}

func (c *TournamentServiceClient) DeleteMatches(ctx context.Context, req *connect.Request[DeleteMatchesRequest]) (*connect.Response[DeleteMatchesResponse], error) {
	return c.deleteMatches.CallUnary(ctx, req)
}

func (c *TournamentServiceClient) DeletePlayers(ctx context.Context, req *connect.Request[DeletePlayersRequest]) (*connect.Response[DeletePlayersResponse], error) {
	return c.deletePlayers.CallUnary(ctx, req)
}

func (c *TournamentServiceClient) CurrentRound(ctx context.Context, req *connect.Request[CurrentRoundRequest]) (*connect.Response[CurrentRoundResponse], error) {
	return c.currentRound.CallUnary(ctx, req)
}

func (c *TournamentServiceClient) CheckIntegrity(ctx context.Context, req *connect.Request[CheckIntegrityRequest]) (*connect.Response[CheckIntegrityResponse], error) {
	return c.checkIntegrity.CallUnary(ctx, req)
}
