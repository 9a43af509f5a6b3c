package server

import (
	"context"
	"errors"
	"swiss-tournament/internal/domain"
	"swiss-tournament/internal/middleware"
	tournamentv1 "swiss-tournament/internal/rpc/tournamentv1"
	"swiss-tournament/internal/service"

	"connectrpc.com/connect"
	"github.com/rs/zerolog"
)

type TournamentServer struct {
	svc *service.TournamentService
}

var _ tournamentv1.TournamentServiceHandler = (*TournamentServer)(nil)

func NewTournamentServer(svc *service.TournamentService) *TournamentServer {
	return &TournamentServer{svc: svc}
}

func (s *TournamentServer) RegisterPlayer(ctx context.Context, req *connect.Request[tournamentv1.RegisterPlayerRequest]) (*connect.Response[tournamentv1.RegisterPlayerResponse], error) {
	if err := s.svc.RegisterPlayer(ctx, req.Msg.Name); err != nil {
		return nil, fail(ctx, err)
	}
	return connect.NewResponse(&tournamentv1.RegisterPlayerResponse{}), nil
}

func (s *TournamentServer) ReportMatch(ctx context.Context, req *connect.Request[tournamentv1.ReportMatchRequest]) (*connect.Response[tournamentv1.ReportMatchResponse], error) {
	if err := s.svc.ReportMatch(ctx, req.Msg.WinnerId, req.Msg.LoserId); err != nil {
		return nil, fail(ctx, err)
	}
	return connect.NewResponse(&tournamentv1.ReportMatchResponse{}), nil
}

func (s *TournamentServer) PlayerStandings(ctx context.Context, req *connect.Request[tournamentv1.PlayerStandingsRequest]) (*connect.Response[tournamentv1.PlayerStandingsResponse], error) {
	standings, err := s.svc.PlayerStandings(ctx)
	if err != nil {
		return nil, fail(ctx, err)
	}

	resp := &tournamentv1.PlayerStandingsResponse{
		Standings: make([]*tournamentv1.Standing, len(standings)),
	}
	for i, st := range standings {
		resp.Standings[i] = &tournamentv1.Standing{
			PlayerId: st.PlayerID,
			Name:     st.Name,
			Wins:     int32(st.Wins),
			Matches:  int32(st.Matches),
		}
	}
	return connect.NewResponse(resp), nil
}

func (s *TournamentServer) SwissPairings(ctx context.Context, req *connect.Request[tournamentv1.SwissPairingsRequest]) (*connect.Response[tournamentv1.SwissPairingsResponse], error) {
	pairings, err := s.svc.SwissPairings(ctx)
	if err != nil {
		return nil, fail(ctx, err)
	}
	return connect.NewResponse(&tournamentv1.SwissPairingsResponse{Pairings: toProtoPairings(pairings)}), nil
}

func (s *TournamentServer) CountPlayers(ctx context.Context, req *connect.Request[tournamentv1.CountPlayersRequest]) (*connect.Response[tournamentv1.CountPlayersResponse], error) {
	count, err := s.svc.CountPlayers(ctx)
	if err != nil {
		return nil, fail(ctx, err)
	}
	return connect.NewResponse(&tournamentv1.CountPlayersResponse{Count: int32(count)}), nil
}

func (s *TournamentServer) DeleteMatches(ctx context.Context, req *connect.Request[tournamentv1.DeleteMatchesRequest]) (*connect.Response[tournamentv1.DeleteMatchesResponse], error) {
	if err := s.svc.DeleteMatches(ctx); err != nil {
		return nil, fail(ctx, err)
	}
	return connect.NewResponse(&tournamentv1.DeleteMatchesResponse{}), nil
}

func (s *TournamentServer) DeletePlayers(ctx context.Context, req *connect.Request[tournamentv1.DeletePlayersRequest]) (*connect.Response[tournamentv1.DeletePlayersResponse], error) {
	if err := s.svc.DeletePlayers(ctx); err != nil {
		return nil, fail(ctx, err)
	}
	return connect.NewResponse(&tournamentv1.DeletePlayersResponse{}), nil
}

func (s *TournamentServer) CurrentRound(ctx context.Context, req *connect.Request[tournamentv1.CurrentRoundRequest]) (*connect.Response[tournamentv1.CurrentRoundResponse], error) {
	round, err := s.svc.CurrentRound(ctx)
	if err != nil {
		return nil, fail(ctx, err)
	}

	resp := &tournamentv1.CurrentRoundResponse{}
	if round != nil {
		resp.Round = &tournamentv1.Round{
			Number:   int32(round.Number),
			Status:   string(round.Status),
			Pairings: toProtoPairings(round.Pairings),
			Reported: round.Reported,
		}
	}
	return connect.NewResponse(resp), nil
}

func (s *TournamentServer) CheckIntegrity(ctx context.Context, req *connect.Request[tournamentv1.CheckIntegrityRequest]) (*connect.Response[tournamentv1.CheckIntegrityResponse], error) {
	if err := s.svc.CheckIntegrity(ctx); err != nil {
		return nil, fail(ctx, err)
	}
	return connect.NewResponse(&tournamentv1.CheckIntegrityResponse{}), nil
}

func toProtoPairings(pairings []domain.Pairing) []*tournamentv1.Pairing {
	out := make([]*tournamentv1.Pairing, len(pairings))
	for i, p := range pairings {
		out[i] = &tournamentv1.Pairing{
			PlayerAId:   p.PlayerAID,
			PlayerAName: p.PlayerAName,
			PlayerBId:   p.PlayerBID,
			PlayerBName: p.PlayerBName,
		}
	}
	return out
}

// fail converts err for the wire and tags it with the request id so callers
// can match a failure to the server log.
func fail(ctx context.Context, err error) error {
	connectErr := toConnectError(err)
	requestID := middleware.GetRequestID(ctx)
	if requestID != "" {
		connectErr.Meta().Set(middleware.RequestIDHeader, requestID)
	}

	switch connectErr.Code() {
	case connect.CodeInternal, connect.CodeDataLoss:
		zerolog.Ctx(ctx).Error().
			Err(err).
			Str("request_id", requestID).
			Str("code", connectErr.Code().String()).
			Msg("rpc failed")
	}
	return connectErr
}

func toConnectError(err error) *connect.Error {
	var (
		odd       *domain.OddPlayerCountError
		unknown   *domain.UnknownPlayerError
		violation *domain.InvariantViolationError
	)
	switch {
	case errors.As(err, &odd),
		errors.Is(err, domain.ErrRoundInProgress),
		errors.Is(err, domain.ErrNotPaired):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.As(err, &unknown):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, domain.ErrInvalidName), errors.Is(err, domain.ErrSelfMatch):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.As(err, &violation):
		return connect.NewError(connect.CodeDataLoss, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
