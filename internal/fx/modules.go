package fx

import (
	"database/sql"
	"swiss-tournament/internal/api"
	"swiss-tournament/internal/config"
	"swiss-tournament/internal/database"
	"swiss-tournament/internal/db"
	"swiss-tournament/internal/logger"
	"swiss-tournament/internal/metrics"
	"swiss-tournament/internal/repository"
	"swiss-tournament/internal/scheduler"
	"swiss-tournament/internal/server"
	"swiss-tournament/internal/service"

	"go.uber.org/fx"
)

func ProvideQueries(sqlDB *sql.DB) *db.Queries {
	return db.New(sqlDB)
}

var Module = fx.Options(
	logger.Module,
	config.Module,
	metrics.Module,
	fx.Provide(database.New),
	fx.Provide(ProvideQueries),
	// repos
	fx.Provide(fx.Annotate(repository.NewPlayerRepository, fx.As(new(service.PlayerStore)))),
	fx.Provide(fx.Annotate(repository.NewMatchRepository, fx.As(new(service.MatchStore)))),
	// webhook client
	fx.Provide(fx.Annotate(api.NewWebhookClient, fx.As(new(service.RoundNotifier)))),
	// svc
	fx.Provide(fx.Annotate(
		service.NewTournamentService,
		fx.As(fx.Self()),
		fx.As(new(scheduler.IntegrityChecker)),
	)),
	// jobs
	fx.Provide(scheduler.NewIntegrityJob),
	// server
	fx.Provide(server.NewTournamentServer),
)
