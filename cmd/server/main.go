package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"swiss-tournament/internal/config"
	"swiss-tournament/internal/constants"
	fxmodules "swiss-tournament/internal/fx"
	"swiss-tournament/internal/metrics"
	"swiss-tournament/internal/middleware"
	tournamentv1 "swiss-tournament/internal/rpc/tournamentv1"
	"swiss-tournament/internal/scheduler"
	"swiss-tournament/internal/server"
	"swiss-tournament/internal/service"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func main() {
	fx.New(
		fxmodules.Module,
		fx.Invoke(runServer),
	).Run()
}

func runServer(
	lc fx.Lifecycle,
	tournamentServer *server.TournamentServer,
	tournament *service.TournamentService,
	integrityJob *scheduler.IntegrityJob,
	m *metrics.Metrics,
	cfg *config.Config,
	db *sql.DB,
	logger zerolog.Logger,
) {
	mux := http.NewServeMux()

	path, handler := tournamentv1.NewTournamentServiceHandler(tournamentServer)
	mux.Handle(path, middleware.CORS()(middleware.RequestID(logger)(handler)))
	mux.Handle("/metrics", m.Handler())

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.ServerPort),
		Handler:           mux,
		ReadHeaderTimeout: constants.RequestTimeout,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := integrityJob.Start(); err != nil {
				return err
			}

			go func() {
				logger.Info().
					Str("addr", srv.Addr).
					Str("db_path", cfg.DBPath).
					Bool("avoid_rematches", cfg.AvoidRematches).
					Bool("webhook", cfg.WebhookURL != "").
					Msg("server starting")
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Fatal().Err(err).Msg("server failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
			defer cancel()

			if err := integrityJob.Stop(); err != nil {
				logger.Warn().Err(err).Msg("error stopping integrity job")
			}

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("server shutdown failed")
				return err
			}

			tournament.Wait()

			if err := db.Close(); err != nil {
				logger.Warn().Err(err).Msg("error closing database connection")
			}
			logger.Info().Msg("server stopped gracefully")
			return nil
		},
	})
}
