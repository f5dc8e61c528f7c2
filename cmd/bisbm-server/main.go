// Command bisbm-server exposes bipartite SBM inference as an HTTP job
// service: upload an edge list, submit annealing jobs, poll for the
// inferred memberships.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mkarlsen/bisbm-service/server/api"
	"github.com/mkarlsen/bisbm-service/server/config"
	"github.com/mkarlsen/bisbm-service/server/service"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	log.Info().Msg("Starting bisbm inference server")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log.Info().
		Str("address", cfg.Server.Address).
		Int("max_workers", cfg.Jobs.MaxWorkers).
		Msg("Configuration loaded")

	datasetService := service.NewDatasetService()
	jobService := service.NewJobService(datasetService, cfg.Jobs.MaxWorkers, cfg.Jobs.ResultTTL, cfg.Jobs.CleanupInterval)

	handlers := api.NewHandlers(datasetService, jobService)

	router := mux.NewRouter()
	api.SetupRoutes(router, handlers)
	router.Use(api.LoggingMiddleware)
	router.Use(api.RecoveryMiddleware)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      cors.AllowAll().Handler(router),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Str("address", cfg.Server.Address).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
