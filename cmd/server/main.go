package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rpattn/moviesapi/internal/auth"
	"github.com/rpattn/moviesapi/internal/config"
	"github.com/rpattn/moviesapi/internal/db"
	"github.com/rpattn/moviesapi/internal/export"
	"github.com/rpattn/moviesapi/internal/graphql"
	"github.com/rpattn/moviesapi/internal/ingestion"
	"github.com/rpattn/moviesapi/internal/logging"
	"github.com/rpattn/moviesapi/internal/repository"
	"github.com/rpattn/moviesapi/internal/rest"
	"github.com/rpattn/moviesapi/internal/service"
)

func main() {
	configPath := flag.String("config", ".", "directory holding config.yaml and .env")
	flag.Parse()

	// Create context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Init(cfg.Log)

	// Run migrations
	if err := db.RunMigrations(cfg.Database); err != nil {
		logging.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Setup database connection
	conn, err := db.NewConnection(ctx, cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer conn.Close()

	// Create repositories and services
	movieRepo := repository.NewMovieRepository(conn)
	ratingRepo := repository.NewRatingRepository(conn)
	movies := service.NewMovieService(movieRepo)
	ratings := service.NewRatingService(ratingRepo)

	tokens, err := auth.NewJWTManager(cfg.Auth.Secret, cfg.Auth.Issuer, cfg.Auth.Audience, cfg.Auth.TokenTTL)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to create token manager")
	}
	enforcer, err := auth.NewEnforcer()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to create authorization enforcer")
	}

	// Create GraphQL schema
	schema, err := graphql.NewSchema(graphql.NewResolver(movies, ratings, enforcer))
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to parse GraphQL schema")
	}

	router := rest.NewRouter(cfg, rest.Dependencies{
		Movies:     movies,
		Ratings:    ratings,
		Export:     export.NewHTTPHandler(export.NewService(ratings, movies)),
		Import:     ingestion.NewHTTPHandler(ingestion.NewService(movies)),
		GraphQL:    graphql.NewHandler(schema),
		Tokens:     tokens,
		Authorizer: enforcer,
		Ping:       conn.Ping,
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in a goroutine
	go func() {
		logging.Info().Str("addr", addr).Msg("starting movies server")
		logging.Info().Str("url", "http://"+addr+"/swagger/index.html").Msg("swagger UI available")
		logging.Info().Str("url", "http://"+addr+"/graphql").Msg("GraphQL endpoint available")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logging.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("server forced to shutdown")
		return
	}

	logging.Info().Msg("server exited")
}
