package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/yair/showscout/pkg/config"
	"github.com/yair/showscout/pkg/integrations"
	"github.com/yair/showscout/pkg/interfaces"
)

func main() {
	// .env is a local-development convenience; absence is not an error
	_ = godotenv.Load()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	logger.Info().Msg("Starting ShowScout...")

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.json"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to load config, using defaults")
		cfg = &config.Config{}
	}
	if err := cfg.Validate(); err != nil {
		// missing credentials degrade the affected endpoints per request
		logger.Warn().Err(err).Msg("Incomplete provider configuration")
	}

	spotifyClient := integrations.NewSpotifyClient()
	expander := integrations.NewSimilarityExpander(spotifyClient, logger)

	// keep the interface var nil unless the client exists so the service
	// sees a true nil, not a typed one
	var searcher interfaces.EventSearcher
	if tmClient, err := integrations.NewTicketmasterClient(cfg.Ticketmaster.APIKey); err != nil {
		logger.Warn().Err(err).Msg("Ticketmaster client disabled")
	} else {
		searcher = integrations.NewEventFanout(tmClient, logger)
	}

	showService := interfaces.NewShowService(spotifyClient, searcher, expander)

	showHandler := interfaces.NewShowHandler(showService, logger)
	authHandler := interfaces.NewAuthHandler(cfg.Spotify, logger)

	router := mux.NewRouter()
	showHandler.RegisterRoutes(router)
	authHandler.RegisterRoutes(router)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.Server.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server stopped. Go catch a show.")
}
