// Horóscopo backend - serves daily horoscope content generated on demand
// from planetary positions.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/meuhoroscopo/backend/internal/api"
	"github.com/meuhoroscopo/backend/internal/astronomy"
	"github.com/meuhoroscopo/backend/internal/auth"
	"github.com/meuhoroscopo/backend/internal/config"
	"github.com/meuhoroscopo/backend/internal/content"
	"github.com/meuhoroscopo/backend/internal/horoscope"
	"github.com/meuhoroscopo/backend/internal/llm"
	"github.com/meuhoroscopo/backend/internal/scheduler"
	"github.com/meuhoroscopo/backend/internal/storage"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Setup logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	log.Info().Msg("Horóscopo backend starting")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx := context.Background()

	// Initialize storage
	store, err := storage.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Postgres")
	}
	defer store.Close()

	// Initialize AstronomyAPI client with its positions cache
	astroClient := astronomy.NewClient(astronomy.Config{
		AppID:     cfg.AstroAppID,
		AppSecret: cfg.AstroAppSecret,
		BaseURL:   cfg.AstroBaseURL,
		Cache:     astronomy.NewCache(cfg.AstroCacheTTL, cfg.AstroCacheSize),
	})
	log.Info().Msg("AstronomyAPI client initialized")

	// Initialize OpenAI client
	llmClient := llm.NewClient(llm.Config{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Model:   cfg.OpenAIModel,
	})
	log.Info().Str("model", cfg.OpenAIModel).Msg("LLM client initialized")

	// Initialize content generator and horoscope service
	generator := content.NewGenerator(astroClient, llmClient)
	service := horoscope.NewService(store, generator)
	log.Info().Msg("Horoscope service initialized")

	// Initialize anonymous sessions
	sessions := auth.NewManager(cfg.SessionSecret)

	// Initialize scheduler
	var sched *scheduler.Scheduler
	if cfg.PregenerationEnabled {
		sched = scheduler.NewScheduler(service, cfg.WarmCategories)
		log.Info().Msg("Scheduler initialized")
	}

	// Initialize API server with scheduler for admin endpoints
	apiServer := api.NewServer(service, sessions, sched, cfg.HTTPAddr)

	// Setup signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start all services
	go func() {
		if err := apiServer.Start(); err != nil {
			log.Error().Err(err).Msg("API server error")
		}
	}()

	if sched != nil {
		sched.Start()
	}

	log.Info().
		Str("api", cfg.HTTPAddr).
		Msg("Horóscopo backend running")

	// Wait for shutdown signal
	<-sigChan
	log.Info().Msg("Shutdown signal received")

	// Graceful shutdown
	shutdownCtx := context.Background()
	if sched != nil {
		sched.Stop()
	}
	apiServer.Shutdown(shutdownCtx)

	log.Info().Msg("Horóscopo backend stopped")
}
