package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/neuroassist/backend/internal/adapters/database"
	"github.com/neuroassist/backend/internal/adapters/events"
	"github.com/neuroassist/backend/internal/adapters/providers/synthesis"
	"github.com/neuroassist/backend/internal/adapters/providers/transcription"
	"github.com/neuroassist/backend/internal/application/services"
	"github.com/neuroassist/backend/internal/domain/providers"
	"github.com/neuroassist/backend/internal/infrastructure/clients/postgres"
	"github.com/neuroassist/backend/internal/infrastructure/clients/redis"
	"github.com/neuroassist/backend/internal/infrastructure/observability"
	"github.com/neuroassist/backend/internal/workers"
	"github.com/neuroassist/backend/pkg/config"
	"github.com/neuroassist/backend/pkg/retry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	observability.InitLogger("consultation-worker", cfg.Server.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database client
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()

	// Initialize Redis client for the trigger bus
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize Redis client")
	}
	defer redisClient.Close()

	eventBus := events.NewRedisEventBus(redisClient)
	defer eventBus.Close()

	// Initialize adapters
	consultationAdapter := database.NewConsultationAdapter(pgClient)
	audioFileAdapter := database.NewAudioFileAdapter(pgClient)
	soapNoteAdapter := database.NewSOAPNoteAdapter(pgClient)
	patientProfileAdapter := database.NewPatientProfileAdapter(pgClient)
	aiLogAdapter := database.NewAILogAdapter(pgClient)

	// External AI providers fall back to deterministic mocks when no API
	// key is configured, keeping local development network-free.
	var transcriber providers.TranscriptionProvider
	if cfg.AssemblyAI.APIKey != "" {
		transcriber, err = transcription.NewAssemblyAIAdapter(&cfg.AssemblyAI)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize AssemblyAI adapter")
		}
		log.Info().Msg("transcription provider: assemblyai")
	} else {
		transcriber = transcription.NewMockAdapter()
		log.Warn().Msg("transcription provider: mock (no API key configured)")
	}

	var synthesizer providers.NoteSynthesizer
	if cfg.Gemini.APIKey != "" {
		synthesizer, err = synthesis.NewGeminiAdapter(&cfg.Gemini)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize Gemini adapter")
		}
		log.Info().Str("model", cfg.Gemini.Model).Msg("synthesis provider: gemini")
	} else {
		synthesizer = synthesis.NewMockAdapter()
		log.Warn().Msg("synthesis provider: mock (no API key configured)")
	}

	retryConfig := retry.Config{
		MaxAttempts:   cfg.Pipeline.MaxSynthesisAttempts,
		InitialDelay:  cfg.Pipeline.InitialBackoff,
		MaxDelay:      cfg.Pipeline.MaxBackoff,
		BackoffFactor: 2.0,
	}

	pipeline := services.NewPipelineService(
		consultationAdapter,
		audioFileAdapter,
		soapNoteAdapter,
		patientProfileAdapter,
		aiLogAdapter,
		transcriber,
		synthesizer,
		eventBus,
		retryConfig,
	)

	worker := workers.NewPipelineWorker(pipeline, cfg.Pipeline.Workers, cfg.Pipeline.QueueSize)

	log.Info().
		Int("workers", cfg.Pipeline.Workers).
		Int("queue_size", cfg.Pipeline.QueueSize).
		Msg("consultation worker started")

	if err := worker.Run(ctx, eventBus); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("worker terminated")
	}

	log.Info().Msg("consultation worker stopped")
}
