package main

import (
	"context"
	"flag"

	"github.com/rs/zerolog/log"

	"github.com/neuroassist/backend/internal/adapters/database"
	"github.com/neuroassist/backend/internal/adapters/providers/synthesis"
	"github.com/neuroassist/backend/internal/adapters/providers/transcription"
	"github.com/neuroassist/backend/internal/application/services"
	"github.com/neuroassist/backend/internal/domain/providers"
	"github.com/neuroassist/backend/internal/infrastructure/clients/postgres"
	"github.com/neuroassist/backend/internal/infrastructure/observability"
	"github.com/neuroassist/backend/pkg/config"
	"github.com/neuroassist/backend/pkg/retry"
)

// Operator tool: re-run the pipeline for a FAILED consultation after the
// underlying fault (quota, transient outage) has been addressed.
func main() {
	consultationID := flag.String("consultation", "", "consultation id to reprocess")
	flag.Parse()

	if *consultationID == "" {
		log.Fatal().Msg("-consultation is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	observability.InitLogger("consultation-reprocess", cfg.Server.Environment)

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()

	var transcriber providers.TranscriptionProvider
	if cfg.AssemblyAI.APIKey != "" {
		transcriber, err = transcription.NewAssemblyAIAdapter(&cfg.AssemblyAI)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize AssemblyAI adapter")
		}
	} else {
		transcriber = transcription.NewMockAdapter()
	}

	var synthesizer providers.NoteSynthesizer
	if cfg.Gemini.APIKey != "" {
		synthesizer, err = synthesis.NewGeminiAdapter(&cfg.Gemini)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize Gemini adapter")
		}
	} else {
		synthesizer = synthesis.NewMockAdapter()
	}

	pipeline := services.NewPipelineService(
		database.NewConsultationAdapter(pgClient),
		database.NewAudioFileAdapter(pgClient),
		database.NewSOAPNoteAdapter(pgClient),
		database.NewPatientProfileAdapter(pgClient),
		database.NewAILogAdapter(pgClient),
		transcriber,
		synthesizer,
		nil,
		retry.Config{
			MaxAttempts:   cfg.Pipeline.MaxSynthesisAttempts,
			InitialDelay:  cfg.Pipeline.InitialBackoff,
			MaxDelay:      cfg.Pipeline.MaxBackoff,
			BackoffFactor: 2.0,
		},
	)

	if err := pipeline.Reprocess(context.Background(), *consultationID); err != nil {
		log.Fatal().Str("consultation_id", *consultationID).Err(err).Msg("reprocess failed")
	}

	log.Info().Str("consultation_id", *consultationID).Msg("reprocess completed")
}
