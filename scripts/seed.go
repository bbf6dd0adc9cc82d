package main

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/neuroassist/backend/internal/adapters/database"
	"github.com/neuroassist/backend/internal/domain/entities"
	"github.com/neuroassist/backend/internal/infrastructure/clients/postgres"
	"github.com/neuroassist/backend/pkg/config"
)

// Seeds a development database with a few patients, consultations and audio
// files so the worker has something to process.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pgClient.Close()

	consultationRepo := database.NewConsultationAdapter(pgClient)
	audioRepo := database.NewAudioFileAdapter(pgClient)

	ctx := context.Background()
	now := time.Now().UTC()

	seeds := []struct {
		patientID string
		doctorID  string
		audioURL  string
	}{
		{patientID: "patient-jane", doctorID: "doctor-okafor", audioURL: "https://storage.local/consultations/jane-2026-03-01.wav"},
		{patientID: "patient-tunde", doctorID: "doctor-okafor", audioURL: "https://storage.local/consultations/tunde-2026-03-01.wav"},
		{patientID: "patient-amara", doctorID: "doctor-bello", audioURL: "https://storage.local/consultations/amara-2026-03-02.wav"},
	}

	for _, seed := range seeds {
		consultation := &entities.Consultation{
			ID:            uuid.New().String(),
			PatientID:     seed.patientID,
			DoctorID:      seed.doctorID,
			AppointmentID: uuid.New().String(),
			Status:        entities.ConsultationStatusScheduled,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := consultationRepo.Create(ctx, consultation); err != nil {
			log.Fatal().Err(err).Str("patient_id", seed.patientID).Msg("failed to seed consultation")
		}

		audio := &entities.AudioFile{
			ID:             uuid.New().String(),
			ConsultationID: consultation.ID,
			FileURL:        seed.audioURL,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := audioRepo.Create(ctx, audio); err != nil {
			log.Fatal().Err(err).Str("consultation_id", consultation.ID).Msg("failed to seed audio file")
		}

		log.Info().
			Str("consultation_id", consultation.ID).
			Str("patient_id", seed.patientID).
			Msg("seeded consultation")
	}
}
