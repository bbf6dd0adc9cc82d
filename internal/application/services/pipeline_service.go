package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/neuroassist/backend/internal/domain/entities"
	"github.com/neuroassist/backend/internal/domain/providers"
	"github.com/neuroassist/backend/internal/domain/repositories"
	apperrors "github.com/neuroassist/backend/pkg/errors"
	"github.com/neuroassist/backend/pkg/retry"
)

// PipelineService drives a consultation through transcription, note
// synthesis, triage and safety checking, committing a checkpoint after every
// status transition. One invocation processes one consultation; callers are
// responsible for not running two invocations for the same consultation
// concurrently.
type PipelineService struct {
	consultationRepo repositories.ConsultationRepository
	audioRepo        repositories.AudioFileRepository
	soapRepo         repositories.SOAPNoteRepository
	patientRepo      repositories.PatientProfileRepository
	aiLogRepo        repositories.AILogRepository
	transcriber      providers.TranscriptionProvider
	synthesizer      providers.NoteSynthesizer
	eventBus         providers.EventBus
	triage           *TriageService
	safety           *SafetyService
	retryConfig      retry.Config
}

// NewPipelineService creates a new pipeline service. eventBus may be nil;
// outcome events are then skipped.
func NewPipelineService(
	consultationRepo repositories.ConsultationRepository,
	audioRepo repositories.AudioFileRepository,
	soapRepo repositories.SOAPNoteRepository,
	patientRepo repositories.PatientProfileRepository,
	aiLogRepo repositories.AILogRepository,
	transcriber providers.TranscriptionProvider,
	synthesizer providers.NoteSynthesizer,
	eventBus providers.EventBus,
	retryConfig retry.Config,
) *PipelineService {
	return &PipelineService{
		consultationRepo: consultationRepo,
		audioRepo:        audioRepo,
		soapRepo:         soapRepo,
		patientRepo:      patientRepo,
		aiLogRepo:        aiLogRepo,
		transcriber:      transcriber,
		synthesizer:      synthesizer,
		eventBus:         eventBus,
		triage:           NewTriageService(),
		safety:           NewSafetyService(),
		retryConfig:      retryConfig,
	}
}

// Process runs the pipeline for one consultation. Re-invoking on a terminal
// consultation is a no-op, and a non-terminal consultation that already has a
// SOAP note resumes at triage: no second note or audit row is ever created.
func (s *PipelineService) Process(ctx context.Context, consultationID string) error {
	logger := log.With().Str("consultation_id", consultationID).Logger()

	consultation, err := s.consultationRepo.GetByID(ctx, consultationID)
	if err != nil {
		return err
	}

	if consultation.Status.IsTerminal() {
		logger.Info().Str("status", string(consultation.Status)).Msg("consultation already terminal, skipping")
		return nil
	}

	exists, err := s.soapRepo.ExistsForConsultation(ctx, consultationID)
	if err != nil {
		return err
	}
	if exists {
		// A crash between note creation and the terminal commit leaves a
		// non-terminal consultation with a note; finish triage from the
		// persisted note instead of synthesizing a second one.
		note, err := s.soapRepo.GetByConsultationID(ctx, consultationID)
		if err != nil {
			return err
		}
		profile := s.loadProfile(ctx, consultation.PatientID, &logger)
		logger.Info().Msg("SOAP note already persisted, resuming completion")
		return s.complete(ctx, consultationID, note, profile, &logger)
	}

	audioFile, err := s.audioRepo.GetByConsultationID(ctx, consultationID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			logger.Error().Msg("audio file missing, failing consultation")
			return s.fail(ctx, consultationID, apperrors.ErrAudioMissing)
		}
		return err
	}

	if !audioFile.HasTranscript() {
		// Checkpoint 1: claim the run before the speech-to-text call. A
		// resumed run with a persisted transcript keeps its later phase
		// instead of regressing to TRANSCRIBING.
		if err := s.consultationRepo.UpdateStatus(ctx, consultationID, entities.ConsultationStatusTranscribing); err != nil {
			return err
		}
	}

	transcript, err := s.ensureTranscript(ctx, consultationID, audioFile, &logger)
	if err != nil {
		return err
	}

	profile := s.loadProfile(ctx, consultation.PatientID, &logger)

	if err := s.consultationRepo.UpdateStatus(ctx, consultationID, entities.ConsultationStatusSynthesizing); err != nil {
		return err
	}

	result, err := s.synthesize(ctx, consultationID, transcript, profile, &logger)
	if err != nil {
		return s.fail(ctx, consultationID, err)
	}

	note := &entities.SOAPNote{
		ID:                 uuid.New().String(),
		ConsultationID:     consultationID,
		Sections:           result.Sections,
		RiskFlags:          result.RiskFlags,
		LowConfidenceTerms: result.LowConfidenceTerms,
		Confidence:         result.Confidence,
		GeneratedByAI:      true,
		CreatedAt:          time.Now().UTC(),
	}
	if err := s.soapRepo.Create(ctx, note); err != nil {
		return err
	}

	return s.complete(ctx, consultationID, note, profile, &logger)
}

// complete runs triage and safety on the note and commits the terminal
// COMPLETED transition, the only point that sets COMPLETED.
func (s *PipelineService) complete(ctx context.Context, consultationID string, note *entities.SOAPNote, profile *entities.PatientProfile, logger *zerolog.Logger) error {
	score, category := s.triage.CalculateUrgency(note, profile)
	warnings := s.safety.CheckInteractions(note, profile)

	if err := s.consultationRepo.CompleteTriage(ctx, consultationID, score, category, warnings); err != nil {
		return err
	}

	s.publishOutcome(ctx, consultationID, entities.PipelineEventCompleted)

	logger.Info().
		Int("urgency_score", score).
		Str("triage_category", string(category)).
		Int("safety_warnings", len(warnings)).
		Msg("consultation processing completed")
	return nil
}

// Reprocess re-runs a FAILED consultation after an explicit operator
// request. COMPLETED consultations are never re-run.
func (s *PipelineService) Reprocess(ctx context.Context, consultationID string) error {
	consultation, err := s.consultationRepo.GetByID(ctx, consultationID)
	if err != nil {
		return err
	}

	if consultation.Status != entities.ConsultationStatusFailed {
		return apperrors.NewConflictError("only failed consultations can be reprocessed")
	}

	if err := s.consultationRepo.Reset(ctx, consultationID); err != nil {
		return err
	}

	return s.Process(ctx, consultationID)
}

// ensureTranscript returns the persisted transcript, transcribing first when
// the checkpoint has not passed yet. A transcription failure marks the
// consultation FAILED before returning.
func (s *PipelineService) ensureTranscript(ctx context.Context, consultationID string, audioFile *entities.AudioFile, logger *zerolog.Logger) (*entities.TranscriptionResult, error) {
	if audioFile.HasTranscript() {
		logger.Info().Msg("transcript already persisted, skipping transcription")
		result := &entities.TranscriptionResult{
			Text:       *audioFile.Transcript,
			Utterances: audioFile.Utterances,
		}
		if audioFile.Confidence != nil {
			result.Confidence = *audioFile.Confidence
		}
		return result, nil
	}

	result, err := s.transcriber.Transcribe(ctx, audioFile.FileURL)
	if err != nil {
		logger.Error().Err(err).Msg("transcription failed")
		return nil, s.fail(ctx, consultationID, err)
	}

	// Checkpoint 2: a resumed run skips re-transcription.
	if err := s.audioRepo.SaveTranscript(ctx, audioFile.ID, result); err != nil {
		return nil, err
	}
	if err := s.consultationRepo.UpdateStatus(ctx, consultationID, entities.ConsultationStatusTranscribed); err != nil {
		return nil, err
	}

	logger.Info().Int("transcript_chars", len(result.Text)).Msg("transcription persisted")
	return result, nil
}

// synthesize calls the note synthesizer under the retry policy and appends
// exactly one audit row for the outcome.
func (s *PipelineService) synthesize(ctx context.Context, consultationID string, transcript *entities.TranscriptionResult, profile *entities.PatientProfile, logger *zerolog.Logger) (*entities.SynthesisResult, error) {
	req := &entities.SynthesisRequest{
		Transcript: transcript.Text,
		Utterances: transcript.Utterances,
		Patient:    profile,
	}

	start := time.Now()
	var result *entities.SynthesisResult
	err := retry.DoWithLog(ctx, s.retryConfig, "NoteSynthesis",
		func() error {
			r, callErr := s.synthesizer.Synthesize(ctx, req)
			if callErr != nil {
				return callErr
			}
			result = r
			return nil
		},
		func(err error) bool {
			// Parse failures already consumed their recovery parse;
			// only transient faults are worth another attempt.
			return !errors.Is(err, apperrors.ErrSynthesisParse)
		},
		func(attempt int, err error, nextDelay time.Duration) {
			logger.Warn().Int("attempt", attempt).Err(err).Dur("next_delay", nextDelay).Msg("note synthesis attempt failed, backing off")
		},
	)
	latencyMS := time.Since(start).Milliseconds()

	auditLog := &entities.AILog{
		ID:             uuid.New().String(),
		ConsultationID: consultationID,
		Model:          s.synthesizer.Model(),
		CreatedAt:      time.Now().UTC(),
	}

	if err != nil {
		message := err.Error()
		auditLog.Status = entities.AILogStatusFail
		auditLog.ErrorMessage = &message
	} else {
		auditLog.Status = entities.AILogStatusSuccess
		auditLog.LatencyMS = &latencyMS
	}

	if logErr := s.aiLogRepo.Create(ctx, auditLog); logErr != nil {
		logger.Error().Err(logErr).Msg("failed to append synthesis audit log")
	}

	if err != nil {
		logger.Error().Err(err).Msg("note synthesis failed")
		return nil, err
	}

	return result, nil
}

// loadProfile fetches the patient profile. A missing profile degrades the
// patient context instead of failing the run.
func (s *PipelineService) loadProfile(ctx context.Context, patientID string, logger *zerolog.Logger) *entities.PatientProfile {
	profile, err := s.patientRepo.GetByUserID(ctx, patientID)
	if err != nil {
		logger.Warn().Str("patient_id", patientID).Err(err).Msg("patient profile unavailable, proceeding without context")
		return nil
	}
	return profile
}

// fail commits the terminal FAILED transition with the manual review flag
// and returns the original error.
func (s *PipelineService) fail(ctx context.Context, consultationID string, cause error) error {
	if err := s.consultationRepo.MarkFailed(ctx, consultationID); err != nil {
		log.Error().Str("consultation_id", consultationID).Err(err).Msg("failed to mark consultation FAILED")
		return errors.Join(cause, err)
	}

	s.publishOutcome(ctx, consultationID, entities.PipelineEventFailed)
	return cause
}

func (s *PipelineService) publishOutcome(ctx context.Context, consultationID string, eventType entities.PipelineEventType) {
	if s.eventBus == nil {
		return
	}

	event := &entities.PipelineEvent{
		ID:             uuid.New().String(),
		ConsultationID: consultationID,
		Type:           eventType,
		EmittedAt:      time.Now().UTC(),
	}
	if err := s.eventBus.Publish(ctx, providers.EventChannelOutcomes, event); err != nil {
		log.Warn().Str("consultation_id", consultationID).Err(err).Msg("failed to publish outcome event")
	}
}
