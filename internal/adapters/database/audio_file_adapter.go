package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/neuroassist/backend/internal/domain/entities"
	"github.com/neuroassist/backend/internal/domain/repositories"
	"github.com/neuroassist/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/neuroassist/backend/pkg/errors"
)

// AudioFileAdapter implements the AudioFileRepository interface
type AudioFileAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewAudioFileAdapter creates a new audio file adapter
func NewAudioFileAdapter(client *postgres.Client) repositories.AudioFileRepository {
	return &AudioFileAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates a new audio file record
func (a *AudioFileAdapter) Create(ctx context.Context, audioFile *entities.AudioFile) error {
	var utterances []byte
	if audioFile.Utterances != nil {
		encoded, err := json.Marshal(audioFile.Utterances)
		if err != nil {
			return apperrors.NewInternalError("failed to encode utterances", err)
		}
		utterances = encoded
	}

	record := goqu.Record{
		"id":              audioFile.ID,
		"consultation_id": audioFile.ConsultationID,
		"file_url":        audioFile.FileURL,
		"transcript":      audioFile.Transcript,
		"utterances":      utterances,
		"confidence":      audioFile.Confidence,
		"created_at":      audioFile.CreatedAt,
		"updated_at":      audioFile.UpdatedAt,
	}

	query, args, err := a.db.Insert("audio_files").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	_, err = a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to create audio file", err)
	}

	return nil
}

// GetByConsultationID retrieves the audio file for a consultation
func (a *AudioFileAdapter) GetByConsultationID(ctx context.Context, consultationID string) (*entities.AudioFile, error) {
	query, args, err := a.db.Select(
		"id", "consultation_id", "file_url", "transcript",
		"utterances", "confidence", "created_at", "updated_at",
	).From("audio_files").
		Where(goqu.Ex{"consultation_id": consultationID}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	audioFile := &entities.AudioFile{}
	var transcript sql.NullString
	var confidence sql.NullFloat64
	var utterances []byte

	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&audioFile.ID,
		&audioFile.ConsultationID,
		&audioFile.FileURL,
		&transcript,
		&utterances,
		&confidence,
		&audioFile.CreatedAt,
		&audioFile.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("audio file for consultation %s not found", consultationID))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get audio file", err)
	}

	if transcript.Valid {
		audioFile.Transcript = &transcript.String
	}
	if confidence.Valid {
		audioFile.Confidence = &confidence.Float64
	}
	if len(utterances) > 0 {
		if err := json.Unmarshal(utterances, &audioFile.Utterances); err != nil {
			return nil, apperrors.NewInternalError("failed to decode utterances", err)
		}
	}

	return audioFile, nil
}

// SaveTranscript persists the transcription result onto the audio file
func (a *AudioFileAdapter) SaveTranscript(ctx context.Context, audioFileID string, result *entities.TranscriptionResult) error {
	utterances, err := json.Marshal(result.Utterances)
	if err != nil {
		return apperrors.NewInternalError("failed to encode utterances", err)
	}

	query, args, err := a.db.Update("audio_files").
		Set(goqu.Record{
			"transcript": result.Text,
			"utterances": utterances,
			"confidence": result.Confidence,
			"updated_at": time.Now().UTC(),
		}).
		Where(goqu.Ex{"id": audioFileID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	res, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to save transcript", err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("audio file with id %s not found", audioFileID))
	}

	return nil
}
