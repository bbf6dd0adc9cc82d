package repositories

import (
	"context"

	"github.com/neuroassist/backend/internal/domain/entities"
)

// AudioFileRepository defines the interface for audio file data operations
type AudioFileRepository interface {
	// Create creates an audio file record (upload path; used by fixtures/tests)
	Create(ctx context.Context, audioFile *entities.AudioFile) error

	// GetByConsultationID retrieves the audio file for a consultation
	GetByConsultationID(ctx context.Context, consultationID string) (*entities.AudioFile, error)

	// SaveTranscript persists the transcription result onto the audio file
	// (the transcription checkpoint)
	SaveTranscript(ctx context.Context, audioFileID string, result *entities.TranscriptionResult) error
}
