package transcription

import (
	"context"
	"fmt"

	"github.com/neuroassist/backend/internal/domain/entities"
	"github.com/neuroassist/backend/internal/domain/providers"
	apperrors "github.com/neuroassist/backend/pkg/errors"
)

// MockAdapter provides deterministic transcripts for local development and
// tests.
type MockAdapter struct {
	// Transcript overrides the generated text when non-empty
	Transcript string

	// Fail makes every call return a transcription error
	Fail bool
}

// NewMockAdapter creates a mock transcription provider
func NewMockAdapter() providers.TranscriptionProvider {
	return &MockAdapter{}
}

// Transcribe returns a canned transcript derived from the locator
func (m *MockAdapter) Transcribe(ctx context.Context, audioURL string) (*entities.TranscriptionResult, error) {
	if m.Fail {
		return nil, fmt.Errorf("%w: mock transcription failure", apperrors.ErrTranscriptionFailed)
	}

	text := m.Transcript
	if text == "" {
		text = fmt.Sprintf("Patient complains of severe headache and nausea for past 2 days. No history of migraine. (source: %s)", audioURL)
	}

	return &entities.TranscriptionResult{
		Text: text,
		Utterances: []entities.Utterance{
			{Speaker: "A", Text: "What brings you in today?"},
			{Speaker: "B", Text: text},
		},
		Confidence: 0.92,
	}, nil
}
