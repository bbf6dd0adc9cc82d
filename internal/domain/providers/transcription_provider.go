package providers

import (
	"context"

	"github.com/neuroassist/backend/internal/domain/entities"
)

// TranscriptionProvider defines a speech-to-text service. Implementations do
// not retry; a single transport failure propagates to the caller.
type TranscriptionProvider interface {
	Transcribe(ctx context.Context, audioURL string) (*entities.TranscriptionResult, error)
}
