package providers

import (
	"context"

	"github.com/neuroassist/backend/internal/domain/entities"
)

// NoteSynthesizer defines a generative service that turns a transcript into a
// structured SOAP note. Implementations classify failures as transient
// (apperrors.ErrSynthesisTransient) or malformed-output
// (apperrors.ErrSynthesisParse); retry policy belongs to the caller.
type NoteSynthesizer interface {
	Synthesize(ctx context.Context, req *entities.SynthesisRequest) (*entities.SynthesisResult, error)

	// Model identifies the model/version for audit records
	Model() string
}
