package synthesis

import (
	"context"
	"fmt"

	"github.com/neuroassist/backend/internal/domain/entities"
	apperrors "github.com/neuroassist/backend/pkg/errors"
)

// MockAdapter provides deterministic SOAP notes for local development and
// tests.
type MockAdapter struct {
	// FailAttempts makes the first N calls return a transient error
	FailAttempts int

	// Result overrides the canned result when set
	Result *entities.SynthesisResult

	calls int
}

// NewMockAdapter creates a mock note synthesizer
func NewMockAdapter() *MockAdapter {
	return &MockAdapter{}
}

// Model identifies the mock for audit records
func (m *MockAdapter) Model() string {
	return "mock-synthesizer"
}

// Synthesize returns a canned result after the configured failures
func (m *MockAdapter) Synthesize(ctx context.Context, req *entities.SynthesisRequest) (*entities.SynthesisResult, error) {
	m.calls++
	if m.calls <= m.FailAttempts {
		return nil, fmt.Errorf("%w: mock transient failure %d", apperrors.ErrSynthesisTransient, m.calls)
	}

	if m.Result != nil {
		return m.Result, nil
	}

	return &entities.SynthesisResult{
		Sections: entities.SOAPSections{
			Subjective: "Patient reports headache and nausea.",
			Objective:  "Patient appears distressed.",
			Assessment: "Possible tension headache or viral illness.",
			Plan:       "Prescribe analgesics and rest.",
		},
		RiskFlags:          nil,
		LowConfidenceTerms: nil,
		Confidence:         0.95,
		Model:              m.Model(),
	}, nil
}
