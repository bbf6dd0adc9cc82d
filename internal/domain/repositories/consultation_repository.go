package repositories

import (
	"context"

	"github.com/neuroassist/backend/internal/domain/entities"
)

// ConsultationWithPatient pairs a consultation with the patient display name
// for dashboard queues.
type ConsultationWithPatient struct {
	Consultation *entities.Consultation
	PatientName  string
}

// ConsultationRepository defines the interface for consultation data operations
type ConsultationRepository interface {
	// GetByID retrieves a consultation by ID
	GetByID(ctx context.Context, id string) (*entities.Consultation, error)

	// Create creates a consultation (booking path; used by fixtures/tests)
	Create(ctx context.Context, consultation *entities.Consultation) error

	// UpdateStatus commits a status transition
	UpdateStatus(ctx context.Context, id string, status entities.ConsultationStatus) error

	// MarkFailed commits the terminal FAILED transition together with the
	// manual review flag
	MarkFailed(ctx context.Context, id string) error

	// CompleteTriage commits the terminal COMPLETED transition together
	// with the triage score, category and safety warnings
	CompleteTriage(ctx context.Context, id string, score int, category entities.TriageCategory, warnings []entities.SafetyWarning) error

	// Reset returns a failed consultation to SCHEDULED and clears the
	// manual review flag (operator re-run path)
	Reset(ctx context.Context, id string) error

	// ListCompletedByPriority returns COMPLETED consultations ordered by
	// urgency score descending, then creation time ascending
	ListCompletedByPriority(ctx context.Context, limit int) ([]*ConsultationWithPatient, error)

	// ListRequiringManualReview returns consultations flagged for manual
	// review, newest first
	ListRequiringManualReview(ctx context.Context, limit int) ([]*ConsultationWithPatient, error)
}
