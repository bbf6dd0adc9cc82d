package repositories

import (
	"context"

	"github.com/neuroassist/backend/internal/domain/entities"
)

// SOAPNoteRepository defines the interface for SOAP note data operations
type SOAPNoteRepository interface {
	// Create creates a SOAP note. A consultation has at most one note.
	Create(ctx context.Context, note *entities.SOAPNote) error

	// GetByConsultationID retrieves the note for a consultation
	GetByConsultationID(ctx context.Context, consultationID string) (*entities.SOAPNote, error)

	// ExistsForConsultation reports whether a note already exists
	ExistsForConsultation(ctx context.Context, consultationID string) (bool, error)
}
