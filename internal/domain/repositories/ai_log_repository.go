package repositories

import (
	"context"

	"github.com/neuroassist/backend/internal/domain/entities"
)

// AILogRepository defines the interface for the append-only synthesis audit log
type AILogRepository interface {
	// Create appends an audit record. Records are never updated or deleted.
	Create(ctx context.Context, log *entities.AILog) error

	// ListByConsultation retrieves audit records for a consultation, oldest
	// first
	ListByConsultation(ctx context.Context, consultationID string) ([]*entities.AILog, error)
}
