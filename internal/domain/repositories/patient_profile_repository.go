package repositories

import (
	"context"

	"github.com/neuroassist/backend/internal/domain/entities"
)

// PatientProfileRepository defines read access to patient profiles
type PatientProfileRepository interface {
	// GetByUserID retrieves a patient profile by its owning user ID
	GetByUserID(ctx context.Context, userID string) (*entities.PatientProfile, error)
}
