package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/neuroassist/backend/internal/domain/entities"
	"github.com/neuroassist/backend/internal/domain/repositories"
	"github.com/neuroassist/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/neuroassist/backend/pkg/errors"
)

// PatientProfileAdapter implements the PatientProfileRepository interface
type PatientProfileAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewPatientProfileAdapter creates a new patient profile adapter
func NewPatientProfileAdapter(client *postgres.Client) repositories.PatientProfileRepository {
	return &PatientProfileAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// GetByUserID retrieves a patient profile by its owning user ID
func (a *PatientProfileAdapter) GetByUserID(ctx context.Context, userID string) (*entities.PatientProfile, error) {
	query, args, err := a.db.Select(
		"user_id", "first_name", "last_name", "date_of_birth", "gender",
		"medical_history", "allergies", "current_medications",
		"created_at", "updated_at",
	).From("patient_profiles").
		Where(goqu.Ex{"user_id": userID}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	profile := &entities.PatientProfile{}
	var dateOfBirth sql.NullTime
	var gender, medicalHistory, allergies, currentMedications sql.NullString

	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&profile.UserID,
		&profile.FirstName,
		&profile.LastName,
		&dateOfBirth,
		&gender,
		&medicalHistory,
		&allergies,
		&currentMedications,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("patient profile for user %s not found", userID))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get patient profile", err)
	}

	if dateOfBirth.Valid {
		profile.DateOfBirth = &dateOfBirth.Time
	}
	profile.Gender = gender.String
	profile.MedicalHistory = medicalHistory.String
	profile.Allergies = allergies.String
	profile.CurrentMedications = currentMedications.String

	return profile, nil
}
