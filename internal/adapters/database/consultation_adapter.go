package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/neuroassist/backend/internal/domain/entities"
	"github.com/neuroassist/backend/internal/domain/repositories"
	"github.com/neuroassist/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/neuroassist/backend/pkg/errors"
)

var consultationColumns = []interface{}{
	"id", "patient_id", "doctor_id", "appointment_id", "status",
	"urgency_score", "triage_category", "safety_warnings",
	"requires_manual_review", "created_at", "updated_at",
}

// ConsultationAdapter implements the ConsultationRepository interface
type ConsultationAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewConsultationAdapter creates a new consultation adapter
func NewConsultationAdapter(client *postgres.Client) repositories.ConsultationRepository {
	return &ConsultationAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates a new consultation
func (a *ConsultationAdapter) Create(ctx context.Context, consultation *entities.Consultation) error {
	warnings, err := marshalWarnings(consultation.SafetyWarnings)
	if err != nil {
		return apperrors.NewInternalError("failed to encode safety warnings", err)
	}

	record := goqu.Record{
		"id":                     consultation.ID,
		"patient_id":             consultation.PatientID,
		"doctor_id":              consultation.DoctorID,
		"appointment_id":         consultation.AppointmentID,
		"status":                 consultation.Status,
		"urgency_score":          consultation.UrgencyScore,
		"triage_category":        consultation.TriageCategory,
		"safety_warnings":        warnings,
		"requires_manual_review": consultation.RequiresManualReview,
		"created_at":             consultation.CreatedAt,
		"updated_at":             consultation.UpdatedAt,
	}

	query, args, err := a.db.Insert("consultations").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	_, err = a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to create consultation", err)
	}

	return nil
}

// GetByID retrieves a consultation by ID
func (a *ConsultationAdapter) GetByID(ctx context.Context, id string) (*entities.Consultation, error) {
	query, args, err := a.db.Select(consultationColumns...).
		From("consultations").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	row := a.client.DB().QueryRowContext(ctx, query, args...)
	consultation, err := scanConsultation(row.Scan)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("consultation with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get consultation", err)
	}

	return consultation, nil
}

// UpdateStatus commits a status transition
func (a *ConsultationAdapter) UpdateStatus(ctx context.Context, id string, status entities.ConsultationStatus) error {
	return a.update(ctx, id, goqu.Record{
		"status":     status,
		"updated_at": time.Now().UTC(),
	})
}

// MarkFailed commits the terminal FAILED transition with the manual review flag
func (a *ConsultationAdapter) MarkFailed(ctx context.Context, id string) error {
	return a.update(ctx, id, goqu.Record{
		"status":                 entities.ConsultationStatusFailed,
		"requires_manual_review": true,
		"updated_at":             time.Now().UTC(),
	})
}

// CompleteTriage commits the terminal COMPLETED transition with triage output
func (a *ConsultationAdapter) CompleteTriage(ctx context.Context, id string, score int, category entities.TriageCategory, warnings []entities.SafetyWarning) error {
	encoded, err := marshalWarnings(warnings)
	if err != nil {
		return apperrors.NewInternalError("failed to encode safety warnings", err)
	}

	return a.update(ctx, id, goqu.Record{
		"status":          entities.ConsultationStatusCompleted,
		"urgency_score":   score,
		"triage_category": category,
		"safety_warnings": encoded,
		"updated_at":      time.Now().UTC(),
	})
}

// Reset returns a failed consultation to SCHEDULED for an operator re-run
func (a *ConsultationAdapter) Reset(ctx context.Context, id string) error {
	return a.update(ctx, id, goqu.Record{
		"status":                 entities.ConsultationStatusScheduled,
		"requires_manual_review": false,
		"updated_at":             time.Now().UTC(),
	})
}

func (a *ConsultationAdapter) update(ctx context.Context, id string, record goqu.Record) error {
	query, args, err := a.db.Update("consultations").
		Set(record).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update consultation", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("consultation with id %s not found", id))
	}

	return nil
}

// ListCompletedByPriority returns the dashboard priority queue: COMPLETED
// consultations ordered by urgency score descending, then creation time
// ascending.
func (a *ConsultationAdapter) ListCompletedByPriority(ctx context.Context, limit int) ([]*repositories.ConsultationWithPatient, error) {
	ds := a.db.Select(
		goqu.I("c.id"), goqu.I("c.patient_id"), goqu.I("c.doctor_id"),
		goqu.I("c.appointment_id"), goqu.I("c.status"), goqu.I("c.urgency_score"),
		goqu.I("c.triage_category"), goqu.I("c.safety_warnings"),
		goqu.I("c.requires_manual_review"), goqu.I("c.created_at"), goqu.I("c.updated_at"),
		goqu.I("p.first_name"), goqu.I("p.last_name"),
	).From(goqu.T("consultations").As("c")).
		Join(
			goqu.T("patient_profiles").As("p"),
			goqu.On(goqu.Ex{"c.patient_id": goqu.I("p.user_id")}),
		).
		Where(goqu.Ex{"c.status": entities.ConsultationStatusCompleted}).
		Order(goqu.I("c.urgency_score").Desc(), goqu.I("c.created_at").Asc())

	if limit > 0 {
		ds = ds.Limit(uint(limit))
	}

	return a.listWithPatient(ctx, ds)
}

// ListRequiringManualReview returns the exception queue, newest first
func (a *ConsultationAdapter) ListRequiringManualReview(ctx context.Context, limit int) ([]*repositories.ConsultationWithPatient, error) {
	ds := a.db.Select(
		goqu.I("c.id"), goqu.I("c.patient_id"), goqu.I("c.doctor_id"),
		goqu.I("c.appointment_id"), goqu.I("c.status"), goqu.I("c.urgency_score"),
		goqu.I("c.triage_category"), goqu.I("c.safety_warnings"),
		goqu.I("c.requires_manual_review"), goqu.I("c.created_at"), goqu.I("c.updated_at"),
		goqu.I("p.first_name"), goqu.I("p.last_name"),
	).From(goqu.T("consultations").As("c")).
		Join(
			goqu.T("patient_profiles").As("p"),
			goqu.On(goqu.Ex{"c.patient_id": goqu.I("p.user_id")}),
		).
		Where(goqu.Ex{"c.requires_manual_review": true}).
		Order(goqu.I("c.created_at").Desc())

	if limit > 0 {
		ds = ds.Limit(uint(limit))
	}

	return a.listWithPatient(ctx, ds)
}

func (a *ConsultationAdapter) listWithPatient(ctx context.Context, ds *goqu.SelectDataset) ([]*repositories.ConsultationWithPatient, error) {
	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list consultations", err)
	}
	defer rows.Close()

	var results []*repositories.ConsultationWithPatient
	for rows.Next() {
		consultation := &entities.Consultation{}
		var urgencyScore sql.NullInt64
		var triageCategory sql.NullString
		var warnings []byte
		var firstName, lastName string

		err := rows.Scan(
			&consultation.ID,
			&consultation.PatientID,
			&consultation.DoctorID,
			&consultation.AppointmentID,
			&consultation.Status,
			&urgencyScore,
			&triageCategory,
			&warnings,
			&consultation.RequiresManualReview,
			&consultation.CreatedAt,
			&consultation.UpdatedAt,
			&firstName,
			&lastName,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan consultation", err)
		}

		applyNullableTriage(consultation, urgencyScore, triageCategory)
		if err := unmarshalWarnings(warnings, consultation); err != nil {
			return nil, apperrors.NewInternalError("failed to decode safety warnings", err)
		}

		results = append(results, &repositories.ConsultationWithPatient{
			Consultation: consultation,
			PatientName:  firstName + " " + lastName,
		})
	}

	return results, rows.Err()
}

func scanConsultation(scan func(dest ...interface{}) error) (*entities.Consultation, error) {
	consultation := &entities.Consultation{}
	var urgencyScore sql.NullInt64
	var triageCategory sql.NullString
	var warnings []byte

	err := scan(
		&consultation.ID,
		&consultation.PatientID,
		&consultation.DoctorID,
		&consultation.AppointmentID,
		&consultation.Status,
		&urgencyScore,
		&triageCategory,
		&warnings,
		&consultation.RequiresManualReview,
		&consultation.CreatedAt,
		&consultation.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	applyNullableTriage(consultation, urgencyScore, triageCategory)
	if err := unmarshalWarnings(warnings, consultation); err != nil {
		return nil, err
	}

	return consultation, nil
}

func applyNullableTriage(consultation *entities.Consultation, score sql.NullInt64, category sql.NullString) {
	if score.Valid {
		v := int(score.Int64)
		consultation.UrgencyScore = &v
	}
	if category.Valid {
		c := entities.TriageCategory(category.String)
		consultation.TriageCategory = &c
	}
}

func marshalWarnings(warnings []entities.SafetyWarning) ([]byte, error) {
	if warnings == nil {
		return nil, nil
	}
	return json.Marshal(warnings)
}

func unmarshalWarnings(data []byte, consultation *entities.Consultation) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, &consultation.SafetyWarnings)
}
