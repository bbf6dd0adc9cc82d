package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/neuroassist/backend/internal/domain/entities"
	"github.com/neuroassist/backend/internal/domain/repositories"
	"github.com/neuroassist/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/neuroassist/backend/pkg/errors"
)

// SOAPNoteAdapter implements the SOAPNoteRepository interface
type SOAPNoteAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewSOAPNoteAdapter creates a new SOAP note adapter
func NewSOAPNoteAdapter(client *postgres.Client) repositories.SOAPNoteRepository {
	return &SOAPNoteAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates a SOAP note. The unique index on consultation_id enforces
// the at-most-one-note invariant.
func (a *SOAPNoteAdapter) Create(ctx context.Context, note *entities.SOAPNote) error {
	sections, err := json.Marshal(note.Sections)
	if err != nil {
		return apperrors.NewInternalError("failed to encode SOAP sections", err)
	}
	riskFlags, err := json.Marshal(note.RiskFlags)
	if err != nil {
		return apperrors.NewInternalError("failed to encode risk flags", err)
	}
	lowConfidence, err := json.Marshal(note.LowConfidenceTerms)
	if err != nil {
		return apperrors.NewInternalError("failed to encode low confidence terms", err)
	}

	record := goqu.Record{
		"id":                   note.ID,
		"consultation_id":      note.ConsultationID,
		"sections":             sections,
		"risk_flags":           riskFlags,
		"low_confidence_terms": lowConfidence,
		"confidence":           note.Confidence,
		"generated_by_ai":      note.GeneratedByAI,
		"created_at":           note.CreatedAt,
	}

	query, args, err := a.db.Insert("soap_notes").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	_, err = a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to create SOAP note", err)
	}

	return nil
}

// GetByConsultationID retrieves the note for a consultation
func (a *SOAPNoteAdapter) GetByConsultationID(ctx context.Context, consultationID string) (*entities.SOAPNote, error) {
	query, args, err := a.db.Select(
		"id", "consultation_id", "sections", "risk_flags",
		"low_confidence_terms", "confidence", "generated_by_ai", "created_at",
	).From("soap_notes").
		Where(goqu.Ex{"consultation_id": consultationID}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	note := &entities.SOAPNote{}
	var sections, riskFlags, lowConfidence []byte

	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&note.ID,
		&note.ConsultationID,
		&sections,
		&riskFlags,
		&lowConfidence,
		&note.Confidence,
		&note.GeneratedByAI,
		&note.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("SOAP note for consultation %s not found", consultationID))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get SOAP note", err)
	}

	if err := json.Unmarshal(sections, &note.Sections); err != nil {
		return nil, apperrors.NewInternalError("failed to decode SOAP sections", err)
	}
	if len(riskFlags) > 0 {
		if err := json.Unmarshal(riskFlags, &note.RiskFlags); err != nil {
			return nil, apperrors.NewInternalError("failed to decode risk flags", err)
		}
	}
	if len(lowConfidence) > 0 {
		if err := json.Unmarshal(lowConfidence, &note.LowConfidenceTerms); err != nil {
			return nil, apperrors.NewInternalError("failed to decode low confidence terms", err)
		}
	}

	return note, nil
}

// ExistsForConsultation reports whether a note already exists
func (a *SOAPNoteAdapter) ExistsForConsultation(ctx context.Context, consultationID string) (bool, error) {
	query, args, err := a.db.Select(goqu.COUNT("id")).
		From("soap_notes").
		Where(goqu.Ex{"consultation_id": consultationID}).
		ToSQL()
	if err != nil {
		return false, apperrors.NewInternalError("failed to build query", err)
	}

	var count int
	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, apperrors.NewInternalError("failed to count SOAP notes", err)
	}

	return count > 0, nil
}
