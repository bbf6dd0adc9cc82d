package database

import (
	"context"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/neuroassist/backend/internal/domain/entities"
	"github.com/neuroassist/backend/internal/domain/repositories"
	"github.com/neuroassist/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/neuroassist/backend/pkg/errors"
)

// AILogAdapter implements the AILogRepository interface. The table is
// append-only; no update or delete statements exist here.
type AILogAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewAILogAdapter creates a new AI log adapter
func NewAILogAdapter(client *postgres.Client) repositories.AILogRepository {
	return &AILogAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create appends an audit record
func (a *AILogAdapter) Create(ctx context.Context, log *entities.AILog) error {
	record := goqu.Record{
		"id":              log.ID,
		"consultation_id": log.ConsultationID,
		"model":           log.Model,
		"status":          log.Status,
		"latency_ms":      log.LatencyMS,
		"error_message":   log.ErrorMessage,
		"created_at":      log.CreatedAt,
	}

	query, args, err := a.db.Insert("ai_logs").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	_, err = a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to create AI log", err)
	}

	return nil
}

// ListByConsultation retrieves audit records for a consultation, oldest first
func (a *AILogAdapter) ListByConsultation(ctx context.Context, consultationID string) ([]*entities.AILog, error) {
	query, args, err := a.db.Select(
		"id", "consultation_id", "model", "status",
		"latency_ms", "error_message", "created_at",
	).From("ai_logs").
		Where(goqu.Ex{"consultation_id": consultationID}).
		Order(goqu.I("created_at").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list AI logs", err)
	}
	defer rows.Close()

	var logs []*entities.AILog
	for rows.Next() {
		log := &entities.AILog{}
		err := rows.Scan(
			&log.ID,
			&log.ConsultationID,
			&log.Model,
			&log.Status,
			&log.LatencyMS,
			&log.ErrorMessage,
			&log.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan AI log", err)
		}
		logs = append(logs, log)
	}

	return logs, rows.Err()
}
