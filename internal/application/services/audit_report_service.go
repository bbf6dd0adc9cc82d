package services

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	apperrors "github.com/neuroassist/backend/pkg/errors"
)

// ModelReport aggregates synthesis outcomes for one model/version
type ModelReport struct {
	Model        string          `db:"model" json:"model"`
	Attempts     int             `db:"attempts" json:"attempts"`
	Successes    int             `db:"successes" json:"successes"`
	AvgLatencyMS sql.NullFloat64 `db:"avg_latency_ms" json:"avg_latency_ms"`
}

// SuccessRate returns the fraction of successful synthesis outcomes
func (r *ModelReport) SuccessRate() float64 {
	if r.Attempts == 0 {
		return 0
	}
	return float64(r.Successes) / float64(r.Attempts)
}

// AuditReportService aggregates the append-only synthesis audit log for the
// dashboard. It reads ai_logs directly rather than going through the
// repository layer because the report is a single grouped query.
type AuditReportService struct {
	db *sqlx.DB
}

// NewAuditReportService creates a new audit report service
func NewAuditReportService(db *sqlx.DB) *AuditReportService {
	return &AuditReportService{db: db}
}

const synthesisReportQuery = `
SELECT
    model,
    COUNT(*) AS attempts,
    COUNT(*) FILTER (WHERE status = 'SUCCESS') AS successes,
    AVG(latency_ms) FILTER (WHERE status = 'SUCCESS') AS avg_latency_ms
FROM ai_logs
GROUP BY model
ORDER BY model`

// SynthesisReport returns per-model synthesis outcome aggregates
func (s *AuditReportService) SynthesisReport(ctx context.Context) ([]ModelReport, error) {
	var reports []ModelReport
	if err := s.db.SelectContext(ctx, &reports, synthesisReportQuery); err != nil {
		return nil, apperrors.NewInternalError("failed to aggregate synthesis audit log", err)
	}
	return reports, nil
}
