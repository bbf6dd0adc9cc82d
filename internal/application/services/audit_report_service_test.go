package services_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"

	"github.com/neuroassist/backend/internal/application/services"
)

func TestAuditReportService_SynthesisReport(t *testing.T) {
	t.Run("aggregates outcomes per model", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
		assert.NoError(t, err)
		defer db.Close()

		rows := sqlmock.NewRows([]string{"model", "attempts", "successes", "avg_latency_ms"}).
			AddRow("gemini-pro", 10, 8, 1250.5).
			AddRow("mock-synthesizer", 4, 4, 2.0)
		mock.ExpectQuery(`SELECT\s+model,\s+COUNT\(\*\) AS attempts`).WillReturnRows(rows)

		service := services.NewAuditReportService(sqlx.NewDb(db, "sqlmock"))

		reports, err := service.SynthesisReport(context.Background())

		assert.NoError(t, err)
		assert.Len(t, reports, 2)
		assert.Equal(t, "gemini-pro", reports[0].Model)
		assert.Equal(t, 10, reports[0].Attempts)
		assert.Equal(t, 8, reports[0].Successes)
		assert.InDelta(t, 0.8, reports[0].SuccessRate(), 0.001)
		assert.True(t, reports[0].AvgLatencyMS.Valid)
		assert.InDelta(t, 1250.5, reports[0].AvgLatencyMS.Float64, 0.001)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("model with only failures has a null latency", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
		assert.NoError(t, err)
		defer db.Close()

		rows := sqlmock.NewRows([]string{"model", "attempts", "successes", "avg_latency_ms"}).
			AddRow("gemini-pro", 3, 0, nil)
		mock.ExpectQuery(`SELECT\s+model,\s+COUNT\(\*\) AS attempts`).WillReturnRows(rows)

		service := services.NewAuditReportService(sqlx.NewDb(db, "sqlmock"))

		reports, err := service.SynthesisReport(context.Background())

		assert.NoError(t, err)
		assert.Len(t, reports, 1)
		assert.Equal(t, 0.0, reports[0].SuccessRate())
		assert.False(t, reports[0].AvgLatencyMS.Valid)
	})

	t.Run("query failure is wrapped", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
		assert.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT\s+model`).WillReturnError(assert.AnError)

		service := services.NewAuditReportService(sqlx.NewDb(db, "sqlmock"))

		_, err = service.SynthesisReport(context.Background())

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to aggregate synthesis audit log")
	})
}
