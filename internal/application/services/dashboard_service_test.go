package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/neuroassist/backend/internal/domain/entities"
	"github.com/neuroassist/backend/internal/domain/repositories"
)

// fakeConsultationRepo returns canned queue rows; only the list methods are
// exercised by the dashboard.
type fakeConsultationRepo struct {
	repositories.ConsultationRepository
	completed []*repositories.ConsultationWithPatient
	review    []*repositories.ConsultationWithPatient
}

func (f *fakeConsultationRepo) ListCompletedByPriority(ctx context.Context, limit int) ([]*repositories.ConsultationWithPatient, error) {
	return f.completed, nil
}

func (f *fakeConsultationRepo) ListRequiringManualReview(ctx context.Context, limit int) ([]*repositories.ConsultationWithPatient, error) {
	return f.review, nil
}

func queueRow(id, name string, score int, category entities.TriageCategory, createdAt time.Time) *repositories.ConsultationWithPatient {
	return &repositories.ConsultationWithPatient{
		Consultation: &entities.Consultation{
			ID:             id,
			Status:         entities.ConsultationStatusCompleted,
			UrgencyScore:   &score,
			TriageCategory: &category,
			CreatedAt:      createdAt,
		},
		PatientName: name,
	}
}

func TestDashboardService_PriorityQueue(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	repo := &fakeConsultationRepo{
		completed: []*repositories.ConsultationWithPatient{
			queueRow("c-1", "Alice Smith", 95, entities.TriageCategoryCritical, now.Add(-30*time.Minute)),
			queueRow("c-2", "Bob Jones", 75, entities.TriageCategoryHigh, now.Add(-90*time.Minute)),
			queueRow("c-3", "Carol White", 20, entities.TriageCategoryLow, now.Add(-5*time.Minute)),
		},
	}

	service := NewDashboardService(repo)
	service.now = func() time.Time { return now }

	entries, err := service.PriorityQueue(context.Background(), 10)

	assert.NoError(t, err)
	assert.Len(t, entries, 3)

	// Repository ordering is preserved: urgency descending.
	assert.Equal(t, "c-1", entries[0].ConsultationID)
	assert.Equal(t, 95, entries[0].UrgencyScore)
	assert.Equal(t, entities.TriageCategoryCritical, entries[0].TriageCategory)
	assert.Equal(t, 30, entries[0].WaitTimeMinutes)

	assert.Equal(t, "c-2", entries[1].ConsultationID)
	assert.Equal(t, 90, entries[1].WaitTimeMinutes)

	assert.Equal(t, "c-3", entries[2].ConsultationID)
	assert.Equal(t, 5, entries[2].WaitTimeMinutes)
}

func TestDashboardService_PriorityQueue_MissingTriageFields(t *testing.T) {
	repo := &fakeConsultationRepo{
		completed: []*repositories.ConsultationWithPatient{
			{
				Consultation: &entities.Consultation{ID: "c-1", Status: entities.ConsultationStatusCompleted},
				PatientName:  "Dana Green",
			},
		},
	}

	service := NewDashboardService(repo)

	entries, err := service.PriorityQueue(context.Background(), 10)

	assert.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, 0, entries[0].UrgencyScore)
	assert.Equal(t, 0, entries[0].WaitTimeMinutes)
}

func TestDashboardService_ManualReviewQueue(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	repo := &fakeConsultationRepo{
		review: []*repositories.ConsultationWithPatient{
			{
				Consultation: &entities.Consultation{
					ID:                   "c-9",
					Status:               entities.ConsultationStatusFailed,
					RequiresManualReview: true,
					CreatedAt:            now.Add(-45 * time.Minute),
				},
				PatientName: "Evan Black",
			},
		},
	}

	service := NewDashboardService(repo)
	service.now = func() time.Time { return now }

	entries, err := service.ManualReviewQueue(context.Background(), 10)

	assert.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, "c-9", entries[0].ConsultationID)
	assert.Equal(t, "Evan Black", entries[0].PatientName)
	assert.Equal(t, "AI Processing Failed (Quota/Error)", entries[0].Reason)
	assert.Equal(t, "REQUIRES_REVIEW", entries[0].Status)
	assert.Equal(t, "45 min", entries[0].WaitTime)
}
