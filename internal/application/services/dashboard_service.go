package services

import (
	"context"
	"fmt"
	"time"

	"github.com/neuroassist/backend/internal/domain/entities"
	"github.com/neuroassist/backend/internal/domain/repositories"
)

// QueueEntry is one row of the prioritized patient queue
type QueueEntry struct {
	ConsultationID  string                  `json:"consultation_id"`
	PatientName     string                  `json:"patient_name"`
	UrgencyScore    int                     `json:"urgency_score"`
	TriageCategory  entities.TriageCategory `json:"triage_category"`
	WaitTimeMinutes int                     `json:"wait_time_minutes"`
	SafetyWarnings  int                     `json:"safety_warnings"`
}

// ReviewQueueEntry is one row of the manual review queue
type ReviewQueueEntry struct {
	ConsultationID string `json:"consultation_id"`
	PatientName    string `json:"patient_name"`
	Reason         string `json:"reason"`
	WaitTime       string `json:"wait_time"`
	Status         string `json:"status"`
}

// DashboardService assembles the doctor-facing queues from completed and
// failed consultations.
type DashboardService struct {
	consultationRepo repositories.ConsultationRepository

	// now is injectable for deterministic wait-time tests
	now func() time.Time
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(consultationRepo repositories.ConsultationRepository) *DashboardService {
	return &DashboardService{
		consultationRepo: consultationRepo,
		now:              time.Now,
	}
}

// PriorityQueue returns completed consultations, most urgent first; within
// the same urgency the longest-waiting patient comes first.
func (s *DashboardService) PriorityQueue(ctx context.Context, limit int) ([]QueueEntry, error) {
	rows, err := s.consultationRepo.ListCompletedByPriority(ctx, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]QueueEntry, 0, len(rows))
	for _, row := range rows {
		entry := QueueEntry{
			ConsultationID:  row.Consultation.ID,
			PatientName:     row.PatientName,
			WaitTimeMinutes: s.waitMinutes(row.Consultation.CreatedAt),
			SafetyWarnings:  len(row.Consultation.SafetyWarnings),
		}
		if row.Consultation.UrgencyScore != nil {
			entry.UrgencyScore = *row.Consultation.UrgencyScore
		}
		if row.Consultation.TriageCategory != nil {
			entry.TriageCategory = *row.Consultation.TriageCategory
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// ManualReviewQueue returns consultations whose automated processing failed
// and require human intervention.
func (s *DashboardService) ManualReviewQueue(ctx context.Context, limit int) ([]ReviewQueueEntry, error) {
	rows, err := s.consultationRepo.ListRequiringManualReview(ctx, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]ReviewQueueEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, ReviewQueueEntry{
			ConsultationID: row.Consultation.ID,
			PatientName:    row.PatientName,
			Reason:         "AI Processing Failed (Quota/Error)",
			WaitTime:       fmt.Sprintf("%d min", s.waitMinutes(row.Consultation.CreatedAt)),
			Status:         "REQUIRES_REVIEW",
		})
	}

	return entries, nil
}

func (s *DashboardService) waitMinutes(createdAt time.Time) int {
	if createdAt.IsZero() {
		return 0
	}
	return int(s.now().Sub(createdAt).Minutes())
}
