package entities

import (
	"time"
)

// ConsultationStatus represents the processing phase of a consultation
type ConsultationStatus string

const (
	ConsultationStatusScheduled    ConsultationStatus = "SCHEDULED"
	ConsultationStatusTranscribing ConsultationStatus = "TRANSCRIBING"
	ConsultationStatusTranscribed  ConsultationStatus = "TRANSCRIBED"
	ConsultationStatusSynthesizing ConsultationStatus = "SYNTHESIZING"
	ConsultationStatusCompleted    ConsultationStatus = "COMPLETED"
	ConsultationStatusFailed       ConsultationStatus = "FAILED"
)

// IsTerminal reports whether the status ends a pipeline run.
func (s ConsultationStatus) IsTerminal() bool {
	return s == ConsultationStatusCompleted || s == ConsultationStatusFailed
}

// IsProcessing reports whether a pipeline run owns the consultation.
func (s ConsultationStatus) IsProcessing() bool {
	switch s {
	case ConsultationStatusTranscribing, ConsultationStatusTranscribed, ConsultationStatusSynthesizing:
		return true
	}
	return false
}

// TriageCategory represents the urgency band assigned by triage
type TriageCategory string

const (
	TriageCategoryCritical TriageCategory = "CRITICAL"
	TriageCategoryHigh     TriageCategory = "HIGH"
	TriageCategoryModerate TriageCategory = "MODERATE"
	TriageCategoryLow      TriageCategory = "LOW"
)

// Rank returns the priority order of the category, 0 being the most urgent.
func (c TriageCategory) Rank() int {
	switch c {
	case TriageCategoryCritical:
		return 0
	case TriageCategoryHigh:
		return 1
	case TriageCategoryModerate:
		return 2
	default:
		return 3
	}
}

// Consultation represents a recorded clinical consultation and the outcome of
// its automated processing. Identity fields are owned by booking; status,
// score and warning fields are owned by the pipeline.
type Consultation struct {
	ID                   string             `json:"id" db:"id"`
	PatientID            string             `json:"patient_id" db:"patient_id"`
	DoctorID             string             `json:"doctor_id" db:"doctor_id"`
	AppointmentID        string             `json:"appointment_id" db:"appointment_id"`
	Status               ConsultationStatus `json:"status" db:"status"`
	UrgencyScore         *int               `json:"urgency_score" db:"urgency_score"`
	TriageCategory       *TriageCategory    `json:"triage_category" db:"triage_category"`
	SafetyWarnings       []SafetyWarning    `json:"safety_warnings" db:"safety_warnings"`
	RequiresManualReview bool               `json:"requires_manual_review" db:"requires_manual_review"`
	CreatedAt            time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time          `json:"updated_at" db:"updated_at"`
}
