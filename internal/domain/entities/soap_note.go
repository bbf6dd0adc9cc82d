package entities

import (
	"time"
)

// SOAPSections holds the four structured sections of a clinical SOAP note
type SOAPSections struct {
	Subjective string `json:"subjective"`
	Objective  string `json:"objective"`
	Assessment string `json:"assessment"`
	Plan       string `json:"plan"`
}

// SOAPNote represents the structured note for a consultation. Created exactly
// once per consultation, either by the synthesis stage or by manual entry.
type SOAPNote struct {
	ID                 string       `json:"id" db:"id"`
	ConsultationID     string       `json:"consultation_id" db:"consultation_id"`
	Sections           SOAPSections `json:"sections" db:"sections"`
	RiskFlags          []string     `json:"risk_flags" db:"risk_flags"`
	LowConfidenceTerms []string     `json:"low_confidence_terms" db:"low_confidence_terms"`
	Confidence         float64      `json:"confidence" db:"confidence"`
	GeneratedByAI      bool         `json:"generated_by_ai" db:"generated_by_ai"`
	CreatedAt          time.Time    `json:"created_at" db:"created_at"`
}
