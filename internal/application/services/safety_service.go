package services

import (
	"strings"

	"github.com/neuroassist/backend/internal/domain/entities"
)

// interaction is one entry of the static contraindication knowledge base.
// Severity is an explicit field; the message carries no classification.
type interaction struct {
	Drug      string
	Condition string
	Severity  entities.WarningSeverity
	Message   string
}

var interactionTable = []interaction{
	{
		Drug:      "aspirin",
		Condition: "ulcer",
		Severity:  entities.WarningSeverityContraindication,
		Message:   "Aspirin specified in plan but patient has history of Ulcers (Risk of bleeding).",
	},
	{
		Drug:      "aspirin",
		Condition: "bleeding",
		Severity:  entities.WarningSeverityContraindication,
		Message:   "Aspirin specified in plan but patient has history of Bleeding disorders.",
	},
	{
		Drug:      "penicillin",
		Condition: "allergy",
		Severity:  entities.WarningSeverityContraindication,
		Message:   "Penicillin specified in plan but patient has reported Allergies.",
	},
	{
		Drug:      "ibuprofen",
		Condition: "kidney",
		Severity:  entities.WarningSeverityCaution,
		Message:   "Ibuprofen may be risky for patients with Kidney issues.",
	},
	{
		Drug:      "beta blocker",
		Condition: "asthma",
		Severity:  entities.WarningSeverityCaution,
		Message:   "Beta blockers may exacerbate Asthma.",
	},
}

// SafetyService evaluates the treatment plan against the patient history for
// drug/condition contraindications. Pure and deterministic.
type SafetyService struct{}

// NewSafetyService creates a new safety service
func NewSafetyService() *SafetyService {
	return &SafetyService{}
}

// CheckInteractions returns one warning per table entry whose drug keyword
// appears in the plan and condition keyword in the medical history. Warnings
// follow table declaration order; no deduplication.
func (s *SafetyService) CheckInteractions(note *entities.SOAPNote, profile *entities.PatientProfile) []entities.SafetyWarning {
	plan := strings.ToLower(note.Sections.Plan)

	var history string
	if profile != nil {
		history = strings.ToLower(profile.MedicalHistory)
	}

	var warnings []entities.SafetyWarning
	for _, entry := range interactionTable {
		if strings.Contains(plan, entry.Drug) && strings.Contains(history, entry.Condition) {
			warnings = append(warnings, entities.SafetyWarning{
				Severity:  entry.Severity,
				Message:   entry.Message,
				Drug:      entry.Drug,
				Condition: entry.Condition,
			})
		}
	}

	return warnings
}
