package services

import (
	"strings"

	"github.com/neuroassist/backend/internal/domain/entities"
)

// Keyword tiers evaluated top to bottom; the first satisfied tier wins.
var (
	criticalKeywords = []string{"suicide", "harm", "abuse", "emergency", "chest pain", "stroke", "heart attack"}
	highKeywords     = []string{"severe pain", "high fever", "shortness of breath", "fainting"}
	moderateKeywords = []string{"pain", "infection", "vomiting", "diarrhea", "rash", "fever"}
)

// Urgency scores per tier
const (
	scoreCriticalFlag = 95
	scoreCriticalText = 90
	scoreHigh         = 75
	scoreModerate     = 50
	scoreLow          = 20
)

// TriageService computes the urgency score and category for a generated
// note. Pure and deterministic: no I/O, no randomness.
type TriageService struct{}

// NewTriageService creates a new triage service
func NewTriageService() *TriageService {
	return &TriageService{}
}

// CalculateUrgency returns a score in [0,100] and exactly one category.
// Explicit risk flags are checked before free text; matching is
// case-insensitive substring matching.
func (s *TriageService) CalculateUrgency(note *entities.SOAPNote, profile *entities.PatientProfile) (int, entities.TriageCategory) {
	subjective := strings.ToLower(note.Sections.Subjective)
	assessment := strings.ToLower(note.Sections.Assessment)

	// 1. Critical: explicit risk flags outrank text matches
	for _, flag := range note.RiskFlags {
		if containsAny(strings.ToLower(flag), criticalKeywords) {
			return scoreCriticalFlag, entities.TriageCategoryCritical
		}
	}
	if containsAny(subjective, criticalKeywords) || containsAny(assessment, criticalKeywords) {
		return scoreCriticalText, entities.TriageCategoryCritical
	}

	// 2. High urgency
	if containsAny(subjective, highKeywords) {
		return scoreHigh, entities.TriageCategoryHigh
	}

	// 3. Moderate urgency
	if containsAny(subjective, moderateKeywords) {
		return scoreModerate, entities.TriageCategoryModerate
	}

	// 4. Low urgency default
	return scoreLow, entities.TriageCategoryLow
}

func containsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}
