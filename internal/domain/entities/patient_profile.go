package entities

import (
	"time"
)

// PatientProfile holds the demographic and history fields consumed read-only
// by triage and safety. Owned by patient management.
type PatientProfile struct {
	UserID             string     `json:"user_id" db:"user_id"`
	FirstName          string     `json:"first_name" db:"first_name"`
	LastName           string     `json:"last_name" db:"last_name"`
	DateOfBirth        *time.Time `json:"date_of_birth" db:"date_of_birth"`
	Gender             string     `json:"gender" db:"gender"`
	MedicalHistory     string     `json:"medical_history" db:"medical_history"`
	Allergies          string     `json:"allergies" db:"allergies"`
	CurrentMedications string     `json:"current_medications" db:"current_medications"`
	CreatedAt          time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at" db:"updated_at"`
}

// FullName returns the display name used by dashboard queues.
func (p *PatientProfile) FullName() string {
	return p.FirstName + " " + p.LastName
}

// Age returns the patient age in whole years, or -1 when unknown.
func (p *PatientProfile) Age(now time.Time) int {
	if p.DateOfBirth == nil {
		return -1
	}
	years := now.Year() - p.DateOfBirth.Year()
	anniversary := p.DateOfBirth.AddDate(years, 0, 0)
	if anniversary.After(now) {
		years--
	}
	return years
}
