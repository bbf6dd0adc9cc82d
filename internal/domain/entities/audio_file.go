package entities

import (
	"time"
)

// Utterance is one speaker-labeled segment of a transcript
type Utterance struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

// AudioFile represents the uploaded consultation recording. One-to-one with a
// consultation; the transcript fields are filled by the speech-to-text stage.
type AudioFile struct {
	ID             string      `json:"id" db:"id"`
	ConsultationID string      `json:"consultation_id" db:"consultation_id"`
	FileURL        string      `json:"file_url" db:"file_url"`
	Transcript     *string     `json:"transcript" db:"transcript"`
	Utterances     []Utterance `json:"utterances" db:"utterances"`
	Confidence     *float64    `json:"confidence" db:"confidence"`
	CreatedAt      time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at" db:"updated_at"`
}

// HasTranscript reports whether the transcription checkpoint already passed,
// allowing a resumed run to skip the speech-to-text call.
func (a *AudioFile) HasTranscript() bool {
	return a.Transcript != nil && *a.Transcript != ""
}
