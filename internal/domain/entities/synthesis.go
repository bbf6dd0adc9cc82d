package entities

// SynthesisRequest carries everything the note synthesizer may ground on:
// the transcript, optional speaker-labeled utterances and patient context.
type SynthesisRequest struct {
	Transcript string          `json:"transcript"`
	Utterances []Utterance     `json:"utterances"`
	Patient    *PatientProfile `json:"patient"`
}

// SynthesisResult is the parsed output of the note synthesizer
type SynthesisResult struct {
	Sections           SOAPSections `json:"soap_note"`
	RiskFlags          []string     `json:"risk_flags"`
	LowConfidenceTerms []string     `json:"low_confidence"`
	Confidence         float64      `json:"confidence"`
	Model              string       `json:"model"`
}
