package entities

// TranscriptionResult is the output of the speech-to-text provider. Utterances
// may be empty when the remote service did not segment speakers.
type TranscriptionResult struct {
	Text       string      `json:"text"`
	Utterances []Utterance `json:"utterances"`
	Confidence float64     `json:"confidence"`
}
