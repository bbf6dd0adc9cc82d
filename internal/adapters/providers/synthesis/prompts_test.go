package synthesis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/neuroassist/backend/internal/domain/entities"
)

const validPayload = `{
  "soap_note": {
    "subjective": "Headache for two days.",
    "objective": "Alert, mild photophobia.",
    "assessment": "Tension headache.",
    "plan": "Hydration and rest."
  },
  "risk_flags": ["Dehydration"],
  "low_confidence": ["photophobia"],
  "confidence": 0.88
}`

func TestParseSOAPPayload(t *testing.T) {
	t.Run("parses bare JSON", func(t *testing.T) {
		payload, err := parseSOAPPayload(validPayload)

		assert.NoError(t, err)
		assert.Equal(t, "Tension headache.", payload.SOAPNote.Assessment)
		assert.Equal(t, []string{"Dehydration"}, payload.RiskFlags)
		assert.Equal(t, []string{"photophobia"}, payload.LowConfidence)
		assert.Equal(t, 0.88, *payload.Confidence)
	})

	t.Run("recovers JSON wrapped in markdown fences", func(t *testing.T) {
		fenced := "```json\n" + validPayload + "\n```"

		payload, err := parseSOAPPayload(fenced)

		assert.NoError(t, err)
		assert.Equal(t, "Hydration and rest.", payload.SOAPNote.Plan)
	})

	t.Run("recovers JSON wrapped in bare fences", func(t *testing.T) {
		fenced := "```\n" + validPayload + "\n```"

		payload, err := parseSOAPPayload(fenced)

		assert.NoError(t, err)
		assert.Equal(t, "Headache for two days.", payload.SOAPNote.Subjective)
	})

	t.Run("fails after the recovery parse", func(t *testing.T) {
		_, err := parseSOAPPayload("```json\nThe patient should rest.\n```")

		assert.Error(t, err)
	})

	t.Run("missing confidence stays nil", func(t *testing.T) {
		payload, err := parseSOAPPayload(`{"soap_note": {"subjective": "s"}}`)

		assert.NoError(t, err)
		assert.Nil(t, payload.Confidence)
	})
}

func TestBuildSOAPPrompt(t *testing.T) {
	t.Run("includes patient context when present", func(t *testing.T) {
		prompt := buildSOAPPrompt(&entities.SynthesisRequest{
			Transcript: "Patient reports fatigue.",
			Patient: &entities.PatientProfile{
				FirstName:      "Jane",
				LastName:       "Doe",
				Gender:         "female",
				MedicalHistory: "Hypothyroidism.",
			},
		})

		assert.Contains(t, prompt, "Jane Doe")
		assert.Contains(t, prompt, "Hypothyroidism.")
		assert.Contains(t, prompt, "Patient reports fatigue.")
	})

	t.Run("prefers speaker-labeled utterances over raw transcript", func(t *testing.T) {
		prompt := buildSOAPPrompt(&entities.SynthesisRequest{
			Transcript: "raw text",
			Utterances: []entities.Utterance{
				{Speaker: "A", Text: "How are you feeling?"},
				{Speaker: "B", Text: "Tired all the time."},
			},
		})

		assert.Contains(t, prompt, "Speaker A: How are you feeling?")
		assert.Contains(t, prompt, "Speaker B: Tired all the time.")
		assert.NotContains(t, prompt, "raw text")
	})

	t.Run("omits patient section when profile is absent", func(t *testing.T) {
		prompt := buildSOAPPrompt(&entities.SynthesisRequest{Transcript: "text"})

		assert.NotContains(t, prompt, "Patient context:")
	})
}
