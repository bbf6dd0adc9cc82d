package synthesis

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/neuroassist/backend/internal/domain/entities"
)

const soapSystemPrompt = `You are a clinical documentation assistant. Given the transcript of a medical consultation, generate a structured SOAP note. Return ONLY valid JSON with this schema:
{
  "soap_note": {
    "subjective": string,
    "objective": string,
    "assessment": string,
    "plan": string
  },
  "risk_flags": string[] (safety concerns explicitly supported by the transcript, e.g. "Suicide Risk"),
  "low_confidence": string[] (terms from the transcript you could not resolve with confidence),
  "confidence": number between 0 and 1
}
Never invent symptoms, measurements, medications or history that are absent from the transcript. When a term is ambiguous or inaudible, do not guess: list it in low_confidence and leave it out of the note. Do not include medical advice beyond what the clinician stated.`

func buildSOAPPrompt(req *entities.SynthesisRequest) string {
	var b strings.Builder
	b.WriteString(soapSystemPrompt)
	b.WriteString("\n\n")

	if req.Patient != nil {
		b.WriteString("Patient context:\n")
		b.WriteString(fmt.Sprintf("Name: %s\n", req.Patient.FullName()))
		if req.Patient.Gender != "" {
			b.WriteString(fmt.Sprintf("Gender: %s\n", req.Patient.Gender))
		}
		if req.Patient.MedicalHistory != "" {
			b.WriteString(fmt.Sprintf("Medical history: %s\n", req.Patient.MedicalHistory))
		}
		b.WriteString("\n")
	}

	if len(req.Utterances) > 0 {
		b.WriteString("Transcript (speaker-labeled):\n")
		for _, u := range req.Utterances {
			b.WriteString(fmt.Sprintf("Speaker %s: %s\n", u.Speaker, u.Text))
		}
	} else {
		b.WriteString("Transcript:\n")
		b.WriteString(req.Transcript)
		b.WriteString("\n")
	}

	return b.String()
}

// parseSOAPPayload parses the model output. A direct parse is attempted
// first; if the model wrapped the JSON in markdown fences, one recovery
// parse runs on the stripped text.
func parseSOAPPayload(text string) (*soapPayload, error) {
	var payload soapPayload
	if err := json.Unmarshal([]byte(text), &payload); err == nil {
		return &payload, nil
	}

	cleaned := stripMarkdownFences(text)
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, fmt.Errorf("failed to parse SOAP payload: %w", err)
	}
	return &payload, nil
}

func stripMarkdownFences(text string) string {
	cleaned := strings.TrimSpace(text)
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimSuffix(cleaned, "```")
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(cleaned, "```")
	}
	return strings.TrimSpace(cleaned)
}
