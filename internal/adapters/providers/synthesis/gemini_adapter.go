package synthesis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/neuroassist/backend/internal/domain/entities"
	"github.com/neuroassist/backend/pkg/config"
	apperrors "github.com/neuroassist/backend/pkg/errors"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GeminiAdapter implements NoteSynthesizer against the Gemini generateContent
// API. Failures before a response body is parsed are classified transient;
// a response that cannot be parsed as the expected JSON after one recovery
// pass is classified as a parse failure. Retry policy belongs to the caller.
type GeminiAdapter struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewGeminiAdapter creates a Gemini note synthesis adapter
func NewGeminiAdapter(cfg *config.GeminiConfig) (*GeminiAdapter, error) {
	if cfg == nil || cfg.APIKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	model := cfg.Model
	if model == "" {
		model = "gemini-pro"
	}

	return &GeminiAdapter{
		apiKey:  cfg.APIKey,
		model:   model,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}, nil
}

// Model identifies the model for audit records
func (g *GeminiAdapter) Model() string {
	return g.model
}

type generatePart struct {
	Text string `json:"text"`
}

type generateContent struct {
	Parts []generatePart `json:"parts"`
}

type generateCandidate struct {
	Content generateContent `json:"content"`
}

type generateResponse struct {
	Candidates []generateCandidate `json:"candidates"`
}

type soapPayload struct {
	SOAPNote      entities.SOAPSections `json:"soap_note"`
	RiskFlags     []string              `json:"risk_flags"`
	LowConfidence []string              `json:"low_confidence"`
	Confidence    *float64              `json:"confidence"`
}

// Synthesize calls the generative service once and parses its structured
// output
func (g *GeminiAdapter) Synthesize(ctx context.Context, req *entities.SynthesisRequest) (*entities.SynthesisResult, error) {
	if req == nil || req.Transcript == "" {
		return nil, errors.New("transcript is required")
	}

	payload := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]string{
					{"text": buildSOAPPrompt(req)},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"temperature":     0.2,
			"maxOutputTokens": 1024,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrSynthesisTransient, err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.baseURL, g.model, g.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrSynthesisTransient, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrSynthesisTransient, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: gemini request failed with status %d", apperrors.ErrSynthesisTransient, resp.StatusCode)
	}

	var envelope generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrSynthesisTransient, err)
	}

	var text string
	for _, candidate := range envelope.Candidates {
		for _, part := range candidate.Content.Parts {
			if part.Text != "" {
				text = part.Text
				break
			}
		}
		if text != "" {
			break
		}
	}

	if text == "" {
		return nil, fmt.Errorf("%w: gemini response missing output text", apperrors.ErrSynthesisTransient)
	}

	parsed, err := parseSOAPPayload(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrSynthesisParse, err)
	}

	confidence := 0.95
	if parsed.Confidence != nil {
		confidence = *parsed.Confidence
	}

	return &entities.SynthesisResult{
		Sections:           parsed.SOAPNote,
		RiskFlags:          parsed.RiskFlags,
		LowConfidenceTerms: parsed.LowConfidence,
		Confidence:         confidence,
		Model:              g.model,
	}, nil
}
