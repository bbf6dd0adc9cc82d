package transcription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"

	"github.com/neuroassist/backend/internal/domain/entities"
	"github.com/neuroassist/backend/internal/domain/providers"
	"github.com/neuroassist/backend/pkg/config"
	apperrors "github.com/neuroassist/backend/pkg/errors"
)

// AssemblyAIAdapter implements TranscriptionProvider against the AssemblyAI
// REST API: submit a transcript job, then poll until it completes. The
// adapter performs no retries; any failure is fatal to the pipeline run by
// contract.
type AssemblyAIAdapter struct {
	httpClient   *resty.Client
	pollInterval time.Duration
	pollTimeout  time.Duration
}

// NewAssemblyAIAdapter creates an AssemblyAI transcription adapter
func NewAssemblyAIAdapter(cfg *config.AssemblyAIConfig) (providers.TranscriptionProvider, error) {
	if cfg == nil || cfg.APIKey == "" {
		return nil, errors.New("assemblyai api key is required")
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(30 * time.Second).
		SetHeader("Authorization", cfg.APIKey).
		SetHeader("Content-Type", "application/json")

	pollInterval := cfg.PollInterval
	if pollInterval <= 0 {
		pollInterval = 3 * time.Second
	}
	pollTimeout := cfg.PollTimeout
	if pollTimeout <= 0 {
		pollTimeout = 10 * time.Minute
	}

	return &AssemblyAIAdapter{
		httpClient:   client,
		pollInterval: pollInterval,
		pollTimeout:  pollTimeout,
	}, nil
}

type transcriptRequest struct {
	AudioURL      string `json:"audio_url"`
	SpeakerLabels bool   `json:"speaker_labels"`
	Punctuate     bool   `json:"punctuate"`
	FormatText    bool   `json:"format_text"`
}

type transcriptUtterance struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

type transcriptResponse struct {
	ID         string                `json:"id"`
	Status     string                `json:"status"`
	Text       string                `json:"text"`
	Utterances []transcriptUtterance `json:"utterances"`
	Confidence float64               `json:"confidence"`
	Error      string                `json:"error"`
}

// Transcribe submits the audio locator and polls until the job completes
func (a *AssemblyAIAdapter) Transcribe(ctx context.Context, audioURL string) (*entities.TranscriptionResult, error) {
	var submitted transcriptResponse
	resp, err := a.httpClient.R().
		SetContext(ctx).
		SetBody(transcriptRequest{
			AudioURL:      audioURL,
			SpeakerLabels: true,
			Punctuate:     true,
			FormatText:    true,
		}).
		SetResult(&submitted).
		Post("/v2/transcript")

	if err != nil {
		return nil, fmt.Errorf("%w: submit failed: %v", apperrors.ErrTranscriptionFailed, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: submit returned status %d", apperrors.ErrTranscriptionFailed, resp.StatusCode())
	}
	if submitted.ID == "" {
		return nil, fmt.Errorf("%w: submit response missing transcript id", apperrors.ErrTranscriptionFailed)
	}

	log.Debug().Str("transcript_id", submitted.ID).Msg("transcription job submitted")

	deadline := time.Now().Add(a.pollTimeout)
	for {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", apperrors.ErrTranscriptionFailed, ctx.Err())
		case <-time.After(a.pollInterval):
		}

		if time.Now().After(deadline) {
			return nil, fmt.Errorf("%w: polling timed out after %s", apperrors.ErrTranscriptionFailed, a.pollTimeout)
		}

		var status transcriptResponse
		resp, err := a.httpClient.R().
			SetContext(ctx).
			SetResult(&status).
			Get("/v2/transcript/" + submitted.ID)

		if err != nil {
			return nil, fmt.Errorf("%w: poll failed: %v", apperrors.ErrTranscriptionFailed, err)
		}
		if resp.IsError() {
			return nil, fmt.Errorf("%w: poll returned status %d", apperrors.ErrTranscriptionFailed, resp.StatusCode())
		}

		switch status.Status {
		case "completed":
			utterances := make([]entities.Utterance, 0, len(status.Utterances))
			for _, u := range status.Utterances {
				utterances = append(utterances, entities.Utterance{
					Speaker: u.Speaker,
					Text:    u.Text,
				})
			}
			return &entities.TranscriptionResult{
				Text:       status.Text,
				Utterances: utterances,
				Confidence: status.Confidence,
			}, nil
		case "error":
			return nil, fmt.Errorf("%w: %s", apperrors.ErrTranscriptionFailed, status.Error)
		}
		// queued / processing: keep polling
	}
}
