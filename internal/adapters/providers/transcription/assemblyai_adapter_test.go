package transcription_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/neuroassist/backend/internal/adapters/providers/transcription"
	"github.com/neuroassist/backend/pkg/config"
	apperrors "github.com/neuroassist/backend/pkg/errors"
)

func testConfig(baseURL string) *config.AssemblyAIConfig {
	return &config.AssemblyAIConfig{
		APIKey:       "test-key",
		BaseURL:      baseURL,
		PollInterval: 5 * time.Millisecond,
		PollTimeout:  2 * time.Second,
	}
}

func TestAssemblyAIAdapter_Transcribe(t *testing.T) {
	t.Run("submits then polls until completion", func(t *testing.T) {
		var polls int64
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch {
			case r.Method == http.MethodPost && r.URL.Path == "/v2/transcript":
				assert.Equal(t, "test-key", r.Header.Get("Authorization"))
				var body map[string]interface{}
				json.NewDecoder(r.Body).Decode(&body)
				assert.Equal(t, true, body["speaker_labels"])
				json.NewEncoder(w).Encode(map[string]string{"id": "tr-1", "status": "queued"})
			case r.Method == http.MethodGet && r.URL.Path == "/v2/transcript/tr-1":
				if atomic.AddInt64(&polls, 1) < 3 {
					json.NewEncoder(w).Encode(map[string]string{"id": "tr-1", "status": "processing"})
					return
				}
				json.NewEncoder(w).Encode(map[string]interface{}{
					"id":     "tr-1",
					"status": "completed",
					"text":   "Doctor: how do you feel? Patient: dizzy.",
					"utterances": []map[string]string{
						{"speaker": "A", "text": "How do you feel?"},
						{"speaker": "B", "text": "Dizzy."},
					},
					"confidence": 0.91,
				})
			default:
				w.WriteHeader(http.StatusNotFound)
			}
		}))
		defer server.Close()

		adapter, err := transcription.NewAssemblyAIAdapter(testConfig(server.URL))
		assert.NoError(t, err)

		result, err := adapter.Transcribe(context.Background(), "https://storage/audio.wav")

		assert.NoError(t, err)
		assert.Equal(t, "Doctor: how do you feel? Patient: dizzy.", result.Text)
		assert.Len(t, result.Utterances, 2)
		assert.Equal(t, "B", result.Utterances[1].Speaker)
		assert.Equal(t, 0.91, result.Confidence)
		assert.GreaterOrEqual(t, atomic.LoadInt64(&polls), int64(3))
	})

	t.Run("remote error status fails the transcription", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost {
				json.NewEncoder(w).Encode(map[string]string{"id": "tr-2", "status": "queued"})
				return
			}
			json.NewEncoder(w).Encode(map[string]string{"id": "tr-2", "status": "error", "error": "audio unreadable"})
		}))
		defer server.Close()

		adapter, err := transcription.NewAssemblyAIAdapter(testConfig(server.URL))
		assert.NoError(t, err)

		_, err = adapter.Transcribe(context.Background(), "https://storage/audio.wav")

		assert.ErrorIs(t, err, apperrors.ErrTranscriptionFailed)
		assert.Contains(t, err.Error(), "audio unreadable")
	})

	t.Run("submit rejection fails the transcription", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		adapter, err := transcription.NewAssemblyAIAdapter(testConfig(server.URL))
		assert.NoError(t, err)

		_, err = adapter.Transcribe(context.Background(), "https://storage/audio.wav")

		assert.ErrorIs(t, err, apperrors.ErrTranscriptionFailed)
	})

	t.Run("polling stops when the timeout elapses", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost {
				json.NewEncoder(w).Encode(map[string]string{"id": "tr-3", "status": "queued"})
				return
			}
			json.NewEncoder(w).Encode(map[string]string{"id": "tr-3", "status": "processing"})
		}))
		defer server.Close()

		cfg := testConfig(server.URL)
		cfg.PollTimeout = 20 * time.Millisecond

		adapter, err := transcription.NewAssemblyAIAdapter(cfg)
		assert.NoError(t, err)

		_, err = adapter.Transcribe(context.Background(), "https://storage/audio.wav")

		assert.ErrorIs(t, err, apperrors.ErrTranscriptionFailed)
	})

	t.Run("requires an api key", func(t *testing.T) {
		_, err := transcription.NewAssemblyAIAdapter(&config.AssemblyAIConfig{})

		assert.Error(t, err)
	})
}
