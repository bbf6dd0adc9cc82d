package entities

import (
	"time"
)

// AILogStatus represents the outcome of one synthesis attempt cycle
type AILogStatus string

const (
	AILogStatusSuccess AILogStatus = "SUCCESS"
	AILogStatusFail    AILogStatus = "FAIL"
)

// AILog is an append-only audit record of a note synthesis outcome. Latency
// is recorded only on success; rows are never updated or deleted.
type AILog struct {
	ID             string      `json:"id" db:"id"`
	ConsultationID string      `json:"consultation_id" db:"consultation_id"`
	Model          string      `json:"model" db:"model"`
	Status         AILogStatus `json:"status" db:"status"`
	LatencyMS      *int64      `json:"latency_ms" db:"latency_ms"`
	ErrorMessage   *string     `json:"error_message" db:"error_message"`
	CreatedAt      time.Time   `json:"created_at" db:"created_at"`
}
