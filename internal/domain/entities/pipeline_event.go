package entities

import (
	"time"
)

// PipelineEventType identifies the kind of pipeline event
type PipelineEventType string

const (
	// PipelineEventProcessRequested asks the worker pool to run the
	// pipeline for a consultation (published after audio upload).
	PipelineEventProcessRequested PipelineEventType = "process_requested"

	// PipelineEventCompleted announces a terminal COMPLETED transition.
	PipelineEventCompleted PipelineEventType = "completed"

	// PipelineEventFailed announces a terminal FAILED transition.
	PipelineEventFailed PipelineEventType = "failed"
)

// PipelineEvent is the payload carried on the pipeline trigger bus
type PipelineEvent struct {
	ID             string            `json:"id"`
	ConsultationID string            `json:"consultation_id"`
	Type           PipelineEventType `json:"type"`
	EmittedAt      time.Time         `json:"emitted_at"`
}
