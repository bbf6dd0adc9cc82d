package providers

import (
	"context"

	"github.com/neuroassist/backend/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to pipeline
// events
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.PipelineEvent) error

	// Subscribe subscribes to events on a channel
	Subscribe(ctx context.Context, channel string) (<-chan *entities.PipelineEvent, error)

	// Unsubscribe unsubscribes from a channel
	Unsubscribe(ctx context.Context, channel string) error

	// Close closes the event bus and all subscriptions
	Close() error
}

// EventChannel constants for pipeline event routing
const (
	// EventChannelProcess carries processing triggers published after
	// audio upload
	EventChannelProcess = "consultation:process"

	// EventChannelOutcomes carries terminal COMPLETED/FAILED announcements
	EventChannelOutcomes = "consultation:outcomes"

	// EventChannelConsultationPrefix is the prefix for per-consultation
	// channels
	EventChannelConsultationPrefix = "consultation:"
)

// GetConsultationChannel returns the channel name for a specific consultation
func GetConsultationChannel(consultationID string) string {
	return EventChannelConsultationPrefix + consultationID
}
