package events

import (
	"context"

	"github.com/rs/zerolog/log"
)

// LogPublisher writes events to the structured log only. Used in development
// and as the fallback when no broker is configured.
type LogPublisher struct{}

func NewLogPublisher() *LogPublisher { return &LogPublisher{} }

func (p *LogPublisher) Publish(_ context.Context, eventType string, payload any) error {
	log.Info().Str("event_type", eventType).Interface("payload", payload).Msg("event")
	return nil
}
