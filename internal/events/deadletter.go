package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const deadLetterKey = "events:deadletter"

// DeadLetterEntry preserves an event that could not be published, with enough
// metadata to replay or inspect it by hand.
type DeadLetterEntry struct {
	EventType string          `json:"event_type"`
	Payload   json.RawMessage `json:"payload"`
	Reason    string          `json:"reason"`
	FailedAt  string          `json:"failed_at"` // RFC 3339
}

// DeadLetterPublisher decorates a Publisher: when the inner sink rejects an
// event, the envelope is parked on a Redis list instead of being dropped on
// the floor. The original error still propagates so the caller's
// fire-and-forget logging sees it.
type DeadLetterPublisher struct {
	inner Publisher
	rdb   *redis.Client
}

func NewDeadLetterPublisher(inner Publisher, rdb *redis.Client) *DeadLetterPublisher {
	return &DeadLetterPublisher{inner: inner, rdb: rdb}
}

func (p *DeadLetterPublisher) Publish(ctx context.Context, eventType string, payload any) error {
	err := p.inner.Publish(ctx, eventType, payload)
	if err == nil {
		return nil
	}
	p.park(ctx, eventType, payload, err)
	return err
}

func (p *DeadLetterPublisher) park(ctx context.Context, eventType string, payload any, cause error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Str("event_type", eventType).Msg("dead letter: failed to marshal payload")
		return
	}
	entry := DeadLetterEntry{
		EventType: eventType,
		Payload:   raw,
		Reason:    cause.Error(),
		FailedAt:  time.Now().UTC().Format(time.RFC3339),
	}
	data, err := json.Marshal(entry)
	if err != nil {
		log.Error().Err(err).Str("event_type", eventType).Msg("dead letter: failed to marshal entry")
		return
	}
	if err := p.rdb.LPush(ctx, deadLetterKey, data).Err(); err != nil {
		log.Error().Err(err).Str("event_type", eventType).Msg("dead letter: failed to park event")
		return
	}
	log.Warn().Str("event_type", eventType).Str("reason", cause.Error()).Msg("event parked in dead letter queue")
}

// DeadLetterLength reports how many events are parked, for monitoring.
func DeadLetterLength(ctx context.Context, rdb *redis.Client) (int64, error) {
	return rdb.LLen(ctx, deadLetterKey).Result()
}
