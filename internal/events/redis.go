package events

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

const queuePrefix = "events:"

// RedisPublisher pushes event envelopes onto a Redis list per event type
// (events:inventory.reserved, …). Downstream consumers dequeue via BRPOP.
type RedisPublisher struct {
	rdb *redis.Client
}

func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb}
}

func (p *RedisPublisher) Publish(ctx context.Context, eventType string, payload any) error {
	data, err := json.Marshal(Envelope{EventType: eventType, Payload: payload})
	if err != nil {
		return err
	}
	return p.rdb.LPush(ctx, queuePrefix+eventType, data).Err()
}
