package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/markmanipula/QuickCourt-Backend/internal/entity"

	"github.com/redis/go-redis/v9"
)

const eventKeyPrefix = "event:"

type EventCacheRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewEventCacheRepository(client *redis.Client, ttl time.Duration) *EventCacheRepository {
	return &EventCacheRepository{
		client: client,
		ttl:    ttl,
	}
}

// Get returns (nil, nil) on a cache miss.
func (r *EventCacheRepository) Get(ctx context.Context, id string) (*entity.Event, error) {
	data, err := r.client.Get(ctx, eventKeyPrefix+id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var event entity.Event
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *EventCacheRepository) Set(ctx context.Context, event *entity.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return r.client.Set(ctx, eventKeyPrefix+event.ID, data, r.ttl).Err()
}

func (r *EventCacheRepository) Invalidate(ctx context.Context, id string) error {
	return r.client.Del(ctx, eventKeyPrefix+id).Err()
}
