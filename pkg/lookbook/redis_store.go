package lookbook

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "lookbook:"

// RedisStore keeps shares in Redis so links survive process restarts. The
// TTL is enforced by Redis itself.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

var _ Store = (*RedisStore)(nil)

func (s *RedisStore) Save(ctx context.Context, share Share) error {
	payload, err := json.Marshal(share)
	if err != nil {
		return err
	}
	ttl := time.Until(share.ExpiresAt)
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return s.client.Set(ctx, redisKeyPrefix+share.ID, payload, ttl).Err()
}

func (s *RedisStore) Get(ctx context.Context, id string) (Share, error) {
	payload, err := s.client.Get(ctx, redisKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return Share{}, ErrNotFound
	}
	if err != nil {
		return Share{}, err
	}

	var share Share
	if err := json.Unmarshal(payload, &share); err != nil {
		return Share{}, err
	}
	return share, nil
}
