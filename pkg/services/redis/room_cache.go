package redisservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const roomCallbackKey = Prefix + "roomCallback:%s"

// StoreRoomCallbackState caches the created room's payload under an
// unauthenticated callback id, so another browsing context can fetch it.
func (s *RedisService) StoreRoomCallbackState(ctx context.Context, callbackID string, payload []byte, ttl time.Duration) error {
	key := fmt.Sprintf(roomCallbackKey, callbackID)
	return s.rc.Set(ctx, key, payload, ttl).Err()
}

// GetRoomCallbackState returns the cached payload, nil when the callback id
// is unknown or expired. The state is one-shot, it is deleted on first read.
func (s *RedisService) GetRoomCallbackState(ctx context.Context, callbackID string) ([]byte, error) {
	key := fmt.Sprintf(roomCallbackKey, callbackID)
	val, err := s.rc.GetDel(ctx, key).Result()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, nil
	case err != nil:
		return nil, err
	}

	return []byte(val), nil
}
