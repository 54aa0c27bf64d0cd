package redisservice

import (
	"context"
	"fmt"
	"time"
)

const janitorLockKey = Prefix + "janitorLock-%s"

// IsJanitorTaskLock reports whether another instance is already running the
// task.
func (s *RedisService) IsJanitorTaskLock(ctx context.Context, task string) bool {
	val, _ := s.rc.Get(ctx, fmt.Sprintf(janitorLockKey, task)).Result()
	return val != ""
}

func (s *RedisService) LockJanitorTask(ctx context.Context, task string, duration time.Duration) {
	err := s.rc.Set(ctx, fmt.Sprintf(janitorLockKey, task), "locked", duration).Err()
	if err != nil {
		s.logger.WithError(err).Errorln("LockJanitorTask failed")
	}
}

func (s *RedisService) UnlockJanitorTask(ctx context.Context, task string) {
	_, _ = s.rc.Del(ctx, fmt.Sprintf(janitorLockKey, task)).Result()
}
