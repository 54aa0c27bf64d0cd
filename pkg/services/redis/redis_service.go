package redisservice

import (
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	Prefix = "mh:"
)

type RedisService struct {
	rc     *redis.Client
	logger *logrus.Entry

	lobbyDecideScript *redis.Script
}

func New(rc *redis.Client, logger *logrus.Logger) *RedisService {
	return &RedisService{
		rc:                rc,
		logger:            logger.WithField("service", "redis"),
		lobbyDecideScript: redis.NewScript(lobbyDecideLua),
	}
}
