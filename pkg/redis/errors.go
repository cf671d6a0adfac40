package redis

import "errors"

var (
	ErrEmptyConnectionURL           = errors.New("redis: REDIS_URL is empty")
	ErrFailedToParseRedisConnString = errors.New("redis: invalid connection url")
	ErrRedisNotReady                = errors.New("redis: server did not answer PING before the connect timeout")
	ErrHealthcheckFailed            = errors.New("redis: healthcheck failed")
)
