// Package redis connects to Redis with retries and exposes a healthcheck
// closure for the /healthz endpoint. The client backs the distributed
// rate-limit store in pkg/ratelimiter.
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	store := ratelimiter.NewRedisStore(client)
package redis
