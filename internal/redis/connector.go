// Package redis opens the connection used by the optional redis-backed
// seen-set store.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Joonasjoonasjoonas/target-watcher/internal/logger"
)

// ConnectOptions defines how the client connects. A batch cycle runs once
// and exits, so the retry window is short: a broker that stays down simply
// fails the run.
type ConnectOptions struct {
	Addr     string
	User     string
	Password string
	DB       int

	DialTimeout    time.Duration // per-dial timeout (default 5s)
	PingTimeout    time.Duration // per-ping timeout (default 2s)
	RetryInterval  time.Duration // wait between attempts (default 1s)
	ConnectTimeout time.Duration // total budget for connecting (default 10s)
}

// New connects and pings, retrying until the connect budget runs out.
func New(opts ConnectOptions, log logger.Logger) (*redis.Client, error) {
	if opts.DialTimeout <= 0 {
		opts.DialTimeout = 5 * time.Second
	}
	if opts.PingTimeout <= 0 {
		opts.PingTimeout = 2 * time.Second
	}
	if opts.RetryInterval <= 0 {
		opts.RetryInterval = time.Second
	}
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = 10 * time.Second
	}

	client := redis.NewClient(&redis.Options{
		Addr:        opts.Addr,
		Username:    opts.User,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: opts.DialTimeout,
	})

	deadline := time.Now().Add(opts.ConnectTimeout)
	var lastErr error
	for attempt := 1; ; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), opts.PingTimeout)
		lastErr = client.Ping(ctx).Err()
		cancel()

		if lastErr == nil {
			if attempt > 1 {
				log.Warn("connected to redis after retry",
					logger.String("addr", opts.Addr), logger.Int("attempts", attempt))
			} else {
				log.Info("connected to redis", logger.String("addr", opts.Addr))
			}
			return client, nil
		}

		if time.Now().Add(opts.RetryInterval).After(deadline) {
			break
		}
		log.Warn("redis connection failed, retrying",
			logger.String("addr", opts.Addr), logger.Int("attempt", attempt), logger.Error(lastErr))
		time.Sleep(opts.RetryInterval)
	}

	_ = client.Close()
	return nil, fmt.Errorf("failed to connect to redis at %s: %w", opts.Addr, lastErr)
}
