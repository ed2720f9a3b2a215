package localstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/extra/redisotel/v8"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

const (
	connectAttempts = 30
	maxBackoff      = 30 * time.Second
)

// Redis is a LocalStore backed by plain redis string keys.
type Redis struct {
	client *redis.Client
	log    logrus.FieldLogger
	// initial wait between connect attempts, doubled on each retry
	backoff time.Duration
}

// NewRedis accepts either a redis:// URL or a bare host:port address.
func NewRedis(addr string, log logrus.FieldLogger) (*Redis, error) {
	if addr == "" {
		return nil, fmt.Errorf("addr is empty")
	}

	opts, err := redis.ParseURL(addr)
	if err != nil {
		opts = &redis.Options{
			Addr:         addr,
			MinIdleConns: 1,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
			PoolSize:     10,
			PoolTimeout:  4 * time.Second,
			IdleTimeout:  3 * time.Minute,
		}
	}

	client := redis.NewClient(opts)
	client.AddHook(redisotel.NewTracingHook())

	return &Redis{
		client:  client,
		log:     log.WithField("component", "localstore.redis"),
		backoff: time.Second,
	}, nil
}

// Connect pings until redis answers, backing off exponentially between attempts.
func (r *Redis) Connect(ctx context.Context) error {
	backoff := r.backoff

	for attempt := 1; attempt <= connectAttempts; attempt++ {
		if r.Ping(ctx) {
			r.log.WithField("attempt", attempt).Info("redis connected")
			return nil
		}

		r.log.WithFields(logrus.Fields{
			"attempt": attempt,
			"backoff": backoff,
		}).Warn("redis ping failed, retrying")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}

		backoff = min(backoff*2, maxBackoff)
	}

	return fmt.Errorf("redis not reachable after %d attempts", connectAttempts)
}

func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("client.Get: %w", err)
	}

	return value, true, nil
}

func (r *Redis) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("client.Set: %w", err)
	}
	return nil
}

func (r *Redis) Remove(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("client.Del: %w", err)
	}
	return nil
}

func (r *Redis) Ping(ctx context.Context) bool {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := r.client.Ping(pingCtx).Err(); err != nil {
		r.log.WithError(err).Debug("redis ping")
		return false
	}
	return true
}

func (r *Redis) Close() error {
	return r.client.Close()
}
