package queue

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"fundhub/internal/platform/config"
)

// Connect builds the Redis client and verifies it with a ping.
func Connect(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	return rdb, nil
}

// ListQueue is a named Redis list used as a FIFO queue: producers LPush,
// the consumer BRPops.
type ListQueue struct {
	rdb  *redis.Client
	name string
}

func NewListQueue(rdb *redis.Client, name string) *ListQueue {
	return &ListQueue{rdb: rdb, name: name}
}

func (q *ListQueue) Enqueue(ctx context.Context, payload []byte) error {
	return q.rdb.LPush(ctx, q.name, payload).Err()
}

// Dequeue blocks until an item is available or the context is cancelled.
func (q *ListQueue) Dequeue(ctx context.Context) ([]byte, error) {
	res, err := q.rdb.BRPop(ctx, 0, q.name).Result()
	if err != nil {
		return nil, err
	}
	// BRPop returns [queueName, value].
	if len(res) < 2 {
		return nil, redis.Nil
	}
	return []byte(res[1]), nil
}

func (q *ListQueue) Name() string { return q.name }
