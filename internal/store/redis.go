package store

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/Joonasjoonasjoonas/target-watcher/internal/logger"
)

// SeenSetKey is the Redis set holding reported request identifiers.
const SeenSetKey = "watcher:seen_request_ids"

const saddChunk = 1000

// RedisStore keeps the seen set in a Redis set, for deployments where the
// watcher runs on ephemeral hosts and a local state file would not survive.
// Redis sets are unordered, so eviction pops arbitrary members instead of
// the oldest ones; that stays within the approximate policy the file
// backend already implements.
type RedisStore struct {
	client *redis.Client
	log    logger.Logger
}

func NewRedisStore(client *redis.Client, log logger.Logger) *RedisStore {
	return &RedisStore{client: client, log: log}
}

// Load reads all members of the seen set. On any Redis error the cycle
// starts from empty state, same policy as an unreadable state file.
func (r *RedisStore) Load(ctx context.Context) *SeenSet {
	set := NewSeenSet()

	ids, err := r.client.SMembers(ctx, SeenSetKey).Result()
	if err != nil {
		r.log.Warn("redis seen set unreadable, starting from empty state",
			logger.String("key", SeenSetKey), logger.Error(err))
		return set
	}
	for _, id := range ids {
		set.Add(id)
	}
	return set
}

// Save adds the set's identifiers (SADD is idempotent, so previously stored
// members are untouched) and trims the Redis set once it exceeds the cap.
func (r *RedisStore) Save(ctx context.Context, set *SeenSet) error {
	ids := make([]interface{}, 0, saddChunk)
	for id := range set.IDs() {
		ids = append(ids, id)
		if len(ids) == saddChunk {
			if err := r.client.SAdd(ctx, SeenSetKey, ids...).Err(); err != nil {
				return fmt.Errorf("failed to save seen set to redis: %w", err)
			}
			ids = ids[:0]
		}
	}
	if len(ids) > 0 {
		if err := r.client.SAdd(ctx, SeenSetKey, ids...).Err(); err != nil {
			return fmt.Errorf("failed to save seen set to redis: %w", err)
		}
	}

	card, err := r.client.SCard(ctx, SeenSetKey).Result()
	if err != nil {
		return fmt.Errorf("failed to check seen set size: %w", err)
	}
	if card > MaxEntries {
		popped, err := r.client.SPopN(ctx, SeenSetKey, EvictBatch).Result()
		if err != nil {
			return fmt.Errorf("failed to trim seen set: %w", err)
		}
		r.log.Info("evicted seen entries from redis",
			logger.Int("evicted", len(popped)), logger.Int("remaining", int(card)-len(popped)))
	}
	return nil
}
