package notif

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const (
	unreadKeyPrefix = "notif:unread:"
	dedupTTL        = 7 * 24 * time.Hour
	unreadTTL       = 24 * time.Hour
)

// RedisClient is the subset of redis.Cmdable the counter uses.
type RedisClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
	IncrBy(ctx context.Context, key string, value int64) *redis.IntCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisUnreadCounter keeps unread counts in Redis. A counter is only adjusted
// while its key exists; a missing key is rebuilt from the database on read.
type RedisUnreadCounter struct {
	client RedisClient
}

func NewRedisUnreadCounter(client RedisClient) *RedisUnreadCounter {
	return &RedisUnreadCounter{client: client}
}

func unreadKey(userID string) string {
	return unreadKeyPrefix + userID
}

func (c *RedisUnreadCounter) Increment(ctx context.Context, userID, notificationID string) error {
	return c.adjust(ctx, userID, fmt.Sprintf("notif:dispatch:%s:counted", notificationID), 1)
}

func (c *RedisUnreadCounter) Decrement(ctx context.Context, userID, notificationID string) error {
	return c.adjust(ctx, userID, fmt.Sprintf("notif:read:%s:counted", notificationID), -1)
}

func (c *RedisUnreadCounter) adjust(ctx context.Context, userID, guardKey string, delta int64) error {
	first, err := c.client.SetNX(ctx, guardKey, 1, dedupTTL).Result()
	if err != nil {
		return errors.Wrap(err, "failed to set counter guard")
	}
	if !first {
		return nil
	}

	exists, err := c.client.Exists(ctx, unreadKey(userID)).Result()
	if err != nil {
		return c.releaseGuard(ctx, guardKey, errors.Wrap(err, "failed to check unread counter"))
	}
	if exists == 0 {
		return nil
	}

	n, err := c.client.IncrBy(ctx, unreadKey(userID), delta).Result()
	if err != nil {
		return c.releaseGuard(ctx, guardKey, errors.Wrap(err, "failed to adjust unread counter"))
	}
	if n < 0 {
		if err := c.client.Set(ctx, unreadKey(userID), 0, unreadTTL).Err(); err != nil {
			return errors.Wrap(err, "failed to floor unread counter")
		}
	}
	return nil
}

// releaseGuard drops the guard after a failed adjustment so a redelivered
// event can apply it again.
func (c *RedisUnreadCounter) releaseGuard(ctx context.Context, guardKey string, cause error) error {
	if err := c.client.Del(ctx, guardKey).Err(); err != nil {
		return errors.Wrapf(cause, "counter guard %s left in place: %v", guardKey, err)
	}
	return cause
}

func (c *RedisUnreadCounter) Get(ctx context.Context, userID string) (int64, bool, error) {
	n, err := c.client.Get(ctx, unreadKey(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, errors.Wrap(err, "failed to read unread counter")
	}
	return n, true, nil
}

func (c *RedisUnreadCounter) Set(ctx context.Context, userID string, count int64) error {
	if count < 0 {
		count = 0
	}
	if err := c.client.Set(ctx, unreadKey(userID), count, unreadTTL).Err(); err != nil {
		return errors.Wrap(err, "failed to set unread counter")
	}
	return nil
}
