package data

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	sessionPrefix     = "session:"
	sessionTTL        = 30 * time.Minute
	streamSubmissions = "survey.submissions"
)

func MustRedis(url string) *redis.Client {
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	return redis.NewClient(opt)
}

func SetSession(ctx context.Context, rdb *redis.Client, id string, payload []byte) error {
	return rdb.Set(ctx, sessionPrefix+id, payload, sessionTTL).Err()
}

func GetSession(ctx context.Context, rdb *redis.Client, id string) ([]byte, error) {
	return rdb.Get(ctx, sessionPrefix+id).Bytes()
}

func DelSession(ctx context.Context, rdb *redis.Client, id string) error {
	return rdb.Del(ctx, sessionPrefix+id).Err()
}

// PublishSubmission emits a completed submission to the event stream for
// downstream consumers (notifier, exports). Best effort; callers ignore errors.
func PublishSubmission(ctx context.Context, rdb *redis.Client, payload map[string]interface{}) error {
	_, err := rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: streamSubmissions,
		Values: payload,
	}).Result()
	return err
}
