package utils

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
)

const (
	// Redis only has string type, there is no boolean or int, so we use "1" to represent true
	RedisTrue = "1"

	viewKeyPrefix = "view"
)

// RedisViewStatusStore remembers which signed in user has already viewed
// which video, so repeated views only count once.
type RedisViewStatusStore struct {
	inner     redis.Cmdable
	keyParser RedisKeyParser
	// expiration of a view mark, 0 keeps it forever
	ttl time.Duration
}

func GetRedisViewStatusStore(ctx context.Context, ttl time.Duration) (*RedisViewStatusStore, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT")),
		Password: os.Getenv("REDIS_PASSWD"),
		DB:       0, // use default DB
	})
	_, err := redisClient.Ping(ctx).Result()
	if err != nil {
		return nil, errors.Wrap(err, "fail to connect to redis")
	}
	return NewRedisViewStatusStore(redisClient, ttl), nil
}

func NewRedisViewStatusStore(client redis.Cmdable, ttl time.Duration) *RedisViewStatusStore {
	return &RedisViewStatusStore{
		inner:     client,
		keyParser: RedisKeyParser{delimiter: "__"},
		ttl:       ttl,
	}
}

type RedisKeyParser struct {
	delimiter string
}

func (r RedisKeyParser) ValidateId(id string) bool {
	return id != "" && !strings.Contains(id, r.delimiter)
}

func (r RedisKeyParser) EncodeViewKey(userId string, videoId string) (string, error) {
	if !r.ValidateId(userId) || !r.ValidateId(videoId) {
		return "", fmt.Errorf("invalid userId or videoId")
	}
	return fmt.Sprintf("%s%s%s%s%s", viewKeyPrefix, r.delimiter, userId, r.delimiter, videoId), nil
}

func (r RedisKeyParser) MustEncodeViewKey(userId string, videoId string) string {
	key, err := r.EncodeViewKey(userId, videoId)
	if err != nil {
		panic(fmt.Errorf("invalid userId or videoId with delimiter: %s, %s, %s", userId, videoId, r.delimiter))
	}
	return key
}

// MarkViewed records that userID viewed videoID. It returns true only for
// the first view of the pair.
func (r *RedisViewStatusStore) MarkViewed(ctx context.Context, userID, videoID uint) (bool, error) {
	key := r.keyParser.MustEncodeViewKey(UintToString(userID), UintToString(videoID))
	first, err := r.inner.SetNX(ctx, key, RedisTrue, r.ttl).Result()
	if err != nil {
		return false, errors.Wrap(err, "fail to mark video as viewed")
	}
	return first, nil
}

// ClearViewed forgets that userID viewed videoID, so the next view counts
// again.
func (r *RedisViewStatusStore) ClearViewed(ctx context.Context, userID, videoID uint) error {
	key := r.keyParser.MustEncodeViewKey(UintToString(userID), UintToString(videoID))
	return errors.Wrap(r.inner.Del(ctx, key).Err(), "fail to clear view status")
}
