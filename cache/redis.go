package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

func NewClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: addr,
	})
}

// setIfCurrent stores a count only while the post's generation still matches
// the one the count was read under.
var setIfCurrent = redis.NewScript(`
local current = redis.call('GET', KEYS[2]) or '0'
if current ~= ARGV[1] then
	return 0
end
if tonumber(ARGV[3]) > 0 then
	redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
else
	redis.call('SET', KEYS[1], ARGV[2])
end
return 1
`)

// LikeCountCache keeps like counts in redis under {post:<id>}:likes, next to
// the generation counter {post:<id>}:likes:gen that invalidation advances.
type LikeCountCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewLikeCountCache(client redis.UniversalClient, ttl time.Duration) *LikeCountCache {
	return &LikeCountCache{client: client, ttl: ttl}
}

func likeCountKey(postID uint) string {
	return fmt.Sprintf("{post:%d}:likes", postID)
}

func likeGenerationKey(postID uint) string {
	return likeCountKey(postID) + ":gen"
}

func (c *LikeCountCache) Get(ctx context.Context, postID uint) (int64, bool, error) {
	raw, err := c.client.Get(ctx, likeCountKey(postID)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	count, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("corrupt like count for post %d: %w", postID, err)
	}
	return count, true, nil
}

func (c *LikeCountCache) Generation(ctx context.Context, postID uint) (int64, error) {
	gen, err := c.client.Get(ctx, likeGenerationKey(postID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// Set caches count unless the post was invalidated since generation was read.
func (c *LikeCountCache) Set(ctx context.Context, postID uint, generation, count int64) error {
	keys := []string{likeCountKey(postID), likeGenerationKey(postID)}
	return setIfCurrent.Run(ctx, c.client, keys, generation, count, c.ttl.Milliseconds()).Err()
}

func (c *LikeCountCache) Invalidate(ctx context.Context, postID uint) error {
	genKey := likeGenerationKey(postID)
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKey)
		// The counter outlives any count cached under it.
		pipe.Expire(ctx, genKey, 2*c.ttl+time.Minute)
		pipe.Del(ctx, likeCountKey(postID))
		return nil
	})
	return err
}
