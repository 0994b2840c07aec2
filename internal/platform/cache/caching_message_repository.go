// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"chat_backend/internal/feature/chat/domain/entity"
	"chat_backend/internal/feature/chat/usecase"
)

// CachingMessageRepository decorates a MessageRepository with Redis caching of
// conversation reads. It implements the decorator pattern, transparently adding
// caching without modifying the underlying repository. Appends always go to
// the store first, then bump the conversation's generation counter.
//
// Every page key carries the generation it was read under. A reader that
// missed the cache and raced an append writes its pre-append snapshot under
// the old generation, which no later reader resolves; the entry ages out by
// TTL instead of masking the appended message.
type CachingMessageRepository struct {
	inner     usecase.MessageRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

// NewCachingMessageRepository decorates a MessageRepository with Redis caching.
// If ttl is 0, it defaults to 1 minute. If namespace is empty, it uses "conversations".
func NewCachingMessageRepository(rdb *redis.Client, ttl time.Duration, inner usecase.MessageRepository, namespace string) *CachingMessageRepository {
	if ttl <= 0 {
		ttl = time.Minute
	}
	if namespace == "" {
		namespace = "conversations"
	}
	return &CachingMessageRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// Append persists the message and bumps the sender/receiver conversation's
// generation, invalidating its cached pages. The append result is never
// weakened by a cache failure.
func (c *CachingMessageRepository) Append(ctx context.Context, msg *entity.Message) error {
	if err := c.inner.Append(ctx, msg); err != nil {
		return err
	}
	if c.rdb == nil {
		return nil
	}

	// Best effort: don't fail the durable write if cache invalidation fails
	_ = c.rdb.Incr(ctx, c.genKey(msg.SenderID, msg.ReceiverID)).Err()
	return nil
}

// Conversation retrieves messages, checking cache first then falling back to the store.
func (c *CachingMessageRepository) Conversation(ctx context.Context, userA, userB string, limit, offset int) ([]entity.Message, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.Conversation(ctx, userA, userB, limit, offset)
	}

	// The generation must be read before the store so a concurrent append is
	// either already visible in the store read or has moved the key away.
	gen := c.generation(ctx, userA, userB)
	key := c.cacheKey(userA, userB, gen, limit, offset)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []entity.Message
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to the store
	out, err := c.inner.Conversation(ctx, userA, userB, limit, offset)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}

// generation reads the conversation's invalidation counter. A missing or
// unreadable counter resolves to "0", the generation before the first append.
func (c *CachingMessageRepository) generation(ctx context.Context, userA, userB string) string {
	gen, err := c.rdb.Get(ctx, c.genKey(userA, userB)).Result()
	if err != nil || gen == "" {
		return "0"
	}
	return gen
}

// genKey is the conversation's generation counter key. INCR gives it no TTL,
// so it outlives every page written under any of its values.
func (c *CachingMessageRepository) genKey(userA, userB string) string {
	return c.cacheKeyPrefix(userA, userB) + "gen"
}

// cacheKey generates a cache key for one page of a conversation at a generation.
func (c *CachingMessageRepository) cacheKey(userA, userB, gen string, limit, offset int) string {
	return fmt.Sprintf("%s%s:%d:%d", c.cacheKeyPrefix(userA, userB), gen, limit, offset)
}

// cacheKeyPrefix generates the shared prefix of a conversation's cache keys.
// The pair is normalized so that both directions hit the same entries.
func (c *CachingMessageRepository) cacheKeyPrefix(userA, userB string) string {
	lo, hi := safe(userA), safe(userB)
	if lo > hi {
		lo, hi = hi, lo
	}
	return fmt.Sprintf("%s:%s:%s:", c.namespace, lo, hi)
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
