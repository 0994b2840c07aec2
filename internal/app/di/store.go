// Package di provides dependency injection factories for creating application components.
package di

import (
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	chatadapters "chat_backend/internal/feature/chat/adapters"
	"chat_backend/internal/feature/chat/usecase"
	"chat_backend/internal/platform/cache"
)

// NewMessageRepository creates a MessageRepository implementation.
// If Redis is available, conversation reads are cached in front of Postgres.
// Otherwise, it falls back to the plain Postgres repository.
func NewMessageRepository(rdb *redis.Client, db *gorm.DB) usecase.MessageRepository {
	inner := chatadapters.NewMessagePostgres(db)
	if rdb != nil {
		return cache.NewCachingMessageRepository(rdb, time.Minute, inner, "conversations")
	}
	return inner
}
