package usecase

import (
	"context"

	"chat_backend/internal/feature/chat/domain/entity"
)

// MessageRepository abstracts the durable append-only message store.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type MessageRepository interface {
	// Append persists a new message and assigns its ID and CreatedAt.
	// This is the durability point of the send protocol.
	Append(ctx context.Context, msg *entity.Message) error

	// Conversation returns every message exchanged between the two identifiers,
	// in either direction, ordered ascending by ID. limit <= 0 means unbounded.
	// Identifiers that were never provisioned yield an empty slice, not an error.
	Conversation(ctx context.Context, userA, userB string, limit, offset int) ([]entity.Message, error)
}
