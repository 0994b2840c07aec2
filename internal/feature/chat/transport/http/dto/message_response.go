// Package dto はchatフィーチャーのトランスポート層のデータ転送オブジェクトを定義します。
package dto

import (
	"time"

	"chat_backend/internal/feature/chat/domain/entity"
)

// MessageResponse is the wire shape of a message, shared by the history
// endpoint and the new_message push frame.
type MessageResponse struct {
	ID         uint      `json:"id"`
	SenderID   string    `json:"senderId"`
	ReceiverID string    `json:"receiverId"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
}

// FromMessage converts a stored message to its wire shape.
func FromMessage(m entity.Message) MessageResponse {
	return MessageResponse{
		ID:         m.ID,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		Content:    m.Content,
		CreatedAt:  m.CreatedAt,
	}
}
