// Package entity defines the domain entities for the chat feature.
package entity

import "time"

// Message represents one direct message in the durable history.
// Rows are append-only: once persisted a message is never updated or deleted.
// The auto-increment ID doubles as the total order within the store.
type Message struct {
	// ID is the server-assigned, monotonically increasing identifier.
	ID uint `gorm:"primaryKey" json:"id"`

	// SenderID references the user row of the sender.
	SenderID string `gorm:"size:32;not null;index:idx_messages_pair" json:"senderId"`

	// ReceiverID references the user row of the receiver.
	// The receiver may never have connected; the row is auto-provisioned on send.
	ReceiverID string `gorm:"size:32;not null;index:idx_messages_pair" json:"receiverId"`

	// Content is the opaque message text. Always non-empty.
	Content string `gorm:"type:text;not null" json:"content"`

	// CreatedAt is the server-assigned timestamp.
	CreatedAt time.Time `json:"createdAt"`
}

// TableName pins the production table name.
func (Message) TableName() string { return "messages" }
