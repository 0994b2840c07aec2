// Package entity defines the domain entities for the users feature.
package entity

import "time"

// PlaceholderMobileNumber is stored as the contact value when a user row is
// auto-provisioned from an identifier alone (first handshake, or first time the
// identifier appears as a message receiver).
const PlaceholderMobileNumber = "unknown"

// User represents a user known to the chat service.
// The row is the unit of existence referenced by the connection registry and by
// message sender/receiver foreign keys.
type User struct {
	// UserID is the stable identifier assigned by the external token issuer.
	// It is immutable once created.
	UserID string `gorm:"primaryKey;size:32" json:"userId"`

	// MobileNumber is the contact value carried by the signup flow.
	// Auto-provisioned rows hold PlaceholderMobileNumber until the external
	// auth service backfills it.
	MobileNumber string `gorm:"size:20;not null" json:"mobileNumber"`

	// Name is the optional display name.
	Name *string `gorm:"size:255" json:"name"`

	// CreatedAt is the timestamp when the row was created.
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is the timestamp when the row was last updated.
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName matches the table shared with the external auth service.
func (User) TableName() string { return "users" }
