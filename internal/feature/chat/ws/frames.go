// Package ws implements the real-time messaging gateway: the authenticated
// websocket handshake, the in-memory connection registry, and the
// send/acknowledge protocol on top of it.
package ws

import "chat_backend/internal/feature/chat/transport/http/dto"

// Frame types exchanged over an established connection.
const (
	frameTypeSendMessage = "send_message"
	frameTypeAck         = "ack"
	frameTypeNewMessage  = "new_message"
)

// Ack statuses.
const (
	statusOK    = "ok"
	statusError = "error"
)

// inboundFrame is a client request over the connection.
// Field names are part of the client wire contract, camelCase like the rest.
type inboundFrame struct {
	Type       string `json:"type"`
	ReceiverID string `json:"receiverId"`
	Content    string `json:"content"`
}

// ackFrame answers exactly one inbound frame. Frames are processed in order
// per connection, so acks correlate by position.
type ackFrame struct {
	Type    string `json:"type"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// newMessageFrame is pushed to every live connection of both parties.
type newMessageFrame struct {
	Type    string              `json:"type"`
	Message dto.MessageResponse `json:"message"`
}
