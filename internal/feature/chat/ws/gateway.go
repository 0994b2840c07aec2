package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"chat_backend/internal/feature/chat/domain/entity"
	chatuc "chat_backend/internal/feature/chat/usecase"
	usersentity "chat_backend/internal/feature/users/domain/entity"
	jwtmw "chat_backend/internal/platform/jwt"
	"chat_backend/internal/shared/ratelimiter"
)

// handshakeTimeout bounds the directory round-trip during registration.
// Database unavailability at this step is fatal to the connection, not retried.
const handshakeTimeout = 5 * time.Second

// ChatUsecase はゲートウェイが必要とする送信操作を定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（gateway）が定義します。
type ChatUsecase interface {
	// Send executes the validated send protocol and returns the durable message.
	Send(ctx context.Context, senderID, receiverID, content string) (*entity.Message, error)
}

// UserDirectory はハンドシェイク時のユーザー解決を定義します。
type UserDirectory interface {
	// GetOrCreate resolves or lazily provisions the connecting user's row.
	GetOrCreate(ctx context.Context, userID, mobileNumber string) (*usersentity.User, error)
}

// Gateway はコネクションのライフサイクル全体を調停します:
// 認証 → ユーザー解決 → レジストリ登録 → 送信プロトコル → 登録解除。
type Gateway struct {
	verifier jwtmw.Verifier
	users    UserDirectory
	chat     ChatUsecase
	registry *Registry
	log      *slog.Logger
	upgrader websocket.Upgrader

	// sendsPerMinute bounds how many send_message frames one connection may
	// issue per minute. Zero disables the limit.
	sendsPerMinute int
}

// NewGateway はGatewayの新しいインスタンスを生成します。
func NewGateway(log *slog.Logger, verifier jwtmw.Verifier, users UserDirectory,
	chat ChatUsecase, registry *Registry, sendsPerMinute int) *Gateway {
	return &Gateway{
		verifier: verifier,
		users:    users,
		chat:     chat,
		registry: registry,
		log:      log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// 認可はトークンで行うため、Originは制限しない
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		sendsPerMinute: sendsPerMinute,
	}
}

// Handle serves GET /ws. The handshake token is taken from the `token` query
// parameter (the browser WebSocket API cannot set headers) or from a Bearer
// header. Rejections happen before the upgrade, with the contract's reason
// strings; afterwards the connection is registered until the peer goes away.
func (g *Gateway) Handle(c *gin.Context) {
	id, err := g.verifier.Verify(handshakeToken(c))
	if err != nil {
		g.log.Warn("websocket handshake rejected", "reason", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	// Authenticated → Registered: the user row must exist before the
	// connection joins its room.
	ctx, cancel := context.WithTimeout(c.Request.Context(), handshakeTimeout)
	user, err := g.users.GetOrCreate(ctx, id.UserID, id.MobileNumber)
	cancel()
	if err != nil {
		g.log.Error("failed to resolve connecting user", "user_id", id.UserID, "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "service unavailable"})
		return
	}

	conn, err := g.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		g.log.Warn("websocket upgrade failed", "user_id", user.UserID, "error", err)
		return
	}

	client := NewClient(g.log, conn, user.UserID)
	g.registry.Register(user.UserID, client)
	go client.writePump()

	g.log.Info("user connected",
		"user_id", user.UserID,
		"session_id", client.SessionID(),
		"remote_addr", c.ClientIP())

	// Unregistration is a guaranteed-cleanup obligation: it must run no matter
	// how the read loop ends.
	defer func() {
		g.registry.Unregister(user.UserID, client)
		_ = conn.Close()
		g.log.Info("user disconnected",
			"user_id", user.UserID,
			"session_id", client.SessionID())
	}()

	g.readLoop(client)
}

// readLoop processes inbound frames sequentially, which is what gives one
// connection's sends their append order. It returns when the peer closes the
// connection, cleanly or not.
func (g *Gateway) readLoop(client *Client) {
	conn := client.conn
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	var limiter ratelimiter.RateLimiterInterface
	if g.sendsPerMinute > 0 {
		limiter = ratelimiter.NewRateLimiter(g.sendsPerMinute, time.Minute)
	}

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				g.log.Warn("websocket closed unexpectedly",
					"user_id", client.UserID,
					"session_id", client.SessionID(),
					"error", err)
			}
			return
		}

		var frame inboundFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			g.ack(client, statusError, "malformed frame")
			continue
		}

		switch frame.Type {
		case frameTypeSendMessage:
			if limiter != nil && !limiter.Allow() {
				g.ack(client, statusError, "rate limit exceeded")
				continue
			}
			g.handleSend(client, frame)
		default:
			g.ack(client, statusError, "unsupported frame type")
		}
	}
}

// handleSend runs one send_message frame through the usecase and acks it.
// The ack reflects storage success, not delivery success.
func (g *Gateway) handleSend(client *Client, frame inboundFrame) {
	_, err := g.chat.Send(context.Background(), client.UserID, frame.ReceiverID, frame.Content)
	switch {
	case err == nil:
		g.ack(client, statusOK, "")
	case errors.Is(err, chatuc.ErrMissingRecipientOrContent):
		g.ack(client, statusError, chatuc.ErrMissingRecipientOrContent.Error())
	default:
		g.log.Error("send failed",
			"user_id", client.UserID,
			"session_id", client.SessionID(),
			"error", err)
		g.ack(client, statusError, chatuc.ErrPersistence.Error())
	}
}

// ack queues an acknowledgment on the origin connection.
func (g *Gateway) ack(client *Client, status, message string) {
	payload, err := json.Marshal(ackFrame{Type: frameTypeAck, Status: status, Message: message})
	if err != nil {
		g.log.Error("failed to encode ack frame", "error", err)
		return
	}
	if !client.enqueue(payload) {
		g.log.Warn("dropping ack for slow connection",
			"user_id", client.UserID,
			"session_id", client.SessionID())
	}
}

// handshakeToken extracts the token from the query parameter or Bearer header.
func handshakeToken(c *gin.Context) string {
	if token := c.Query("token"); token != "" {
		return token
	}
	if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}
