package router

import (
	chathandler "chat_backend/internal/feature/chat/transport/handler"
	"chat_backend/internal/feature/chat/ws"
	userhandler "chat_backend/internal/feature/users/transport/handler"
	"chat_backend/internal/platform/http/handler"
	jwtmw "chat_backend/internal/platform/jwt"

	"github.com/gin-gonic/gin"
)

func NewRouter(verifier jwtmw.Verifier, gateway *ws.Gateway,
	profile *userhandler.ProfileHandler, history *chathandler.HistoryHandler) *gin.Engine {
	r := gin.Default()

	// 認証不要
	// 導通確認用
	r.GET("/healthz", handler.Health)
	// WebSocket接続（トークンはハンドシェイク内で検証される）
	r.GET("/ws", gateway.Handle)

	// 認証必須のルート
	// jwtmw.AuthRequired() ミドルウェアを適用
	// → リクエストヘッダーに JWT が必要になる
	api := r.Group("/api/v1")
	api.Use(jwtmw.AuthRequired(verifier))
	{
		api.GET("/me", profile.Me)
		api.GET("/chat/messages/:otherUserId", history.GetHistory)
	}

	return r
}
