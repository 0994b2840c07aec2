// Package handler はchatフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"chat_backend/internal/feature/chat/domain/entity"
	"chat_backend/internal/feature/chat/transport/http/dto"
	jwtmw "chat_backend/internal/platform/jwt"
)

// ChatUsecase は履歴取得操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type ChatUsecase interface {
	// GetHistory は呼び出し元と相手の間の全メッセージを作成順で返します。
	GetHistory(ctx context.Context, callerID, otherUserID string, limit, offset int) ([]entity.Message, error)
}

// HistoryHandler は会話履歴のHTTPリクエストを処理します。
type HistoryHandler struct {
	chat ChatUsecase
}

// NewHistoryHandler はHistoryHandlerの新しいインスタンスを生成します。
// 依存性注入用のコンストラクタです。
func NewHistoryHandler(chat ChatUsecase) *HistoryHandler {
	return &HistoryHandler{chat: chat}
}

// GetHistory はGET /api/v1/chat/messages/:otherUserId を処理します。
// - 呼び出し元識別子は認証ミドルウェアがコンテキストに設定済み
// - 認可: 呼び出し元は常に要求した会話の当事者（パスの片側が自分自身）
// - limit/offsetクエリは任意。省略時は全件
// - 未プロビジョニングの識別子は空配列を返す（エラーではない）
func (h *HistoryHandler) GetHistory(c *gin.Context) {
	callerID := c.GetString(jwtmw.ContextUserID)
	otherUserID := c.Param("otherUserId")
	if otherUserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "other user id is required"})
		return
	}

	limit, ok := queryInt(c, "limit")
	if !ok {
		return
	}
	offset, ok := queryInt(c, "offset")
	if !ok {
		return
	}

	messages, err := h.chat.GetHistory(c.Request.Context(), callerID, otherUserID, limit, offset)
	if err != nil {
		slog.Error("failed to retrieve chat history",
			"caller_id", callerID, "other_user_id", otherUserID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve chat history"})
		return
	}

	c.JSON(http.StatusOK, lo.Map(messages, func(m entity.Message, _ int) dto.MessageResponse {
		return dto.FromMessage(m)
	}))
}

// queryInt は任意の数値クエリパラメータを読み取ります。不正値は400を返します。
func queryInt(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return v, true
}
