// Package handler はusersフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"chat_backend/internal/feature/users/domain/entity"
	jwtmw "chat_backend/internal/platform/jwt"
)

// UserUsecase はプロフィール操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type UserUsecase interface {
	// GetOrCreate は識別子のユーザー行を冪等に解決します。
	GetOrCreate(ctx context.Context, userID, mobileNumber string) (*entity.User, error)
}

// ProfileHandler は認証済みユーザー自身のプロフィール取得を処理します。
type ProfileHandler struct {
	users UserUsecase
}

// NewProfileHandler はProfileHandlerの新しいインスタンスを生成します。
func NewProfileHandler(users UserUsecase) *ProfileHandler {
	return &ProfileHandler{users: users}
}

// Me はGET /api/v1/me を処理します。
// 呼び出し元の識別子とプロビジョニング済みの行を返します。
// RESTから先に到達したユーザーもここで遅延プロビジョニングされ、
// ゲートウェイのハンドシェイクと同じ動作になります。
func (h *ProfileHandler) Me(c *gin.Context) {
	callerID := c.GetString(jwtmw.ContextUserID)
	mobile := c.GetString(jwtmw.ContextMobileNumber)

	user, err := h.users.GetOrCreate(c.Request.Context(), callerID, mobile)
	if err != nil {
		slog.Error("failed to resolve profile", "caller_id", callerID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"userId":  user.UserID,
		"profile": user,
	})
}
