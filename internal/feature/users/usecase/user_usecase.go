package usecase

import (
	"context"
	"fmt"
	"strings"

	"chat_backend/internal/feature/users/domain/entity"
)

// UserRepository はユーザーエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	// GetOrCreate は識別子に一致する行を返します。存在しない場合は与えられた属性で
	// 挿入します。同一識別子への並行呼び出しでも行は必ず1つだけ作成され、
	// 敗者は勝者の行を観測します。
	GetOrCreate(ctx context.Context, user *entity.User) (*entity.User, error)

	// FindByID は識別子でユーザーを取得します。
	// ユーザーが存在しない場合、ErrUserNotFoundを返します。
	FindByID(ctx context.Context, userID string) (*entity.User, error)
}

// userUsecase はユーザーディレクトリのビジネスロジックを実装します。
type userUsecase struct {
	users UserRepository
}

// NewUserUsecase はuserUsecaseの新しいインスタンスを生成します。
func NewUserUsecase(users UserRepository) *userUsecase {
	return &userUsecase{users: users}
}

// GetOrCreate は識別子のユーザー行を冪等に解決します。
// mobileNumberが空の場合、自動プロビジョニング用のプレースホルダーを使用します。
func (u *userUsecase) GetOrCreate(ctx context.Context, userID, mobileNumber string) (*entity.User, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("user id is required")
	}
	if mobileNumber == "" {
		mobileNumber = entity.PlaceholderMobileNumber
	}
	return u.users.GetOrCreate(ctx, &entity.User{
		UserID:       userID,
		MobileNumber: mobileNumber,
	})
}

// EnsureExists は識別子の行が存在することを保証します。
// まだ接続したことのない受信者宛のメッセージ送信時に使用されます。
func (u *userUsecase) EnsureExists(ctx context.Context, userID string) error {
	_, err := u.GetOrCreate(ctx, userID, "")
	return err
}

// Find は識別子でユーザーを取得します。
func (u *userUsecase) Find(ctx context.Context, userID string) (*entity.User, error) {
	return u.users.FindByID(ctx, userID)
}
