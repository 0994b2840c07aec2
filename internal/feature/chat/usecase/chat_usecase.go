package usecase

import (
	"context"
	"fmt"
	"time"

	"chat_backend/internal/feature/chat/domain/entity"
)

const (
	// defaultStoreTimeout はディレクトリ／ストア呼び出しの上限待機時間です。
	// データベースが応答しない送信はハングせず、失敗として呼び出し元に返します。
	defaultStoreTimeout = 5 * time.Second
)

// UserDirectory はユーザーディレクトリへの最小限の依存を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（users/usecase）ではなくコンシューマーが定義します。
type UserDirectory interface {
	// EnsureExists は識別子のユーザー行が存在することを保証します（自動プロビジョニング）。
	EnsureExists(ctx context.Context, userID string) error
}

// Notifier はライブ接続への配信を抽象化します。
// 配信はベストエフォートであり、エラーを返しません（永続化が真実の源です）。
type Notifier interface {
	// NotifyNewMessage は識別子のルーム（全ライブ接続）へメッセージをプッシュします。
	// ライブ接続が1つもない場合は何もしません。
	NotifyNewMessage(userID string, msg *entity.Message)
}

// chatUsecase はメッセージ送信と履歴取得のビジネスロジックを実装します。
type chatUsecase struct {
	messages MessageRepository
	users    UserDirectory
	notifier Notifier
	timeout  time.Duration
}

// NewChatUsecase はchatUsecaseの新しいインスタンスを生成します。
// timeoutが0以下の場合はデフォルト値を使用します。
func NewChatUsecase(messages MessageRepository, users UserDirectory, notifier Notifier, timeout time.Duration) *chatUsecase {
	if timeout <= 0 {
		timeout = defaultStoreTimeout
	}
	return &chatUsecase{
		messages: messages,
		users:    users,
		notifier: notifier,
		timeout:  timeout,
	}
}

// Send は送信プロトコルを順番どおりに実行します:
//  1. バリデーション（受信者と本文は必須、違反時は副作用なし）
//  2. 受信者行の自動プロビジョニング（未接続の識別子宛でも送信可能）
//  3. ストアへの追記（ここが耐久性の確定点）
//  4. 送信者・受信者の両ルームへのファンアウト（自己送信時は1回のみ）
//
// ステップ3が失敗した場合はファンアウトせずエラーを返します。
// ステップ4の失敗は永続化済みメッセージの送信成功を取り消しません。
func (u *chatUsecase) Send(ctx context.Context, senderID, receiverID, content string) (*entity.Message, error) {
	if receiverID == "" || content == "" {
		return nil, ErrMissingRecipientOrContent
	}

	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	if err := u.users.EnsureExists(ctx, receiverID); err != nil {
		return nil, fmt.Errorf("%w: ensure receiver: %w", ErrPersistence, err)
	}

	msg := &entity.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
	}
	if err := u.messages.Append(ctx, msg); err != nil {
		return nil, fmt.Errorf("%w: append: %w", ErrPersistence, err)
	}

	// 永続化後の配信はベストエフォート。宛先集合は送信者と受信者で互いに素だが、
	// 自己送信の場合のみ重なるため1回に畳む。
	u.notifier.NotifyNewMessage(senderID, msg)
	if receiverID != senderID {
		u.notifier.NotifyNewMessage(receiverID, msg)
	}

	return msg, nil
}

// GetHistory は呼び出し元と相手の間の全メッセージを作成順（ID昇順）で返します。
// 呼び出し元識別子は認証境界で確定しているため、常に会話の当事者です。
// 未プロビジョニングの識別子は空の履歴を返します。
func (u *chatUsecase) GetHistory(ctx context.Context, callerID, otherUserID string, limit, offset int) ([]entity.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	return u.messages.Conversation(ctx, callerID, otherUserID, limit, offset)
}
