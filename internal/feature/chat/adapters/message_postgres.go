// Package adapters はchatフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"

	"gorm.io/gorm"

	"chat_backend/internal/feature/chat/domain/entity"
	"chat_backend/internal/feature/chat/usecase"
)

// messagePostgres はMessageRepositoryインターフェースのPostgreSQL実装です。
// GORMを使用してデータベース操作を行います。
type messagePostgres struct {
	db *gorm.DB
}

// messagePostgresがMessageRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.MessageRepository = (*messagePostgres)(nil)

// NewMessagePostgres は指定されたgorm.DB接続でmessagePostgresの新しいインスタンスを生成します。
// 依存性注入用のコンストラクタです。
func NewMessagePostgres(db *gorm.DB) *messagePostgres {
	return &messagePostgres{db: db}
}

// Append はメッセージを追記します。IDと作成時刻はデータベースが割り当てます。
func (r *messagePostgres) Append(ctx context.Context, msg *entity.Message) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

// Conversation は2者間の全メッセージを方向を問わずID昇順で取得します。
// limitが0以下の場合は全件を返します。
func (r *messagePostgres) Conversation(ctx context.Context, userA, userB string, limit, offset int) ([]entity.Message, error) {
	q := r.db.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userA, userB, userB, userA).
		Order("id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}

	messages := make([]entity.Message, 0)
	if err := q.Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}
