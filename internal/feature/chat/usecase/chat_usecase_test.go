package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chat_backend/internal/feature/chat/domain/entity"
)

// mockMessageRepository はテスト用のMessageRepositoryモック実装です。
type mockMessageRepository struct {
	appendFn       func(ctx context.Context, msg *entity.Message) error
	conversationFn func(ctx context.Context, userA, userB string, limit, offset int) ([]entity.Message, error)
}

func (m *mockMessageRepository) Append(ctx context.Context, msg *entity.Message) error {
	if m.appendFn != nil {
		return m.appendFn(ctx, msg)
	}
	msg.ID = 1
	msg.CreatedAt = time.Now()
	return nil
}

func (m *mockMessageRepository) Conversation(ctx context.Context, userA, userB string, limit, offset int) ([]entity.Message, error) {
	if m.conversationFn != nil {
		return m.conversationFn(ctx, userA, userB, limit, offset)
	}
	return nil, nil
}

// mockUserDirectory はテスト用のUserDirectoryモック実装です。
type mockUserDirectory struct {
	ensureFn func(ctx context.Context, userID string) error
	ensured  []string
}

func (m *mockUserDirectory) EnsureExists(ctx context.Context, userID string) error {
	m.ensured = append(m.ensured, userID)
	if m.ensureFn != nil {
		return m.ensureFn(ctx, userID)
	}
	return nil
}

// mockNotifier はテスト用のNotifierモック実装です。
type mockNotifier struct {
	notified []string
}

func (m *mockNotifier) NotifyNewMessage(userID string, msg *entity.Message) {
	m.notified = append(m.notified, userID)
}

func TestChatUsecase_Send(t *testing.T) {
	t.Run("successful send acks after durability and fans out to both parties", func(t *testing.T) {
		var appendedAt time.Time
		repo := &mockMessageRepository{
			appendFn: func(ctx context.Context, msg *entity.Message) error {
				msg.ID = 42
				msg.CreatedAt = time.Now()
				appendedAt = msg.CreatedAt
				return nil
			},
		}
		dir := &mockUserDirectory{}
		notifier := &mockNotifier{}
		uc := NewChatUsecase(repo, dir, notifier, 0)

		msg, err := uc.Send(context.Background(), "u1", "u2", "hi")

		require.NoError(t, err)
		assert.Equal(t, uint(42), msg.ID, "returned message carries the stored id")
		assert.Equal(t, appendedAt, msg.CreatedAt)
		assert.Equal(t, []string{"u2"}, dir.ensured, "receiver is provisioned before append")
		assert.Equal(t, []string{"u1", "u2"}, notifier.notified, "both rooms receive the fanout")
	})

	t.Run("missing recipient or content performs no side effect", func(t *testing.T) {
		tests := []struct {
			name       string
			receiverID string
			content    string
		}{
			{"empty receiver", "", "hi"},
			{"empty content", "u2", ""},
			{"both empty", "", ""},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				appended := false
				repo := &mockMessageRepository{
					appendFn: func(ctx context.Context, msg *entity.Message) error {
						appended = true
						return nil
					},
				}
				dir := &mockUserDirectory{}
				notifier := &mockNotifier{}
				uc := NewChatUsecase(repo, dir, notifier, 0)

				_, err := uc.Send(context.Background(), "u1", tt.receiverID, tt.content)

				assert.ErrorIs(t, err, ErrMissingRecipientOrContent)
				assert.False(t, appended, "store must not be touched")
				assert.Empty(t, dir.ensured, "directory must not be touched")
				assert.Empty(t, notifier.notified, "no fanout on validation failure")
			})
		}
	})

	t.Run("store failure aborts before any fanout", func(t *testing.T) {
		repo := &mockMessageRepository{
			appendFn: func(ctx context.Context, msg *entity.Message) error {
				return errors.New("connection refused")
			},
		}
		dir := &mockUserDirectory{}
		notifier := &mockNotifier{}
		uc := NewChatUsecase(repo, dir, notifier, 0)

		_, err := uc.Send(context.Background(), "u1", "u2", "hi")

		assert.ErrorIs(t, err, ErrPersistence)
		assert.Empty(t, notifier.notified, "no fanout when the message is not durable")
	})

	t.Run("directory failure aborts before append", func(t *testing.T) {
		appended := false
		repo := &mockMessageRepository{
			appendFn: func(ctx context.Context, msg *entity.Message) error {
				appended = true
				return nil
			},
		}
		dir := &mockUserDirectory{
			ensureFn: func(ctx context.Context, userID string) error {
				return errors.New("connection refused")
			},
		}
		notifier := &mockNotifier{}
		uc := NewChatUsecase(repo, dir, notifier, 0)

		_, err := uc.Send(context.Background(), "u1", "u2", "hi")

		assert.ErrorIs(t, err, ErrPersistence)
		assert.False(t, appended)
		assert.Empty(t, notifier.notified)
	})

	t.Run("self-message fans out exactly once", func(t *testing.T) {
		repo := &mockMessageRepository{}
		dir := &mockUserDirectory{}
		notifier := &mockNotifier{}
		uc := NewChatUsecase(repo, dir, notifier, 0)

		_, err := uc.Send(context.Background(), "u1", "u1", "note to self")

		require.NoError(t, err)
		assert.Equal(t, []string{"u1"}, notifier.notified, "one fanout per distinct room")
	})

	t.Run("sends to never-connected receivers still provision and persist", func(t *testing.T) {
		repo := &mockMessageRepository{}
		dir := &mockUserDirectory{}
		notifier := &mockNotifier{}
		uc := NewChatUsecase(repo, dir, notifier, 0)

		msg, err := uc.Send(context.Background(), "u1", "never-seen", "hello there")

		require.NoError(t, err)
		assert.Equal(t, []string{"never-seen"}, dir.ensured)
		assert.Equal(t, "never-seen", msg.ReceiverID)
	})

	t.Run("hung store calls fail within the bounded wait", func(t *testing.T) {
		repo := &mockMessageRepository{
			appendFn: func(ctx context.Context, msg *entity.Message) error {
				<-ctx.Done()
				return ctx.Err()
			},
		}
		dir := &mockUserDirectory{}
		notifier := &mockNotifier{}
		uc := NewChatUsecase(repo, dir, notifier, 20*time.Millisecond)

		start := time.Now()
		_, err := uc.Send(context.Background(), "u1", "u2", "hi")

		assert.ErrorIs(t, err, ErrPersistence)
		assert.Less(t, time.Since(start), time.Second, "send must not hang")
	})
}

func TestChatUsecase_GetHistory(t *testing.T) {
	t.Run("passes the pair and paging through to the store", func(t *testing.T) {
		want := []entity.Message{{ID: 1, SenderID: "u1", ReceiverID: "u2", Content: "hi"}}
		var gotA, gotB string
		var gotLimit, gotOffset int
		repo := &mockMessageRepository{
			conversationFn: func(ctx context.Context, userA, userB string, limit, offset int) ([]entity.Message, error) {
				gotA, gotB, gotLimit, gotOffset = userA, userB, limit, offset
				return want, nil
			},
		}
		uc := NewChatUsecase(repo, &mockUserDirectory{}, &mockNotifier{}, 0)

		got, err := uc.GetHistory(context.Background(), "u1", "u2", 50, 10)

		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.Equal(t, "u1", gotA)
		assert.Equal(t, "u2", gotB)
		assert.Equal(t, 50, gotLimit)
		assert.Equal(t, 10, gotOffset)
	})
}
