package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"microfeed/internal/apperror"
	"microfeed/internal/models"
)

var notificationRowColumns = []string{
	"notification_id", "recipient_id", "actor_id", "post_id", "action",
	"created_at", "is_read", "actor_username", "post_title",
}

func TestNotificationRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewNotificationRepository(db)
	postID := int64(10)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO notifications (recipient_id, actor_id, post_id, action, created_at, is_read)`)).
		WithArgs(int64(1), int64(2), sqlmock.AnyArg(), models.ActionLike).
		WillReturnRows(sqlmock.NewRows([]string{"notification_id", "created_at"}).AddRow(int64(99), now))

	n := &models.Notification{RecipientID: 1, ActorID: 2, PostID: &postID, Action: models.ActionLike}
	err := repo.Create(context.Background(), n)

	require.NoError(t, err)
	assert.Equal(t, int64(99), n.NotificationID)
	assert.Equal(t, now, n.Timestamp)
	assert.False(t, n.Read)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepository_Reads(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("Список уведомлений получателя", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewNotificationRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta(`WHERE n.recipient_id = $1 ORDER BY n.created_at DESC, n.notification_id DESC`)).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows(notificationRowColumns).
				AddRow(int64(2), int64(1), int64(3), nil, "follow", now, false, "carol", nil).
				AddRow(int64(1), int64(1), int64(2), int64(10), "like", now.Add(-time.Hour), true, "bob", "Limits"))

		list, err := repo.ListByRecipient(ctx, 1)

		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, models.ActionFollow, list[0].Action)
		assert.Nil(t, list[0].PostID)
		assert.Equal(t, "bob", list[1].ActorUsername)
		require.NotNil(t, list[1].PostTitle)
		assert.Equal(t, "Limits", *list[1].PostTitle)
		assert.True(t, list[1].Read)
	})

	t.Run("Уведомление не найдено", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewNotificationRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta(`WHERE n.notification_id = $1`)).
			WithArgs(int64(5)).
			WillReturnError(sql.ErrNoRows)

		n, err := repo.GetByID(ctx, 5)

		assert.Nil(t, n)
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})

	t.Run("Количество непрочитанных", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewNotificationRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM notifications WHERE recipient_id = $1 AND NOT is_read`)).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

		count, err := repo.CountUnread(ctx, 1)

		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})
}

func TestNotificationRepository_Marks(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewNotificationRepository(db)
	ctx := context.Background()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE notifications SET is_read = TRUE WHERE notification_id = $1`)).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE notifications SET is_read = TRUE WHERE recipient_id = $1 AND NOT is_read`)).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM notifications WHERE post_id = $1`)).
		WithArgs(int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.MarkRead(ctx, 5))

	updated, err := repo.MarkAllRead(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), updated)

	require.NoError(t, repo.DeleteByPostID(ctx, 10))
	assert.NoError(t, mock.ExpectationsWereMet())
}
