package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"microfeed/internal/apperror"
	"microfeed/internal/models"
)

type notificationRepository struct {
	db DBTX
}

func NewNotificationRepository(db DBTX) NotificationRepository {
	return &notificationRepository{db: db}
}

const notificationSelect = `
	SELECT n.notification_id, n.recipient_id, n.actor_id, n.post_id, n.action,
	       n.created_at, n.is_read, u.username AS actor_username, p.title AS post_title
	FROM notifications n
	JOIN users u ON u.user_id = n.actor_id
	LEFT JOIN posts p ON p.post_id = n.post_id
`

func (r *notificationRepository) Create(ctx context.Context, n *models.Notification) error {
	query := `
		INSERT INTO notifications (recipient_id, actor_id, post_id, action, created_at, is_read)
		VALUES ($1, $2, $3, $4, NOW(), FALSE)
		RETURNING notification_id, created_at
	`

	err := r.db.QueryRowxContext(ctx, query, n.RecipientID, n.ActorID, n.PostID, n.Action).
		Scan(&n.NotificationID, &n.Timestamp)
	if err != nil {
		return fmt.Errorf("ошибка при создании уведомления: %w", err)
	}

	n.Read = false
	return nil
}

func (r *notificationRepository) GetByID(ctx context.Context, notificationID int64) (*models.Notification, error) {
	var n models.Notification

	err := sqlx.GetContext(ctx, r.db, &n, notificationSelect+` WHERE n.notification_id = $1`, notificationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound(fmt.Sprintf("уведомление с ID %d не найдено", notificationID))
		}
		return nil, fmt.Errorf("ошибка при получении уведомления: %w", err)
	}

	return &n, nil
}

func (r *notificationRepository) ListByRecipient(ctx context.Context, recipientID int64) ([]models.Notification, error) {
	query := notificationSelect + `
		WHERE n.recipient_id = $1
		ORDER BY n.created_at DESC, n.notification_id DESC
	`

	notifications := []models.Notification{}
	if err := sqlx.SelectContext(ctx, r.db, &notifications, query, recipientID); err != nil {
		return nil, fmt.Errorf("ошибка при получении уведомлений: %w", err)
	}

	return notifications, nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, recipientID int64) (int, error) {
	var count int

	query := `SELECT COUNT(*) FROM notifications WHERE recipient_id = $1 AND NOT is_read`

	if err := sqlx.GetContext(ctx, r.db, &count, query, recipientID); err != nil {
		return 0, fmt.Errorf("ошибка при подсчёте непрочитанных уведомлений: %w", err)
	}

	return count, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, notificationID int64) error {
	result, err := r.db.ExecContext(ctx, `UPDATE notifications SET is_read = TRUE WHERE notification_id = $1`, notificationID)
	if err != nil {
		return fmt.Errorf("ошибка при отметке уведомления: %w", err)
	}

	return expectRow(result, fmt.Sprintf("уведомление с ID %d не найдено", notificationID))
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, recipientID int64) (int64, error) {
	query := `UPDATE notifications SET is_read = TRUE WHERE recipient_id = $1 AND NOT is_read`

	result, err := r.db.ExecContext(ctx, query, recipientID)
	if err != nil {
		return 0, fmt.Errorf("ошибка при отметке уведомлений: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("ошибка при проверке обновленных строк: %w", err)
	}

	return rowsAffected, nil
}

func (r *notificationRepository) DeleteByPostID(ctx context.Context, postID int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE post_id = $1`, postID); err != nil {
		return fmt.Errorf("ошибка при удалении уведомлений поста: %w", err)
	}

	return nil
}
