package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"microfeed/internal/apperror"
	"microfeed/internal/metrics"
	"microfeed/internal/models"
	"microfeed/internal/repository"
)

type NotificationService interface {
	Notify(ctx context.Context, recipientID, actorID int64, action models.NotificationAction, postID *int64) (*models.Notification, error)
	List(ctx context.Context, recipientID int64) ([]models.NotificationView, error)
	UnreadCount(ctx context.Context, recipientID int64) (int, error)
	MarkRead(ctx context.Context, notificationID, requesterID int64) error
	MarkAllRead(ctx context.Context, recipientID int64) (int64, error)
}

type notificationService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewNotificationService(repo *repository.Repository, log *zap.Logger) NotificationService {
	return &notificationService{repo: repo, log: log}
}

func (s *notificationService) Notify(ctx context.Context, recipientID, actorID int64, action models.NotificationAction, postID *int64) (*models.Notification, error) {
	return notify(ctx, s.repo, recipientID, actorID, action, postID)
}

// notify stores an activity notice through repo, which may be bound to the
// transaction of the triggering action. Acting on yourself yields nothing.
func notify(ctx context.Context, repo *repository.Repository, recipientID, actorID int64, action models.NotificationAction, postID *int64) (*models.Notification, error) {
	if !action.Valid() {
		return nil, apperror.Validation(fmt.Sprintf("неизвестный тип уведомления %q", action))
	}

	if recipientID == actorID {
		return nil, nil
	}

	n := &models.Notification{
		RecipientID: recipientID,
		ActorID:     actorID,
		PostID:      postID,
		Action:      action,
	}

	if err := repo.Notification.Create(ctx, n); err != nil {
		return nil, err
	}

	metrics.NotificationsCreated.WithLabelValues(string(action)).Inc()
	return n, nil
}

func (s *notificationService) List(ctx context.Context, recipientID int64) ([]models.NotificationView, error) {
	if err := requireActor(recipientID); err != nil {
		return nil, err
	}

	notifications, err := s.repo.Notification.ListByRecipient(ctx, recipientID)
	if err != nil {
		return nil, err
	}

	views := make([]models.NotificationView, 0, len(notifications))
	for _, n := range notifications {
		views = append(views, models.NotificationView{
			Notification: n,
			Message:      RenderMessage(n),
			Link:         RenderLink(n),
		})
	}

	return views, nil
}

func (s *notificationService) UnreadCount(ctx context.Context, recipientID int64) (int, error) {
	if err := requireActor(recipientID); err != nil {
		return 0, err
	}
	return s.repo.Notification.CountUnread(ctx, recipientID)
}

func (s *notificationService) MarkRead(ctx context.Context, notificationID, requesterID int64) error {
	if err := requireActor(requesterID); err != nil {
		return err
	}

	return s.repo.InTx(ctx, func(tx *repository.Repository) error {
		n, err := tx.Notification.GetByID(ctx, notificationID)
		if err != nil {
			return err
		}

		if n.RecipientID != requesterID {
			return apperror.Forbidden("нельзя отметить чужое уведомление")
		}

		return tx.Notification.MarkRead(ctx, notificationID)
	})
}

func (s *notificationService) MarkAllRead(ctx context.Context, recipientID int64) (int64, error) {
	if err := requireActor(recipientID); err != nil {
		return 0, err
	}

	updated, err := s.repo.Notification.MarkAllRead(ctx, recipientID)
	if err != nil {
		return 0, err
	}

	s.log.Debug("уведомления отмечены прочитанными",
		zap.Int64("recipient_id", recipientID),
		zap.Int64("updated", updated))

	return updated, nil
}

// RenderMessage builds the display text of a notification.
func RenderMessage(n models.Notification) string {
	switch n.Action {
	case models.ActionLike:
		if n.PostTitle != nil {
			return fmt.Sprintf("%s liked your post '%s'", n.ActorUsername, *n.PostTitle)
		}
	case models.ActionComment:
		if n.PostTitle != nil {
			return fmt.Sprintf("%s commented on your post '%s'", n.ActorUsername, *n.PostTitle)
		}
	case models.ActionFollow:
		return fmt.Sprintf("%s started following you", n.ActorUsername)
	}
	return "New Notification"
}

// RenderLink points at the post when there is one, at the actor's profile for follows.
func RenderLink(n models.Notification) string {
	if n.PostID != nil {
		return fmt.Sprintf("/post/%d", *n.PostID)
	}
	if n.Action == models.ActionFollow {
		return fmt.Sprintf("/profile/%d", n.ActorID)
	}
	return "#"
}
