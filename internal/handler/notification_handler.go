package handlers

import (
	"net/http"

	"microfeed/internal/models"
)

type NotificationsResponse struct {
	Notifications []models.NotificationView `json:"notifications"`
	Unread        int                       `json:"unread"`
}

func (h *Handlers) GetNotifications(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	ctx := r.Context()

	views, err := h.NotificationService.List(ctx, userID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	unread, err := h.NotificationService.UnreadCount(ctx, userID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, NotificationsResponse{Notifications: views, Unread: unread}, http.StatusOK)
}

func (h *Handlers) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	notificationID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.NotificationService.MarkRead(r.Context(), notificationID, userID); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, map[string]bool{"read": true}, http.StatusOK)
}

func (h *Handlers) MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	updated, err := h.NotificationService.MarkAllRead(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, map[string]int64{"updated": updated}, http.StatusOK)
}
