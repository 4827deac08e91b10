package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

type contextKey string

const userIDKey contextKey = "userID"

// WithUserID marks the request as made by an authenticated user.
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext returns the authenticated user id, false for anonymous requests.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDKey).(int64)
	return userID, ok && userID > 0
}

// viewerID is nil for anonymous requests.
func viewerID(r *http.Request) *int64 {
	if userID, ok := UserIDFromContext(r.Context()); ok {
		return &userID
	}
	return nil
}

func requireUser(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		WriteError(w, "Требуется аутентификация", http.StatusUnauthorized)
		return 0, false
	}
	return userID, true
}

// pathID reads a positive numeric route variable.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		WriteError(w, "Неверный идентификатор", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
