package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterRoutes mounts every endpoint. Authentication is resolved by middleware;
// handlers that need a user reject anonymous requests themselves.
func (h *Handlers) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.HealthHandler).Methods(http.MethodGet)
	r.HandleFunc("/stats", h.StatsHandler).Methods(http.MethodGet)

	// auth and profile
	r.HandleFunc("/api/auth/register", h.Register).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/login", h.Login).Methods(http.MethodPost)
	r.HandleFunc("/api/me", h.GetCurrentUser).Methods(http.MethodGet)
	r.HandleFunc("/api/me", h.UpdateCurrentUser).Methods(http.MethodPut)
	r.HandleFunc("/api/me/avatar", h.UploadAvatar).Methods(http.MethodPost)

	// users and graph
	r.HandleFunc("/api/users/{id:[0-9]+}", h.GetUser).Methods(http.MethodGet)
	r.HandleFunc("/api/users/{id:[0-9]+}/posts", h.GetUserPosts).Methods(http.MethodGet)
	r.HandleFunc("/api/users/{id:[0-9]+}/followers", h.GetFollowers).Methods(http.MethodGet)
	r.HandleFunc("/api/users/{id:[0-9]+}/following", h.GetFollowing).Methods(http.MethodGet)
	r.HandleFunc("/follow/{id:[0-9]+}", h.Follow).Methods(http.MethodPost)
	r.HandleFunc("/unfollow/{id:[0-9]+}", h.Unfollow).Methods(http.MethodPost)

	// feed and tags
	r.HandleFunc("/", h.GetFeed).Methods(http.MethodGet)
	r.HandleFunc("/home", h.GetFeed).Methods(http.MethodGet)
	r.HandleFunc("/api/tags", h.GetTags).Methods(http.MethodGet)
	r.HandleFunc("/api/tags/trending", h.GetTrendingTags).Methods(http.MethodGet)

	// posts
	r.HandleFunc("/post/new", h.CreatePost).Methods(http.MethodPost)
	r.HandleFunc("/post/{id:[0-9]+}", h.GetPost).Methods(http.MethodGet)
	r.HandleFunc("/post/{id:[0-9]+}/edit", h.UpdatePost).Methods(http.MethodPut)
	r.HandleFunc("/post/{id:[0-9]+}/delete", h.DeletePost).Methods(http.MethodPost)
	r.HandleFunc("/post/{id:[0-9]+}/thumbnail", h.UploadThumbnail).Methods(http.MethodPost)
	r.HandleFunc("/post/{id:[0-9]+}/comments", h.AddComment).Methods(http.MethodPost)
	r.HandleFunc("/comments/{id:[0-9]+}", h.DeleteComment).Methods(http.MethodDelete)
	r.HandleFunc("/post/{id:[0-9]+}/upvote", h.ToggleLike).Methods(http.MethodPost)
	r.HandleFunc("/post/{id:[0-9]+}/bookmark", h.ToggleBookmark).Methods(http.MethodPost)
	r.HandleFunc("/api/bookmarks", h.GetBookmarks).Methods(http.MethodGet)

	// notifications
	r.HandleFunc("/notifications", h.GetNotifications).Methods(http.MethodGet)
	r.HandleFunc("/notifications/read-all", h.MarkAllNotificationsRead).Methods(http.MethodPost)
	r.HandleFunc("/notifications/{id:[0-9]+}/read", h.MarkNotificationRead).Methods(http.MethodPost)

	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
	})
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, "Не найдено", http.StatusNotFound)
	})
}
