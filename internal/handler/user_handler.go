package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"
)

type FollowResponse struct {
	Following     bool `json:"following"`
	FollowerCount int  `json:"followerCount"`
}

func (h *Handlers) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	h.writeProfile(w, r, userID)
}

// writeProfile renders a user with graph counters relative to the viewer.
func (h *Handlers) writeProfile(w http.ResponseWriter, r *http.Request, userID int64) {
	ctx := r.Context()

	// get user by id
	user, err := h.UserService.Lookup(ctx, userID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	followers, err := h.GraphService.FollowerCount(ctx, userID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	following, err := h.GraphService.FollowingCount(ctx, userID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	response := ProfileResponse{
		User:           user,
		AvatarURL:      h.imageURL(ctx, user.Avatar),
		FollowerCount:  followers,
		FollowingCount: following,
	}

	if viewer, ok := UserIDFromContext(ctx); ok && viewer != userID {
		response.IsFollowing, err = h.GraphService.IsFollowing(ctx, viewer, userID)
		if err != nil {
			h.writeServiceError(w, r, err)
			return
		}
	}

	writeSuccess(w, response, http.StatusOK)
}

func (h *Handlers) GetUserPosts(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	posts, err := h.UserService.UserPosts(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, map[string]interface{}{"posts": posts}, http.StatusOK)
}

func (h *Handlers) GetFollowers(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	users, err := h.GraphService.Followers(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, map[string]interface{}{"users": users}, http.StatusOK)
}

func (h *Handlers) GetFollowing(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	users, err := h.GraphService.Following(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, map[string]interface{}{"users": users}, http.StatusOK)
}

func (h *Handlers) Follow(w http.ResponseWriter, r *http.Request) {
	h.changeFollow(w, r, h.GraphService.Follow)
}

func (h *Handlers) Unfollow(w http.ResponseWriter, r *http.Request) {
	h.changeFollow(w, r, h.GraphService.Unfollow)
}

func (h *Handlers) changeFollow(w http.ResponseWriter, r *http.Request, change func(ctx context.Context, followerID, followedID int64) error) {
	followerID, ok := requireUser(w, r)
	if !ok {
		return
	}

	followedID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	ctx := r.Context()
	if err := change(ctx, followerID, followedID); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	following, err := h.GraphService.IsFollowing(ctx, followerID, followedID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	count, err := h.GraphService.FollowerCount(ctx, followedID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, FollowResponse{Following: following, FollowerCount: count}, http.StatusOK)
}

// imageURL resolves a stored object name to a presigned URL, empty when unavailable.
func (h *Handlers) imageURL(ctx context.Context, objectName *string) string {
	if h.Storage == nil || objectName == nil || *objectName == "" {
		return ""
	}

	url, err := h.Storage.GetImageURL(ctx, *objectName)
	if err != nil {
		h.Log.Warn("не удалось получить ссылку на изображение", zap.String("object", *objectName), zap.Error(err))
		return ""
	}
	return url
}
