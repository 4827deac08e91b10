package handlers

import (
	"encoding/json"
	"net/http"

	"microfeed/internal/models"
)

type PostResponse struct {
	*models.PostDetail
	ThumbnailURL string        `json:"thumbnailUrl,omitempty"`
	Liked        bool          `json:"liked"`
	Bookmarked   bool          `json:"bookmarked"`
	Related      []models.Post `json:"related"`
}

type LikeResponse struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"likeCount"`
}

type BookmarkResponse struct {
	Bookmarked bool `json:"bookmarked"`
}

type CommentRequest struct {
	Body string `json:"body"`
}

func (h *Handlers) CreatePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req models.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}
	req.AuthorID = userID

	post, err := h.PostService.CreatePost(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, post, http.StatusCreated)
}

func (h *Handlers) GetPost(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	ctx := r.Context()

	detail, err := h.PostService.GetPost(ctx, postID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	related, err := h.FeedService.RelatedPosts(ctx, postID, 3)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	response := PostResponse{
		PostDetail:   detail,
		ThumbnailURL: h.imageURL(ctx, detail.Post.Thumbnail),
		Related:      related,
	}

	if viewer, ok := UserIDFromContext(ctx); ok {
		if response.Liked, err = h.EngagementService.HasLiked(ctx, viewer, postID); err != nil {
			h.writeServiceError(w, r, err)
			return
		}
		if response.Bookmarked, err = h.EngagementService.HasBookmarked(ctx, viewer, postID); err != nil {
			h.writeServiceError(w, r, err)
			return
		}
	}

	writeSuccess(w, response, http.StatusOK)
}

func (h *Handlers) UpdatePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	postID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req models.UpdatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}
	req.PostID = postID
	req.EditorID = userID

	post, err := h.PostService.UpdatePost(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, post, http.StatusOK)
}

func (h *Handlers) DeletePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	postID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.PostService.DeletePost(r.Context(), postID, userID); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, map[string]string{"message": "Пост удален"}, http.StatusOK)
}

func (h *Handlers) UploadThumbnail(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	postID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	file, header, ok := h.readUpload(w, r)
	if !ok {
		return
	}
	defer file.Close()

	post, err := h.PostService.UploadThumbnail(r.Context(), postID, userID, header.Filename, file, header.Size)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, post, http.StatusOK)
}

func (h *Handlers) AddComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	postID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}

	comment, err := h.PostService.AddComment(r.Context(), postID, userID, req.Body)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, comment, http.StatusCreated)
}

func (h *Handlers) DeleteComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	commentID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.PostService.DeleteComment(r.Context(), commentID, userID); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, map[string]string{"message": "Комментарий удален"}, http.StatusOK)
}

func (h *Handlers) ToggleLike(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	postID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	liked, count, err := h.EngagementService.ToggleLike(r.Context(), userID, postID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, LikeResponse{Liked: liked, LikeCount: count}, http.StatusOK)
}

func (h *Handlers) ToggleBookmark(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	postID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	bookmarked, err := h.EngagementService.ToggleBookmark(r.Context(), userID, postID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, BookmarkResponse{Bookmarked: bookmarked}, http.StatusOK)
}

func (h *Handlers) GetBookmarks(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	posts, err := h.EngagementService.BookmarkedPosts(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, map[string]interface{}{"posts": posts}, http.StatusOK)
}
