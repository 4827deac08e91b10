package handlers

import (
	"net/http"
	"strconv"

	"microfeed/internal/models"
	"microfeed/internal/service"
)

type FeedResponse struct {
	Feed              models.FeedMode `json:"feed"`
	Query             string          `json:"q,omitempty"`
	Posts             []models.Post   `json:"posts"`
	Sidebar           *models.Sidebar `json:"sidebar"`
	LikedPostIDs      []int64         `json:"likedPostIds"`
	BookmarkedPostIDs []int64         `json:"bookmarkedPostIds"`
}

// feedRequest picks the mode from the query: q, then tag, then topic, then feed.
func feedRequest(r *http.Request) models.FeedRequest {
	query := r.URL.Query()
	req := models.FeedRequest{ViewerID: viewerID(r), Mode: models.FeedDiscover}

	switch {
	case query.Get("q") != "":
		req.Mode, req.Filter = models.FeedSearch, query.Get("q")
	case query.Get("tag") != "":
		req.Mode, req.Filter = models.FeedTag, query.Get("tag")
	case query.Get("topic") != "":
		req.Mode, req.Filter = models.FeedTag, query.Get("topic")
	case query.Get("feed") == string(models.FeedFollowing):
		req.Mode = models.FeedFollowing
	}

	return req
}

func (h *Handlers) GetFeed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req := feedRequest(r)

	posts, err := h.FeedService.ComposeFeed(ctx, req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	sidebar, err := h.FeedService.Sidebar(ctx, posts)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	response := FeedResponse{
		Feed:              req.Mode,
		Posts:             posts,
		Sidebar:           sidebar,
		LikedPostIDs:      []int64{},
		BookmarkedPostIDs: []int64{},
	}
	if req.Mode == models.FeedSearch {
		response.Query = req.Filter
	}

	if req.ViewerID != nil {
		if response.LikedPostIDs, err = h.EngagementService.LikedPostIDs(ctx, *req.ViewerID); err != nil {
			h.writeServiceError(w, r, err)
			return
		}
		if response.BookmarkedPostIDs, err = h.EngagementService.BookmarkedPostIDs(ctx, *req.ViewerID); err != nil {
			h.writeServiceError(w, r, err)
			return
		}
	}

	writeSuccess(w, response, http.StatusOK)
}

func (h *Handlers) GetTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.PostService.ListTags(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, map[string]interface{}{"tags": tags}, http.StatusOK)
}

func (h *Handlers) GetTrendingTags(w http.ResponseWriter, r *http.Request) {
	limit := service.SidebarTrendingLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 || parsed > 100 {
			WriteError(w, "Неверный параметр limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	tags, err := h.FeedService.TrendingTags(r.Context(), limit)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, map[string]interface{}{"tags": tags}, http.StatusOK)
}
