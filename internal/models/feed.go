package models

type FeedMode string

const (
	FeedDiscover  FeedMode = "discover"
	FeedFollowing FeedMode = "following"
	FeedTag       FeedMode = "tag"
	FeedSearch    FeedMode = "search"
)

func (m FeedMode) Valid() bool {
	switch m {
	case FeedDiscover, FeedFollowing, FeedTag, FeedSearch:
		return true
	}
	return false
}

// FeedRequest describes one feed composition. ViewerID is nil for anonymous viewers.
type FeedRequest struct {
	ViewerID *int64
	Mode     FeedMode
	Filter   string
}

// Sidebar mirrors the discussion sidebar next to the feed.
type Sidebar struct {
	Trending []string `json:"trending"`
	Tags     []string `json:"tags"`
	Related  []Post   `json:"related"`
}
