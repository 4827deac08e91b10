package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"microfeed/internal/apperror"
	"microfeed/internal/cache"
	"microfeed/internal/metrics"
	"microfeed/internal/models"
	"microfeed/internal/repository"
)

const (
	SidebarTrendingLimit = 6
	SidebarRelatedLimit  = 5
)

// FeedService composes ordered post lists for a viewing context.
type FeedService interface {
	ComposeFeed(ctx context.Context, req models.FeedRequest) ([]models.Post, error)
	TrendingTags(ctx context.Context, limit int) ([]models.TagCount, error)
	RelatedPosts(ctx context.Context, postID int64, limit int) ([]models.Post, error)
	Sidebar(ctx context.Context, feed []models.Post) (*models.Sidebar, error)
}

type feedService struct {
	repo     *repository.Repository
	trending cache.TrendingCache
	log      *zap.Logger
}

func NewFeedService(repo *repository.Repository, trending cache.TrendingCache, log *zap.Logger) FeedService {
	return &feedService{
		repo:     repo,
		trending: trending,
		log:      log,
	}
}

// ComposeFeed returns posts newest first in every mode.
func (f *feedService) ComposeFeed(ctx context.Context, req models.FeedRequest) ([]models.Post, error) {
	switch req.Mode {
	case models.FeedDiscover:
		return f.repo.Post.ListRecent(ctx)

	case models.FeedFollowing:
		if req.ViewerID == nil || *req.ViewerID <= 0 {
			return nil, apperror.Unauthenticated("лента подписок доступна только после входа")
		}
		return f.repo.Post.ListFollowedBy(ctx, *req.ViewerID)

	case models.FeedTag:
		// tag names match exactly, blank filters match nothing
		if strings.TrimSpace(req.Filter) == "" {
			return []models.Post{}, nil
		}
		return f.repo.Post.ListByTagName(ctx, req.Filter)

	case models.FeedSearch:
		query := strings.TrimSpace(req.Filter)
		if query == "" {
			return f.repo.Post.ListRecent(ctx)
		}
		return f.repo.Post.Search(ctx, query)

	default:
		return nil, apperror.Validation(fmt.Sprintf("неизвестный режим ленты %q", req.Mode))
	}
}

// TrendingTags serves from the cache when possible. Cache failures only cost a SQL query.
func (f *feedService) TrendingTags(ctx context.Context, limit int) ([]models.TagCount, error) {
	if limit <= 0 {
		return []models.TagCount{}, nil
	}

	// the generation is taken before the SQL read so a concurrent invalidation wins
	gen, err := f.trending.Generation(ctx)
	if err != nil {
		f.log.Warn("кэш трендов недоступен", zap.Error(err))
		metrics.TrendingCache.WithLabelValues("miss").Inc()
		return f.repo.Tag.Trending(ctx, limit)
	}

	tags, hit, err := f.trending.Get(ctx, gen, limit)
	if err != nil {
		f.log.Warn("кэш трендов недоступен", zap.Error(err))
	}
	if hit {
		metrics.TrendingCache.WithLabelValues("hit").Inc()
		return tags, nil
	}
	metrics.TrendingCache.WithLabelValues("miss").Inc()

	tags, err = f.repo.Tag.Trending(ctx, limit)
	if err != nil {
		return nil, err
	}

	if err := f.trending.Set(ctx, gen, limit, tags); err != nil {
		f.log.Warn("не удалось записать кэш трендов", zap.Error(err))
	}

	return tags, nil
}

// RelatedPosts prefers posts sharing a tag and backfills with the newest others up to limit.
func (f *feedService) RelatedPosts(ctx context.Context, postID int64, limit int) ([]models.Post, error) {
	if limit <= 0 {
		return []models.Post{}, nil
	}

	if _, err := f.repo.Post.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	related, err := f.repo.Post.ListSharingTags(ctx, postID, limit)
	if err != nil {
		return nil, err
	}

	if len(related) >= limit {
		return related[:limit], nil
	}

	exclude := make([]int64, 0, len(related)+1)
	exclude = append(exclude, postID)
	for _, post := range related {
		exclude = append(exclude, post.PostID)
	}

	backfill, err := f.repo.Post.ListRecentExcluding(ctx, exclude, limit-len(related))
	if err != nil {
		return nil, err
	}

	return append(related, backfill...), nil
}

// Sidebar decorates an already composed feed: its first posts become the related list.
func (f *feedService) Sidebar(ctx context.Context, feed []models.Post) (*models.Sidebar, error) {
	trending, err := f.TrendingTags(ctx, SidebarTrendingLimit)
	if err != nil {
		return nil, err
	}

	tags, err := f.repo.Tag.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	related := make([]models.Post, 0, SidebarRelatedLimit)
	for i := 0; i < len(feed) && i < SidebarRelatedLimit; i++ {
		related = append(related, feed[i])
	}

	sidebar := &models.Sidebar{
		Trending: make([]string, 0, len(trending)),
		Tags:     make([]string, 0, len(tags)),
		Related:  related,
	}
	for _, t := range trending {
		sidebar.Trending = append(sidebar.Trending, t.Name)
	}
	for _, t := range tags {
		sidebar.Tags = append(sidebar.Tags, t.Name)
	}

	return sidebar, nil
}
