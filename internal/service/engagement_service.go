package service

import (
	"context"

	"go.uber.org/zap"

	"microfeed/internal/metrics"
	"microfeed/internal/models"
	"microfeed/internal/repository"
)

// EngagementService keeps like and bookmark edges, and the cached like count, in step.
type EngagementService interface {
	ToggleLike(ctx context.Context, userID, postID int64) (bool, int, error)
	ToggleBookmark(ctx context.Context, userID, postID int64) (bool, error)
	HasLiked(ctx context.Context, userID, postID int64) (bool, error)
	HasBookmarked(ctx context.Context, userID, postID int64) (bool, error)
	LikedPostIDs(ctx context.Context, userID int64) ([]int64, error)
	BookmarkedPostIDs(ctx context.Context, userID int64) ([]int64, error)
	BookmarkedPosts(ctx context.Context, userID int64) ([]models.Post, error)
}

type engagementService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewEngagementService(repo *repository.Repository, log *zap.Logger) EngagementService {
	return &engagementService{repo: repo, log: log}
}

// ToggleLike flips the like edge and returns the state and count read back from the edge set.
// The post row stays locked until commit, so concurrent toggles on one post serialize.
func (s *engagementService) ToggleLike(ctx context.Context, userID, postID int64) (bool, int, error) {
	if err := requireActor(userID); err != nil {
		return false, 0, err
	}

	var (
		liked bool
		count int
	)

	err := s.repo.InTx(ctx, func(tx *repository.Repository) error {
		post, err := tx.Post.LockByID(ctx, postID)
		if err != nil {
			return err
		}

		removed, err := tx.Engagement.DeleteLike(ctx, userID, postID)
		if err != nil {
			return err
		}
		if !removed {
			if err := tx.Engagement.InsertLike(ctx, userID, postID); err != nil {
				return err
			}
		}

		// recount from the edges, never trust the cached column
		liked, err = tx.Engagement.HasLiked(ctx, userID, postID)
		if err != nil {
			return err
		}

		count, err = tx.Engagement.CountLikes(ctx, postID)
		if err != nil {
			return err
		}

		if err := tx.Post.SetLikeCount(ctx, postID, count); err != nil {
			return err
		}

		if liked {
			_, err = notify(ctx, tx, post.AuthorID, userID, models.ActionLike, &postID)
			return err
		}

		return nil
	})
	if err != nil {
		return false, 0, err
	}

	metrics.LikesToggled.WithLabelValues(metrics.State(liked)).Inc()
	s.log.Debug("лайк переключён",
		zap.Int64("user_id", userID),
		zap.Int64("post_id", postID),
		zap.Bool("liked", liked),
		zap.Int("like_count", count))

	return liked, count, nil
}

func (s *engagementService) ToggleBookmark(ctx context.Context, userID, postID int64) (bool, error) {
	if err := requireActor(userID); err != nil {
		return false, err
	}

	var bookmarked bool

	err := s.repo.InTx(ctx, func(tx *repository.Repository) error {
		if _, err := tx.Post.GetByID(ctx, postID); err != nil {
			return err
		}

		removed, err := tx.Engagement.DeleteBookmark(ctx, userID, postID)
		if err != nil {
			return err
		}
		if !removed {
			if err := tx.Engagement.InsertBookmark(ctx, userID, postID); err != nil {
				return err
			}
		}

		bookmarked, err = tx.Engagement.HasBookmarked(ctx, userID, postID)
		return err
	})
	if err != nil {
		return false, err
	}

	metrics.BookmarksToggled.WithLabelValues(metrics.State(bookmarked)).Inc()
	return bookmarked, nil
}

func (s *engagementService) HasLiked(ctx context.Context, userID, postID int64) (bool, error) {
	return s.repo.Engagement.HasLiked(ctx, userID, postID)
}

func (s *engagementService) HasBookmarked(ctx context.Context, userID, postID int64) (bool, error) {
	return s.repo.Engagement.HasBookmarked(ctx, userID, postID)
}

func (s *engagementService) LikedPostIDs(ctx context.Context, userID int64) ([]int64, error) {
	return s.repo.Engagement.LikedPostIDs(ctx, userID)
}

func (s *engagementService) BookmarkedPostIDs(ctx context.Context, userID int64) ([]int64, error) {
	return s.repo.Engagement.BookmarkedPostIDs(ctx, userID)
}

func (s *engagementService) BookmarkedPosts(ctx context.Context, userID int64) ([]models.Post, error) {
	if err := requireActor(userID); err != nil {
		return nil, err
	}
	return s.repo.Engagement.BookmarkedPosts(ctx, userID)
}
