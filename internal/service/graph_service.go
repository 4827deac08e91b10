package service

import (
	"context"

	"go.uber.org/zap"

	"microfeed/internal/metrics"
	"microfeed/internal/models"
	"microfeed/internal/repository"
)

// GraphService maintains follow edges between users.
type GraphService interface {
	Follow(ctx context.Context, followerID, followedID int64) error
	Unfollow(ctx context.Context, followerID, followedID int64) error
	IsFollowing(ctx context.Context, followerID, followedID int64) (bool, error)
	FollowerCount(ctx context.Context, userID int64) (int, error)
	FollowingCount(ctx context.Context, userID int64) (int, error)
	Followers(ctx context.Context, userID int64) ([]models.User, error)
	Following(ctx context.Context, userID int64) ([]models.User, error)
}

type graphService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewGraphService(repo *repository.Repository, log *zap.Logger) GraphService {
	return &graphService{repo: repo, log: log}
}

// Follow is idempotent, and following yourself is silently ignored.
func (s *graphService) Follow(ctx context.Context, followerID, followedID int64) error {
	if err := requireActor(followerID); err != nil {
		return err
	}

	if followerID == followedID {
		return nil
	}

	var created bool

	err := s.repo.InTx(ctx, func(tx *repository.Repository) error {
		if _, err := tx.User.GetUserByID(ctx, followedID); err != nil {
			return err
		}

		var err error
		created, err = tx.Follow.Insert(ctx, followerID, followedID)
		if err != nil {
			return err
		}

		if !created {
			return nil
		}

		_, err = notify(ctx, tx, followedID, followerID, models.ActionFollow, nil)
		return err
	})
	if err != nil {
		return err
	}

	if created {
		metrics.Follows.WithLabelValues("follow").Inc()
		s.log.Debug("подписка создана",
			zap.Int64("follower_id", followerID),
			zap.Int64("followed_id", followedID))
	}

	return nil
}

func (s *graphService) Unfollow(ctx context.Context, followerID, followedID int64) error {
	if err := requireActor(followerID); err != nil {
		return err
	}

	if followerID == followedID {
		return nil
	}

	removed, err := s.repo.Follow.Delete(ctx, followerID, followedID)
	if err != nil {
		return err
	}

	if removed {
		metrics.Follows.WithLabelValues("unfollow").Inc()
	}

	return nil
}

func (s *graphService) IsFollowing(ctx context.Context, followerID, followedID int64) (bool, error) {
	return s.repo.Follow.Exists(ctx, followerID, followedID)
}

func (s *graphService) FollowerCount(ctx context.Context, userID int64) (int, error) {
	return s.repo.Follow.CountFollowers(ctx, userID)
}

func (s *graphService) FollowingCount(ctx context.Context, userID int64) (int, error) {
	return s.repo.Follow.CountFollowing(ctx, userID)
}

func (s *graphService) Followers(ctx context.Context, userID int64) ([]models.User, error) {
	if _, err := s.repo.User.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.repo.Follow.Followers(ctx, userID)
}

func (s *graphService) Following(ctx context.Context, userID int64) ([]models.User, error) {
	if _, err := s.repo.User.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.repo.Follow.Following(ctx, userID)
}
