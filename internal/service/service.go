package service

import (
	"go.uber.org/zap"

	"microfeed/internal/cache"
	"microfeed/internal/config"
	"microfeed/internal/repository"
	"microfeed/internal/storage"
)

type Service struct {
	Auth         AuthService
	User         UserService
	Graph        GraphService
	Engagement   EngagementService
	Post         PostService
	Feed         FeedService
	Notification NotificationService
	Stats        StatsService
}

func NewService(rep *repository.Repository, cfg *config.Config, storage storage.Storage, trending cache.TrendingCache, log *zap.Logger) *Service {
	return &Service{
		Auth:         NewAuthService(rep, cfg, log.Named("auth")),
		User:         NewUserService(rep, storage, log.Named("user")),
		Graph:        NewGraphService(rep, log.Named("graph")),
		Engagement:   NewEngagementService(rep, log.Named("engagement")),
		Post:         NewPostService(rep, storage, trending, log.Named("post")),
		Feed:         NewFeedService(rep, trending, log.Named("feed")),
		Notification: NewNotificationService(rep, log.Named("notification")),
		Stats:        NewStatsService(rep.Stats),
	}
}
