package handlers

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"microfeed/internal/config"
	"microfeed/internal/service"
	"microfeed/internal/storage"
)

// HealthChecker is satisfied by *database.DB.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type Handlers struct {
	AuthService         service.AuthService
	UserService         service.UserService
	GraphService        service.GraphService
	EngagementService   service.EngagementService
	PostService         service.PostService
	FeedService         service.FeedService
	NotificationService service.NotificationService
	StatsService        service.StatsService
	Storage             storage.Storage
	DB                  HealthChecker
	Cfg                 *config.Config
	Validate            *validator.Validate
	Log                 *zap.Logger
}

func NewHandlers(services *service.Service, storage storage.Storage, db HealthChecker, cfg *config.Config, log *zap.Logger) *Handlers {
	return &Handlers{
		AuthService:         services.Auth,
		UserService:         services.User,
		GraphService:        services.Graph,
		EngagementService:   services.Engagement,
		PostService:         services.Post,
		FeedService:         services.Feed,
		NotificationService: services.Notification,
		StatsService:        services.Stats,
		Storage:             storage,
		DB:                  db,
		Cfg:                 cfg,
		Validate:            validator.New(),
		Log:                 log,
	}
}
