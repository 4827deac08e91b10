package app

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"microfeed/internal/cache"
	"microfeed/internal/config"
	"microfeed/internal/database"
	"microfeed/internal/repository"
	"microfeed/internal/service"
	"microfeed/internal/storage"
)

// App holds the wired dependencies of the server.
type App struct {
	DB       *database.DB
	Repo     *repository.Repository
	Services *service.Service
	Storage  storage.Storage
	redis    *redis.Client
	log      *zap.Logger
}

func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	// connection DB
	db, err := database.ConnectDB(cfg, log.Named("database"))
	if err != nil {
		return nil, fmt.Errorf("не удалось подключиться к БД: %w", err)
	}

	// connection MinIO
	minioClient, err := storage.NewMinIOClient(ctx, cfg.MinIO)
	if err != nil {
		db.CloseDB()
		return nil, fmt.Errorf("не удалось инициализировать MinIO: %w", err)
	}

	a := &App{
		DB:      db,
		Storage: minioClient,
		log:     log,
	}

	// trending cache is optional
	trending := cache.NewNoopTrending()
	if cfg.Redis.Addr != "" {
		rdb, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Warn("Redis недоступен, кэш трендов отключен", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		} else {
			a.redis = rdb
			trending = cache.NewRedisTrending(rdb, cfg.Redis.TrendingTTL)
		}
	}

	// enabling dependencies
	a.Repo = repository.NewRepository(db.DB)
	a.Services = service.NewService(a.Repo, cfg, minioClient, trending, log)

	return a, nil
}

func (a *App) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Warn("ошибка при закрытии Redis", zap.Error(err))
		}
	}
	if err := a.DB.CloseDB(); err != nil {
		a.log.Warn("ошибка при закрытии БД", zap.Error(err))
	}
}
