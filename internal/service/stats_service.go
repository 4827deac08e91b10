package service

import (
	"context"

	"microfeed/internal/models"
	"microfeed/internal/repository"
)

type StatsService interface {
	Totals(ctx context.Context) (*models.Stats, error)
}

type statsService struct {
	statsRepo repository.StatsRepository
}

func NewStatsService(statsRepo repository.StatsRepository) StatsService {
	return &statsService{statsRepo: statsRepo}
}

func (s *statsService) Totals(ctx context.Context) (*models.Stats, error) {
	stats, err := s.statsRepo.Totals(ctx)
	if err != nil {
		return nil, err
	}

	return stats, nil
}
