package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"microfeed/internal/models"
)

type statsRepository struct {
	db DBTX
}

func NewStatsRepository(db DBTX) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) Totals(ctx context.Context) (*models.Stats, error) {
	var stats models.Stats

	err := sqlx.GetContext(ctx, r.db, &stats, `
			SELECT
				(SELECT COUNT(*) FROM users)    AS users,
				(SELECT COUNT(*) FROM posts)    AS posts,
				(SELECT COUNT(*) FROM tags)     AS tags,
				(SELECT COUNT(*) FROM comments) AS comments
		`)

	if err != nil {
		return nil, fmt.Errorf("ошибка при подсчёте статистики: %w", err)
	}

	return &stats, nil
}
