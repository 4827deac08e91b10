package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"microfeed/internal/models"
)

type tagRepository struct {
	db DBTX
}

func NewTagRepository(db DBTX) TagRepository {
	return &tagRepository{db: db}
}

// GetOrCreate returns the tag with exactly this name, creating it if needed.
// The no-op update makes RETURNING yield the existing row on conflict.
func (r *tagRepository) GetOrCreate(ctx context.Context, name string) (*models.Tag, error) {
	query := `
		INSERT INTO tags (name)
		VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING tag_id, name
	`

	var tag models.Tag
	if err := sqlx.GetContext(ctx, r.db, &tag, query, name); err != nil {
		return nil, fmt.Errorf("ошибка при создании тега %q: %w", name, err)
	}

	return &tag, nil
}

func (r *tagRepository) Attach(ctx context.Context, postID, tagID int64) error {
	query := `
		INSERT INTO post_tags (post_id, tag_id)
		VALUES ($1, $2)
		ON CONFLICT (post_id, tag_id) DO NOTHING
	`

	if _, err := r.db.ExecContext(ctx, query, postID, tagID); err != nil {
		return fmt.Errorf("ошибка при привязке тега к посту: %w", err)
	}

	return nil
}

func (r *tagRepository) DetachPost(ctx context.Context, postID int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM post_tags WHERE post_id = $1`, postID); err != nil {
		return fmt.Errorf("ошибка при удалении тегов поста: %w", err)
	}

	return nil
}

func (r *tagRepository) ListByPost(ctx context.Context, postID int64) ([]models.Tag, error) {
	query := `
		SELECT t.tag_id, t.name
		FROM tags t
		JOIN post_tags pt ON pt.tag_id = t.tag_id
		WHERE pt.post_id = $1
		ORDER BY t.name
	`

	tags := []models.Tag{}
	if err := sqlx.SelectContext(ctx, r.db, &tags, query, postID); err != nil {
		return nil, fmt.Errorf("ошибка при получении тегов поста: %w", err)
	}

	return tags, nil
}

func (r *tagRepository) ListAll(ctx context.Context) ([]models.Tag, error) {
	tags := []models.Tag{}

	if err := sqlx.SelectContext(ctx, r.db, &tags, `SELECT tag_id, name FROM tags ORDER BY name`); err != nil {
		return nil, fmt.Errorf("ошибка при получении тегов: %w", err)
	}

	return tags, nil
}

// Trending ranks all tags by post count, ties by tag id.
func (r *tagRepository) Trending(ctx context.Context, limit int) ([]models.TagCount, error) {
	query := `
		SELECT t.tag_id, t.name, COUNT(pt.post_id) AS post_count
		FROM tags t
		LEFT JOIN post_tags pt ON pt.tag_id = t.tag_id
		GROUP BY t.tag_id, t.name
		ORDER BY post_count DESC, t.tag_id ASC
		LIMIT $1
	`

	tags := []models.TagCount{}
	if err := sqlx.SelectContext(ctx, r.db, &tags, query, limit); err != nil {
		return nil, fmt.Errorf("ошибка при подсчёте популярных тегов: %w", err)
	}

	return tags, nil
}
