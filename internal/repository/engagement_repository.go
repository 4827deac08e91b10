package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"microfeed/internal/models"
)

type engagementRepository struct {
	db DBTX
}

func NewEngagementRepository(db DBTX) EngagementRepository {
	return &engagementRepository{db: db}
}

func (r *engagementRepository) InsertLike(ctx context.Context, userID, postID int64) error {
	query := `
		INSERT INTO post_likes (user_id, post_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, post_id) DO NOTHING
	`

	if _, err := r.db.ExecContext(ctx, query, userID, postID); err != nil {
		return fmt.Errorf("ошибка при добавлении лайка: %w", err)
	}

	return nil
}

func (r *engagementRepository) DeleteLike(ctx context.Context, userID, postID int64) (bool, error) {
	return r.deleteEdge(ctx, `DELETE FROM post_likes WHERE user_id = $1 AND post_id = $2`, userID, postID, "лайка")
}

func (r *engagementRepository) HasLiked(ctx context.Context, userID, postID int64) (bool, error) {
	return r.edgeExists(ctx, `SELECT EXISTS(SELECT 1 FROM post_likes WHERE user_id = $1 AND post_id = $2)`, userID, postID)
}

func (r *engagementRepository) CountLikes(ctx context.Context, postID int64) (int, error) {
	var count int

	query := `SELECT COUNT(*) FROM post_likes WHERE post_id = $1`

	if err := sqlx.GetContext(ctx, r.db, &count, query, postID); err != nil {
		return 0, fmt.Errorf("ошибка при подсчёте лайков: %w", err)
	}

	return count, nil
}

func (r *engagementRepository) LikedPostIDs(ctx context.Context, userID int64) ([]int64, error) {
	ids := []int64{}

	query := `SELECT post_id FROM post_likes WHERE user_id = $1 ORDER BY post_id`

	if err := sqlx.SelectContext(ctx, r.db, &ids, query, userID); err != nil {
		return nil, fmt.Errorf("ошибка при получении лайков пользователя: %w", err)
	}

	return ids, nil
}

func (r *engagementRepository) InsertBookmark(ctx context.Context, userID, postID int64) error {
	query := `
		INSERT INTO bookmarks (user_id, post_id, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id, post_id) DO NOTHING
	`

	if _, err := r.db.ExecContext(ctx, query, userID, postID); err != nil {
		return fmt.Errorf("ошибка при добавлении закладки: %w", err)
	}

	return nil
}

func (r *engagementRepository) DeleteBookmark(ctx context.Context, userID, postID int64) (bool, error) {
	return r.deleteEdge(ctx, `DELETE FROM bookmarks WHERE user_id = $1 AND post_id = $2`, userID, postID, "закладки")
}

func (r *engagementRepository) HasBookmarked(ctx context.Context, userID, postID int64) (bool, error) {
	return r.edgeExists(ctx, `SELECT EXISTS(SELECT 1 FROM bookmarks WHERE user_id = $1 AND post_id = $2)`, userID, postID)
}

func (r *engagementRepository) BookmarkedPostIDs(ctx context.Context, userID int64) ([]int64, error) {
	ids := []int64{}

	query := `SELECT post_id FROM bookmarks WHERE user_id = $1 ORDER BY post_id`

	if err := sqlx.SelectContext(ctx, r.db, &ids, query, userID); err != nil {
		return nil, fmt.Errorf("ошибка при получении закладок пользователя: %w", err)
	}

	return ids, nil
}

func (r *engagementRepository) BookmarkedPosts(ctx context.Context, userID int64) ([]models.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts p
		JOIN bookmarks b ON b.post_id = p.post_id
		WHERE b.user_id = $1
		ORDER BY b.created_at DESC, p.post_id DESC
	`

	posts := []models.Post{}
	if err := sqlx.SelectContext(ctx, r.db, &posts, query, userID); err != nil {
		return nil, fmt.Errorf("ошибка при получении закладок: %w", err)
	}

	return posts, nil
}

// DeleteByPostID drops every like and bookmark of the post.
func (r *engagementRepository) DeleteByPostID(ctx context.Context, postID int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM post_likes WHERE post_id = $1`, postID); err != nil {
		return fmt.Errorf("ошибка при удалении лайков поста: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM bookmarks WHERE post_id = $1`, postID); err != nil {
		return fmt.Errorf("ошибка при удалении закладок поста: %w", err)
	}

	return nil
}

func (r *engagementRepository) deleteEdge(ctx context.Context, query string, userID, postID int64, what string) (bool, error) {
	result, err := r.db.ExecContext(ctx, query, userID, postID)
	if err != nil {
		return false, fmt.Errorf("ошибка при удалении %s: %w", what, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("ошибка при проверке удаленных строк: %w", err)
	}

	return rowsAffected > 0, nil
}

func (r *engagementRepository) edgeExists(ctx context.Context, query string, userID, postID int64) (bool, error) {
	var exists bool

	if err := sqlx.GetContext(ctx, r.db, &exists, query, userID, postID); err != nil {
		return false, fmt.Errorf("ошибка при проверке связи с постом: %w", err)
	}

	return exists, nil
}
