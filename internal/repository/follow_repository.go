package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"microfeed/internal/models"
)

type followRepository struct {
	db DBTX
}

func NewFollowRepository(db DBTX) FollowRepository {
	return &followRepository{db: db}
}

// Insert adds the edge and reports whether it was new.
func (r *followRepository) Insert(ctx context.Context, followerID, followedID int64) (bool, error) {
	query := `
		INSERT INTO follows (follower_id, followed_id, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (follower_id, followed_id) DO NOTHING
	`

	result, err := r.db.ExecContext(ctx, query, followerID, followedID)
	if err != nil {
		return false, fmt.Errorf("ошибка при создании подписки: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("ошибка при проверке добавленных строк: %w", err)
	}

	return rowsAffected == 1, nil
}

func (r *followRepository) Delete(ctx context.Context, followerID, followedID int64) (bool, error) {
	query := `DELETE FROM follows WHERE follower_id = $1 AND followed_id = $2`

	result, err := r.db.ExecContext(ctx, query, followerID, followedID)
	if err != nil {
		return false, fmt.Errorf("ошибка при удалении подписки: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("ошибка при проверке удаленных строк: %w", err)
	}

	return rowsAffected > 0, nil
}

func (r *followRepository) Exists(ctx context.Context, followerID, followedID int64) (bool, error) {
	var exists bool

	query := `SELECT EXISTS(SELECT 1 FROM follows WHERE follower_id = $1 AND followed_id = $2)`

	if err := sqlx.GetContext(ctx, r.db, &exists, query, followerID, followedID); err != nil {
		return false, fmt.Errorf("ошибка при проверке подписки: %w", err)
	}

	return exists, nil
}

func (r *followRepository) CountFollowers(ctx context.Context, userID int64) (int, error) {
	var count int

	query := `SELECT COUNT(*) FROM follows WHERE followed_id = $1`

	if err := sqlx.GetContext(ctx, r.db, &count, query, userID); err != nil {
		return 0, fmt.Errorf("ошибка при подсчёте подписчиков: %w", err)
	}

	return count, nil
}

func (r *followRepository) CountFollowing(ctx context.Context, userID int64) (int, error) {
	var count int

	query := `SELECT COUNT(*) FROM follows WHERE follower_id = $1`

	if err := sqlx.GetContext(ctx, r.db, &count, query, userID); err != nil {
		return 0, fmt.Errorf("ошибка при подсчёте подписок: %w", err)
	}

	return count, nil
}

func (r *followRepository) Followers(ctx context.Context, userID int64) ([]models.User, error) {
	query := `
		SELECT u.user_id, u.username, u.email, u.password_hash, u.date_joined, u.bio, u.avatar
		FROM users u
		JOIN follows f ON f.follower_id = u.user_id
		WHERE f.followed_id = $1
		ORDER BY f.created_at DESC, u.user_id DESC
	`

	users := []models.User{}
	if err := sqlx.SelectContext(ctx, r.db, &users, query, userID); err != nil {
		return nil, fmt.Errorf("ошибка при получении подписчиков: %w", err)
	}

	return users, nil
}

func (r *followRepository) Following(ctx context.Context, userID int64) ([]models.User, error) {
	query := `
		SELECT u.user_id, u.username, u.email, u.password_hash, u.date_joined, u.bio, u.avatar
		FROM users u
		JOIN follows f ON f.followed_id = u.user_id
		WHERE f.follower_id = $1
		ORDER BY f.created_at DESC, u.user_id DESC
	`

	users := []models.User{}
	if err := sqlx.SelectContext(ctx, r.db, &users, query, userID); err != nil {
		return nil, fmt.Errorf("ошибка при получении подписок: %w", err)
	}

	return users, nil
}
