package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"microfeed/internal/apperror"
	"microfeed/internal/models"
)

type commentRepository struct {
	db DBTX
}

func NewCommentRepository(db DBTX) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comments (post_id, user_id, body, date_commented)
		VALUES ($1, $2, $3, NOW())
		RETURNING comment_id, date_commented
	`

	err := r.db.QueryRowxContext(ctx, query, comment.PostID, comment.UserID, comment.Body).
		Scan(&comment.CommentID, &comment.DateCommented)
	if err != nil {
		return fmt.Errorf("ошибка при создании комментария: %w", err)
	}

	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, commentID int64) (*models.Comment, error) {
	var comment models.Comment

	query := `SELECT comment_id, post_id, user_id, body, date_commented FROM comments WHERE comment_id = $1`

	err := sqlx.GetContext(ctx, r.db, &comment, query, commentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound(fmt.Sprintf("комментарий с ID %d не найден", commentID))
		}
		return nil, fmt.Errorf("ошибка при получении комментария: %w", err)
	}

	return &comment, nil
}

func (r *commentRepository) ListByPost(ctx context.Context, postID int64) ([]models.Comment, error) {
	query := `
		SELECT comment_id, post_id, user_id, body, date_commented
		FROM comments
		WHERE post_id = $1
		ORDER BY date_commented, comment_id
	`

	comments := []models.Comment{}
	if err := sqlx.SelectContext(ctx, r.db, &comments, query, postID); err != nil {
		return nil, fmt.Errorf("ошибка при получении комментариев: %w", err)
	}

	return comments, nil
}

func (r *commentRepository) Delete(ctx context.Context, commentID int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE comment_id = $1`, commentID)
	if err != nil {
		return fmt.Errorf("ошибка при удалении комментария: %w", err)
	}

	return expectRow(result, fmt.Sprintf("комментарий с ID %d не найден", commentID))
}

func (r *commentRepository) DeleteByPostID(ctx context.Context, postID int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE post_id = $1`, postID); err != nil {
		return fmt.Errorf("ошибка при удалении комментариев поста: %w", err)
	}

	return nil
}
