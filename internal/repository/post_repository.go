package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"microfeed/internal/apperror"
	"microfeed/internal/models"
)

const postColumns = `p.post_id, p.author_id, p.title, p.content, p.thumbnail, p.date_posted, p.like_count`

// newestFirst is the ordering contract of every feed: creation time, then id.
const newestFirst = `ORDER BY p.date_posted DESC, p.post_id DESC`

type postRepository struct {
	db DBTX
}

func NewPostRepository(db DBTX) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	query := `
		INSERT INTO posts (author_id, title, content, thumbnail, date_posted, like_count)
		VALUES ($1, $2, $3, $4, NOW(), 0)
		RETURNING post_id, date_posted
	`

	err := r.db.QueryRowxContext(ctx, query,
		post.AuthorID, post.Title, post.Content, post.Thumbnail,
	).Scan(&post.PostID, &post.DatePosted)
	if err != nil {
		return fmt.Errorf("ошибка при создании поста: %w", err)
	}

	post.LikeCount = 0
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, postID int64) (*models.Post, error) {
	return r.getOne(ctx, `SELECT `+postColumns+` FROM posts p WHERE p.post_id = $1`, postID)
}

// LockByID reads the post and holds its row lock until the transaction ends,
// serializing concurrent like toggles on the same post.
func (r *postRepository) LockByID(ctx context.Context, postID int64) (*models.Post, error) {
	return r.getOne(ctx, `SELECT `+postColumns+` FROM posts p WHERE p.post_id = $1 FOR UPDATE`, postID)
}

func (r *postRepository) getOne(ctx context.Context, query string, postID int64) (*models.Post, error) {
	var post models.Post

	err := sqlx.GetContext(ctx, r.db, &post, query, postID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound(fmt.Sprintf("пост с ID %d не найден", postID))
		}
		return nil, fmt.Errorf("ошибка при получении поста: %w", err)
	}

	return &post, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	query := `
		UPDATE posts SET
			title = $1,
			content = $2,
			thumbnail = $3
		WHERE post_id = $4
	`

	result, err := r.db.ExecContext(ctx, query, post.Title, post.Content, post.Thumbnail, post.PostID)
	if err != nil {
		return fmt.Errorf("ошибка при обновлении поста: %w", err)
	}

	return expectRow(result, fmt.Sprintf("пост с ID %d не найден", post.PostID))
}

func (r *postRepository) SetLikeCount(ctx context.Context, postID int64, count int) error {
	query := `UPDATE posts SET like_count = $1 WHERE post_id = $2`

	result, err := r.db.ExecContext(ctx, query, count, postID)
	if err != nil {
		return fmt.Errorf("ошибка при обновлении счётчика лайков: %w", err)
	}

	return expectRow(result, fmt.Sprintf("пост с ID %d не найден", postID))
}

func (r *postRepository) Delete(ctx context.Context, postID int64) error {
	query := `DELETE FROM posts WHERE post_id = $1`

	result, err := r.db.ExecContext(ctx, query, postID)
	if err != nil {
		return fmt.Errorf("ошибка при удалении поста: %w", err)
	}

	return expectRow(result, fmt.Sprintf("пост с ID %d не найден", postID))
}

func (r *postRepository) ListRecent(ctx context.Context) ([]models.Post, error) {
	return r.list(ctx, `SELECT `+postColumns+` FROM posts p `+newestFirst)
}

func (r *postRepository) ListByAuthor(ctx context.Context, authorID int64) ([]models.Post, error) {
	return r.list(ctx, `SELECT `+postColumns+` FROM posts p WHERE p.author_id = $1 `+newestFirst, authorID)
}

func (r *postRepository) ListFollowedBy(ctx context.Context, viewerID int64) ([]models.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts p
		JOIN follows f ON f.followed_id = p.author_id
		WHERE f.follower_id = $1
		` + newestFirst

	return r.list(ctx, query, viewerID)
}

func (r *postRepository) ListByTagName(ctx context.Context, name string) ([]models.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts p
		JOIN post_tags pt ON pt.post_id = p.post_id
		JOIN tags t ON t.tag_id = pt.tag_id
		WHERE t.name = $1
		` + newestFirst

	return r.list(ctx, query, name)
}

func (r *postRepository) Search(ctx context.Context, query string) ([]models.Post, error) {
	sqlQuery := `
		SELECT ` + postColumns + `
		FROM posts p
		WHERE p.title ILIKE $1 OR p.content ILIKE $1
		` + newestFirst

	return r.list(ctx, sqlQuery, containsPattern(query))
}

// ListSharingTags returns posts having at least one tag in common with postID, without postID itself.
func (r *postRepository) ListSharingTags(ctx context.Context, postID int64, limit int) ([]models.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts p
		WHERE p.post_id <> $1
		  AND EXISTS (
			SELECT 1
			FROM post_tags pt
			JOIN post_tags mine ON mine.tag_id = pt.tag_id
			WHERE pt.post_id = p.post_id AND mine.post_id = $1
		  )
		` + newestFirst + `
		LIMIT $2
	`

	return r.list(ctx, query, postID, limit)
}

func (r *postRepository) ListRecentExcluding(ctx context.Context, excludeIDs []int64, limit int) ([]models.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts p
		WHERE NOT (p.post_id = ANY($1))
		` + newestFirst + `
		LIMIT $2
	`

	// a nil array binds as NULL and would exclude every row
	if excludeIDs == nil {
		excludeIDs = []int64{}
	}

	return r.list(ctx, query, pq.Array(excludeIDs), limit)
}

func (r *postRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.Post, error) {
	posts := []models.Post{}

	if err := sqlx.SelectContext(ctx, r.db, &posts, query, args...); err != nil {
		return nil, fmt.Errorf("ошибка при получении постов: %w", err)
	}

	return posts, nil
}

func expectRow(result sql.Result, notFound string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка при проверке измененных строк: %w", err)
	}

	if rowsAffected == 0 {
		return apperror.NotFound(notFound)
	}

	return nil
}
