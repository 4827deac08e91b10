package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"microfeed/internal/models"
)

// DBTX is satisfied by both *sqlx.DB and *sqlx.Tx.
type DBTX interface {
	sqlx.ExtContext
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, userID int64) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	UsernameTaken(ctx context.Context, username string, exceptUserID int64) (bool, error)
	EmailTaken(ctx context.Context, email string, exceptUserID int64) (bool, error)
	UpdateProfile(ctx context.Context, user *models.User) error
}

type FollowRepository interface {
	Insert(ctx context.Context, followerID, followedID int64) (bool, error)
	Delete(ctx context.Context, followerID, followedID int64) (bool, error)
	Exists(ctx context.Context, followerID, followedID int64) (bool, error)
	CountFollowers(ctx context.Context, userID int64) (int, error)
	CountFollowing(ctx context.Context, userID int64) (int, error)
	Followers(ctx context.Context, userID int64) ([]models.User, error)
	Following(ctx context.Context, userID int64) ([]models.User, error)
}

type EngagementRepository interface {
	InsertLike(ctx context.Context, userID, postID int64) error
	DeleteLike(ctx context.Context, userID, postID int64) (bool, error)
	HasLiked(ctx context.Context, userID, postID int64) (bool, error)
	CountLikes(ctx context.Context, postID int64) (int, error)
	LikedPostIDs(ctx context.Context, userID int64) ([]int64, error)

	InsertBookmark(ctx context.Context, userID, postID int64) error
	DeleteBookmark(ctx context.Context, userID, postID int64) (bool, error)
	HasBookmarked(ctx context.Context, userID, postID int64) (bool, error)
	BookmarkedPostIDs(ctx context.Context, userID int64) ([]int64, error)
	BookmarkedPosts(ctx context.Context, userID int64) ([]models.Post, error)

	DeleteByPostID(ctx context.Context, postID int64) error
}

type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, postID int64) (*models.Post, error)
	LockByID(ctx context.Context, postID int64) (*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	SetLikeCount(ctx context.Context, postID int64, count int) error
	Delete(ctx context.Context, postID int64) error

	ListRecent(ctx context.Context) ([]models.Post, error)
	ListByAuthor(ctx context.Context, authorID int64) ([]models.Post, error)
	ListFollowedBy(ctx context.Context, viewerID int64) ([]models.Post, error)
	ListByTagName(ctx context.Context, name string) ([]models.Post, error)
	Search(ctx context.Context, query string) ([]models.Post, error)
	ListSharingTags(ctx context.Context, postID int64, limit int) ([]models.Post, error)
	ListRecentExcluding(ctx context.Context, excludeIDs []int64, limit int) ([]models.Post, error)
}

type TagRepository interface {
	GetOrCreate(ctx context.Context, name string) (*models.Tag, error)
	Attach(ctx context.Context, postID, tagID int64) error
	DetachPost(ctx context.Context, postID int64) error
	ListByPost(ctx context.Context, postID int64) ([]models.Tag, error)
	ListAll(ctx context.Context) ([]models.Tag, error)
	Trending(ctx context.Context, limit int) ([]models.TagCount, error)
}

type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, commentID int64) (*models.Comment, error)
	ListByPost(ctx context.Context, postID int64) ([]models.Comment, error)
	Delete(ctx context.Context, commentID int64) error
	DeleteByPostID(ctx context.Context, postID int64) error
}

type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	GetByID(ctx context.Context, notificationID int64) (*models.Notification, error)
	ListByRecipient(ctx context.Context, recipientID int64) ([]models.Notification, error)
	CountUnread(ctx context.Context, recipientID int64) (int, error)
	MarkRead(ctx context.Context, notificationID int64) error
	MarkAllRead(ctx context.Context, recipientID int64) (int64, error)
	DeleteByPostID(ctx context.Context, postID int64) error
}

type StatsRepository interface {
	Totals(ctx context.Context) (*models.Stats, error)
}

// Transactor runs fn against repositories bound to a single transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
type Transactor interface {
	InTx(ctx context.Context, fn func(r *Repository) error) error
}

type Repository struct {
	User         UserRepository
	Follow       FollowRepository
	Engagement   EngagementRepository
	Post         PostRepository
	Tag          TagRepository
	Comment      CommentRepository
	Notification NotificationRepository
	Stats        StatsRepository
	Tx           Transactor
}

func NewRepository(db *sqlx.DB) *Repository {
	repo := newRepository(db)
	repo.Tx = &sqlTransactor{db: db}
	return repo
}

func newRepository(q DBTX) *Repository {
	return &Repository{
		User:         NewUserRepository(q),
		Follow:       NewFollowRepository(q),
		Engagement:   NewEngagementRepository(q),
		Post:         NewPostRepository(q),
		Tag:          NewTagRepository(q),
		Comment:      NewCommentRepository(q),
		Notification: NewNotificationRepository(q),
		Stats:        NewStatsRepository(q),
	}
}

func (r *Repository) InTx(ctx context.Context, fn func(r *Repository) error) error {
	return r.Tx.InTx(ctx, fn)
}

type sqlTransactor struct {
	db *sqlx.DB
}

func (t *sqlTransactor) InTx(ctx context.Context, fn func(r *Repository) error) (err error) {
	tx, err := t.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ошибка при открытии транзакции: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	txRepo := newRepository(tx)
	txRepo.Tx = joinedTx{repo: txRepo}

	if err := fn(txRepo); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (ошибка отката: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("ошибка при фиксации транзакции: %w", err)
	}

	return nil
}

// joinedTx lets nested InTx calls join the transaction already in progress.
type joinedTx struct {
	repo *Repository
}

func (j joinedTx) InTx(_ context.Context, fn func(r *Repository) error) error {
	return fn(j.repo)
}
