package models

import (
	"time"
)

type User struct {
	UserID       int64     `json:"userId" db:"user_id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	DateJoined   time.Time `json:"dateJoined" db:"date_joined"`
	Bio          *string   `json:"bio,omitempty" db:"bio"`
	Avatar       *string   `json:"avatar,omitempty" db:"avatar"`
}

type CreateUserRequest struct {
	Username string `json:"username" validate:"required,max=80"`
	Email    string `json:"email" validate:"required,email,max=120"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	UserID   int64   `json:"-"`
	Username string  `json:"username" validate:"required,max=80"`
	Email    string  `json:"email" validate:"required,email,max=120"`
	Bio      *string `json:"bio"`
	Avatar   *string `json:"avatar"`
}

type Post struct {
	PostID     int64     `json:"postId" db:"post_id"`
	AuthorID   int64     `json:"authorId" db:"author_id"`
	Title      string    `json:"title" db:"title"`
	Content    string    `json:"content" db:"content"`
	Thumbnail  *string   `json:"thumbnail,omitempty" db:"thumbnail"`
	DatePosted time.Time `json:"datePosted" db:"date_posted"`
	LikeCount  int       `json:"likeCount" db:"like_count"`
}

type CreatePostRequest struct {
	AuthorID  int64    `json:"-"`
	Title     string   `json:"title" validate:"required,max=200"`
	Content   string   `json:"content" validate:"required"`
	Tags      []string `json:"tags" validate:"dive,max=64"`
	Thumbnail *string  `json:"thumbnail"`
}

type UpdatePostRequest struct {
	PostID    int64   `json:"-"`
	EditorID  int64   `json:"-"`
	Title     string  `json:"title" validate:"required,max=200"`
	Content   string  `json:"content" validate:"required"`
	Thumbnail *string `json:"thumbnail"`
}

type Tag struct {
	TagID int64  `json:"tagId" db:"tag_id"`
	Name  string `json:"name" db:"name"`
}

// TagCount is a tag together with the number of posts carrying it.
type TagCount struct {
	TagID     int64  `json:"tagId" db:"tag_id"`
	Name      string `json:"name" db:"name"`
	PostCount int    `json:"postCount" db:"post_count"`
}

type Comment struct {
	CommentID     int64     `json:"commentId" db:"comment_id"`
	PostID        int64     `json:"postId" db:"post_id"`
	UserID        int64     `json:"userId" db:"user_id"`
	Body          string    `json:"body" db:"body"`
	DateCommented time.Time `json:"dateCommented" db:"date_commented"`
}

type FollowEdge struct {
	FollowerID int64     `json:"followerId" db:"follower_id"`
	FollowedID int64     `json:"followedId" db:"followed_id"`
	Timestamp  time.Time `json:"timestamp" db:"created_at"`
}

// PostDetail is a post with everything the detail page shows.
type PostDetail struct {
	Post     Post      `json:"post"`
	Author   *User     `json:"author"`
	Tags     []Tag     `json:"tags"`
	Comments []Comment `json:"comments"`
}

// Stats are platform-wide totals.
type Stats struct {
	Users    int `json:"users" db:"users"`
	Posts    int `json:"posts" db:"posts"`
	Tags     int `json:"tags" db:"tags"`
	Comments int `json:"comments" db:"comments"`
}
