package service

import (
	"context"
	"io"
	"strings"

	"go.uber.org/zap"

	"microfeed/internal/apperror"
	"microfeed/internal/cache"
	"microfeed/internal/metrics"
	"microfeed/internal/models"
	"microfeed/internal/repository"
	"microfeed/internal/storage"
)

// PostService is the content store: posts, their tags and comments.
type PostService interface {
	CreatePost(ctx context.Context, req models.CreatePostRequest) (*models.Post, error)
	UpdatePost(ctx context.Context, req models.UpdatePostRequest) (*models.Post, error)
	DeletePost(ctx context.Context, postID, requesterID int64) error
	GetPost(ctx context.Context, postID int64) (*models.PostDetail, error)
	UploadThumbnail(ctx context.Context, postID, editorID int64, fileName string, file io.Reader, size int64) (*models.Post, error)
	AddComment(ctx context.Context, postID, authorID int64, body string) (*models.Comment, error)
	DeleteComment(ctx context.Context, commentID, requesterID int64) error
	ListTags(ctx context.Context) ([]models.Tag, error)
}

type postService struct {
	repo     *repository.Repository
	storage  storage.Storage
	trending cache.TrendingCache
	log      *zap.Logger
}

func NewPostService(repo *repository.Repository, storage storage.Storage, trending cache.TrendingCache, log *zap.Logger) PostService {
	return &postService{
		repo:     repo,
		storage:  storage,
		trending: trending,
		log:      log,
	}
}

func (p *postService) CreatePost(ctx context.Context, req models.CreatePostRequest) (*models.Post, error) {
	if err := requireActor(req.AuthorID); err != nil {
		return nil, err
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Content = strings.TrimSpace(req.Content)
	req.Tags = normalizeTagNames(req.Tags)

	if err := validateStruct(req); err != nil {
		return nil, err
	}

	post := &models.Post{
		AuthorID:  req.AuthorID,
		Title:     req.Title,
		Content:   req.Content,
		Thumbnail: optionalText(req.Thumbnail),
	}
	tagNames := req.Tags

	err := p.repo.InTx(ctx, func(tx *repository.Repository) error {
		if err := tx.Post.Create(ctx, post); err != nil {
			return err
		}

		for _, name := range tagNames {
			tag, err := tx.Tag.GetOrCreate(ctx, name)
			if err != nil {
				return err
			}

			if err := tx.Tag.Attach(ctx, post.PostID, tag.TagID); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.PostsCreated.Inc()
	p.invalidateTrending(ctx)

	p.log.Info("пост создан",
		zap.Int64("post_id", post.PostID),
		zap.Int64("author_id", post.AuthorID),
		zap.Strings("tags", tagNames))

	return post, nil
}

func (p *postService) UpdatePost(ctx context.Context, req models.UpdatePostRequest) (*models.Post, error) {
	if err := requireActor(req.EditorID); err != nil {
		return nil, err
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Content = strings.TrimSpace(req.Content)

	if err := validateStruct(req); err != nil {
		return nil, err
	}

	var updated *models.Post

	err := p.repo.InTx(ctx, func(tx *repository.Repository) error {
		post, err := tx.Post.GetByID(ctx, req.PostID)
		if err != nil {
			return err
		}

		if post.AuthorID != req.EditorID {
			return apperror.Forbidden("редактировать пост может только автор")
		}

		post.Title = req.Title
		post.Content = req.Content
		if req.Thumbnail != nil {
			post.Thumbnail = optionalText(req.Thumbnail)
		}

		if err := tx.Post.Update(ctx, post); err != nil {
			return err
		}

		updated = post
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// DeletePost removes the post together with everything that only exists because of it.
func (p *postService) DeletePost(ctx context.Context, postID, requesterID int64) error {
	if err := requireActor(requesterID); err != nil {
		return err
	}

	err := p.repo.InTx(ctx, func(tx *repository.Repository) error {
		post, err := tx.Post.GetByID(ctx, postID)
		if err != nil {
			return err
		}

		if post.AuthorID != requesterID {
			return apperror.Forbidden("удалить пост может только автор")
		}

		if err := tx.Notification.DeleteByPostID(ctx, postID); err != nil {
			return err
		}
		if err := tx.Comment.DeleteByPostID(ctx, postID); err != nil {
			return err
		}
		if err := tx.Engagement.DeleteByPostID(ctx, postID); err != nil {
			return err
		}
		if err := tx.Tag.DetachPost(ctx, postID); err != nil {
			return err
		}

		return tx.Post.Delete(ctx, postID)
	})
	if err != nil {
		return err
	}

	p.invalidateTrending(ctx)
	p.log.Info("пост удалён", zap.Int64("post_id", postID), zap.Int64("requester_id", requesterID))

	return nil
}

func (p *postService) GetPost(ctx context.Context, postID int64) (*models.PostDetail, error) {
	post, err := p.repo.Post.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	author, err := p.repo.User.GetUserByID(ctx, post.AuthorID)
	if err != nil {
		return nil, err
	}

	tags, err := p.repo.Tag.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	comments, err := p.repo.Comment.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	return &models.PostDetail{
		Post:     *post,
		Author:   author,
		Tags:     tags,
		Comments: comments,
	}, nil
}

func (p *postService) UploadThumbnail(ctx context.Context, postID, editorID int64, fileName string, file io.Reader, size int64) (*models.Post, error) {
	if err := requireActor(editorID); err != nil {
		return nil, err
	}

	post, err := p.repo.Post.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if post.AuthorID != editorID {
		return nil, apperror.Forbidden("менять обложку может только автор")
	}

	objectName, err := p.storage.UploadImage(ctx, storage.PrefixThumbnail, fileName, file, size)
	if err != nil {
		return nil, err
	}

	post.Thumbnail = &objectName

	if err := p.repo.Post.Update(ctx, post); err != nil {
		if delErr := p.storage.DeleteImage(ctx, objectName); delErr != nil {
			p.log.Warn("не удалось удалить загруженную обложку", zap.String("object", objectName), zap.Error(delErr))
		}
		return nil, err
	}

	return post, nil
}

func (p *postService) AddComment(ctx context.Context, postID, authorID int64, body string) (*models.Comment, error) {
	if err := requireActor(authorID); err != nil {
		return nil, err
	}

	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apperror.Validation("комментарий не может быть пустым")
	}

	comment := &models.Comment{PostID: postID, UserID: authorID, Body: body}

	err := p.repo.InTx(ctx, func(tx *repository.Repository) error {
		post, err := tx.Post.GetByID(ctx, postID)
		if err != nil {
			return err
		}

		if err := tx.Comment.Create(ctx, comment); err != nil {
			return err
		}

		_, err = notify(ctx, tx, post.AuthorID, authorID, models.ActionComment, &postID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return comment, nil
}

func (p *postService) DeleteComment(ctx context.Context, commentID, requesterID int64) error {
	if err := requireActor(requesterID); err != nil {
		return err
	}

	return p.repo.InTx(ctx, func(tx *repository.Repository) error {
		comment, err := tx.Comment.GetByID(ctx, commentID)
		if err != nil {
			return err
		}

		if comment.UserID != requesterID {
			return apperror.Forbidden("удалить комментарий может только автор")
		}

		return tx.Comment.Delete(ctx, commentID)
	})
}

func (p *postService) ListTags(ctx context.Context) ([]models.Tag, error) {
	return p.repo.Tag.ListAll(ctx)
}

func (p *postService) invalidateTrending(ctx context.Context) {
	if err := p.trending.Invalidate(ctx); err != nil {
		p.log.Warn("не удалось сбросить кэш трендов", zap.Error(err))
	}
}

// normalizeTagNames trims names, drops blanks and exact duplicates, keeping first-seen order.
// Case is significant: "Math" and "math" are different tags.
func normalizeTagNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	result := make([]string, 0, len(names))

	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		result = append(result, name)
	}

	return result
}
