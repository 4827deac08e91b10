package service

import (
	"context"
	"io"
	"strings"

	"go.uber.org/zap"

	"microfeed/internal/apperror"
	"microfeed/internal/models"
	"microfeed/internal/repository"
	"microfeed/internal/storage"
)

type UserService interface {
	Lookup(ctx context.Context, userID int64) (*models.User, error)
	UpdateProfile(ctx context.Context, req models.UpdateProfileRequest) (*models.User, error)
	UploadAvatar(ctx context.Context, userID int64, fileName string, file io.Reader, size int64) (*models.User, error)
	UserPosts(ctx context.Context, userID int64) ([]models.Post, error)
}

type userService struct {
	repo    *repository.Repository
	storage storage.Storage
	log     *zap.Logger
}

func NewUserService(repo *repository.Repository, storage storage.Storage, log *zap.Logger) UserService {
	return &userService{
		repo:    repo,
		storage: storage,
		log:     log,
	}
}

func (s *userService) Lookup(ctx context.Context, userID int64) (*models.User, error) {
	return s.repo.User.GetUserByID(ctx, userID)
}

func (s *userService) UpdateProfile(ctx context.Context, req models.UpdateProfileRequest) (*models.User, error) {
	if err := requireActor(req.UserID); err != nil {
		return nil, err
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	if err := validateStruct(req); err != nil {
		return nil, err
	}

	var updated *models.User

	err := s.repo.InTx(ctx, func(tx *repository.Repository) error {
		// get user by id
		user, err := tx.User.GetUserByID(ctx, req.UserID)
		if err != nil {
			return err
		}

		taken, err := tx.User.UsernameTaken(ctx, req.Username, req.UserID)
		if err != nil {
			return err
		}
		if taken {
			return apperror.Conflict("имя пользователя уже занято")
		}

		taken, err = tx.User.EmailTaken(ctx, req.Email, req.UserID)
		if err != nil {
			return err
		}
		if taken {
			return apperror.Conflict("email уже зарегистрирован")
		}

		user.Username = req.Username
		user.Email = req.Email
		user.Bio = optionalText(req.Bio)
		if req.Avatar != nil {
			user.Avatar = optionalText(req.Avatar)
		}

		// update user
		if err := tx.User.UpdateProfile(ctx, user); err != nil {
			return err
		}

		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (s *userService) UploadAvatar(ctx context.Context, userID int64, fileName string, file io.Reader, size int64) (*models.User, error) {
	if err := requireActor(userID); err != nil {
		return nil, err
	}

	user, err := s.repo.User.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	objectName, err := s.storage.UploadImage(ctx, storage.PrefixAvatar, fileName, file, size)
	if err != nil {
		return nil, err
	}

	user.Avatar = &objectName

	if err := s.repo.User.UpdateProfile(ctx, user); err != nil {
		if delErr := s.storage.DeleteImage(ctx, objectName); delErr != nil {
			s.log.Warn("не удалось удалить загруженный аватар", zap.String("object", objectName), zap.Error(delErr))
		}
		return nil, err
	}

	return user, nil
}

func (s *userService) UserPosts(ctx context.Context, userID int64) ([]models.Post, error) {
	if _, err := s.repo.User.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.repo.Post.ListByAuthor(ctx, userID)
}

// optionalText trims the value and maps blank to absent.
func optionalText(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
