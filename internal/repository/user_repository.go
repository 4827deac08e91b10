package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"microfeed/internal/apperror"
	"microfeed/internal/models"
)

type userRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `user_id, username, email, password_hash, date_joined, bio, avatar`

func (r *userRepository) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (username, email, password_hash, bio, avatar)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING user_id, date_joined
	`

	err := r.db.QueryRowxContext(ctx, query,
		user.Username, user.Email, user.PasswordHash, user.Bio, user.Avatar,
	).Scan(&user.UserID, &user.DateJoined)
	if err != nil {
		return userWriteError("ошибка при создании пользователя", err)
	}

	return nil
}

func (r *userRepository) GetUserByID(ctx context.Context, userID int64) (*models.User, error) {
	var user models.User

	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1`

	err := sqlx.GetContext(ctx, r.db, &user, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound(fmt.Sprintf("пользователь с ID %d не найден", userID))
		}
		return nil, fmt.Errorf("ошибка при получении пользователя: %w", err)
	}

	return &user, nil
}

func (r *userRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User

	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	err := sqlx.GetContext(ctx, r.db, &user, query, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound(fmt.Sprintf("пользователь %s не найден", username))
		}
		return nil, fmt.Errorf("ошибка при получении пользователя по имени: %w", err)
	}

	return &user, nil
}

func (r *userRepository) UsernameTaken(ctx context.Context, username string, exceptUserID int64) (bool, error) {
	var exists bool

	query := `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1 AND user_id <> $2)`

	if err := sqlx.GetContext(ctx, r.db, &exists, query, username, exceptUserID); err != nil {
		return false, fmt.Errorf("ошибка при проверке имени пользователя: %w", err)
	}

	return exists, nil
}

func (r *userRepository) EmailTaken(ctx context.Context, email string, exceptUserID int64) (bool, error) {
	var exists bool

	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1 AND user_id <> $2)`

	if err := sqlx.GetContext(ctx, r.db, &exists, query, email, exceptUserID); err != nil {
		return false, fmt.Errorf("ошибка при проверке email: %w", err)
	}

	return exists, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET username = $1, email = $2, bio = $3, avatar = $4
		WHERE user_id = $5
	`

	result, err := r.db.ExecContext(ctx, query, user.Username, user.Email, user.Bio, user.Avatar, user.UserID)
	if err != nil {
		return userWriteError("ошибка при обновлении пользователя", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка при проверке обновленных строк: %w", err)
	}

	if rowsAffected == 0 {
		return apperror.NotFound(fmt.Sprintf("пользователь с ID %d не найден", user.UserID))
	}

	return nil
}

// userWriteError turns unique violations into conflicts so concurrent registrations
// racing past the pre-check still fail with the right kind.
func userWriteError(message string, err error) error {
	if constraint, ok := uniqueViolationOn(err); ok {
		switch {
		case strings.Contains(constraint, "username"):
			return apperror.Wrap(apperror.KindConflict, "имя пользователя уже занято", err)
		case strings.Contains(constraint, "email"):
			return apperror.Wrap(apperror.KindConflict, "email уже зарегистрирован", err)
		default:
			return apperror.Wrap(apperror.KindConflict, message, err)
		}
	}
	return fmt.Errorf("%s: %w", message, err)
}
