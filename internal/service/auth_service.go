package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"microfeed/internal/apperror"
	"microfeed/internal/config"
	"microfeed/internal/models"
	"microfeed/internal/repository"
)

// Claims are carried by access tokens.
type Claims struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type AuthService interface {
	Register(ctx context.Context, req models.CreateUserRequest) (*models.User, error)
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (*models.User, string, error)
	IssueToken(user *models.User) (string, error)
	ParseToken(tokenString string) (*Claims, error)
}

type authService struct {
	repo *repository.Repository
	cfg  *config.Config
	log  *zap.Logger
	cost int
}

func NewAuthService(repo *repository.Repository, cfg *config.Config, log *zap.Logger) AuthService {
	return &authService{
		repo: repo,
		cfg:  cfg,
		log:  log,
		cost: bcrypt.DefaultCost,
	}
}

func (s *authService) Register(ctx context.Context, req models.CreateUserRequest) (*models.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	if err := validateStruct(req); err != nil {
		return nil, err
	}

	// check uniqueness up front, the unique constraints catch races
	taken, err := s.repo.User.UsernameTaken(ctx, req.Username, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperror.Conflict("имя пользователя уже занято")
	}

	taken, err = s.repo.User.EmailTaken(ctx, req.Email, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperror.Conflict("email уже зарегистрирован")
	}

	// create password hash
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("ошибка хеширования пароля: %w", err)
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
	}

	if err := s.repo.User.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("пользователь зарегистрирован",
		zap.Int64("user_id", user.UserID),
		zap.String("username", user.Username))

	return user, nil
}

func (s *authService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.repo.User.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.InvalidCredentials()
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.log.Info("неудачная попытка входа", zap.Int64("user_id", user.UserID))
		return nil, apperror.InvalidCredentials()
	}

	return user, nil
}

func (s *authService) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	user, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return nil, "", err
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

func (s *authService) IssueToken(user *models.User) (string, error) {
	now := time.Now()

	claims := Claims{
		UserID:   user.UserID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.AccessTokenDuration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.cfg.JWTSecretKey))
	if err != nil {
		return "", fmt.Errorf("ошибка подписи токена: %w", err)
	}

	return tokenString, nil
}

func (s *authService) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, apperror.Wrap(apperror.KindUnauthenticated, "недействительный токен", err)
	}

	if !token.Valid || claims.UserID <= 0 {
		return nil, apperror.Unauthenticated("недействительный токен")
	}

	return claims, nil
}
