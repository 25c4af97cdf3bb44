package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/smart-records-api/internal/domain"
	"github.com/smart-records-api/internal/repository"
	"github.com/smart-records-api/internal/session"
	"github.com/smart-records-api/internal/validate"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// minPasswordLen - минимальная длина пароля при регистрации
const minPasswordLen = 8

// AuthService определяет интерфейс аутентификации
type AuthService interface {
	Register(ctx context.Context, username, password string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
	Logout(token string)
	Authenticate(token string) (*session.Session, error)
}

type authService struct {
	userRepo   repository.UserRepository
	sessions   *session.Registry
	jwtSecret  []byte
	bcryptCost int
	tokenTTL   time.Duration
}

// NewAuthService создаёт новый экземпляр сервиса аутентификации
func NewAuthService(userRepo repository.UserRepository, sessions *session.Registry, jwtSecret string, bcryptCost int, tokenTTL time.Duration) AuthService {
	return &authService{
		userRepo:   userRepo,
		sessions:   sessions,
		jwtSecret:  []byte(jwtSecret),
		bcryptCost: bcryptCost,
		tokenTTL:   tokenTTL,
	}
}

func (s *authService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	var fieldErrs domain.FieldErrors

	name, res := validate.Required(username, "username")
	if !res.OK {
		fieldErrs = append(fieldErrs, domain.NewFieldError("username", res.Reason, res.Message))
	}
	if len(password) < minPasswordLen {
		fieldErrs = append(fieldErrs, domain.NewFieldError(
			"password", domain.ReasonOutOfRange,
			fmt.Sprintf("password must be at least %d characters long", minPasswordLen),
		))
	}
	if len(fieldErrs) > 0 {
		return nil, fieldErrs
	}

	exists, err := s.userRepo.ExistsByUsername(ctx, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, duplicateField("username")
	}

	// В БД попадает только bcrypt-дайджест, никогда исходный пароль
	digest, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Username: name,
		Password: string(digest),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, duplicateField("username")
		}
		return nil, err
	}

	return user, nil
}

// Login проверяет учётные данные и открывает сессию. Ответ намеренно не
// различает «нет такого пользователя» и «неверный пароль»: это закрывает
// перебор имён пользователей.
func (s *authService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	name, res := validate.Required(username, "username")
	if !res.OK || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByUsername(ctx, name)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	sess := s.sessions.Start(user.ID, user.Username)

	now := time.Now()
	claims := jwt.MapClaims{
		"sid":      sess.ID,
		"user_id":  user.ID,
		"username": user.Username,
		"iat":      now.Unix(),
		"exp":      now.Add(s.tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		s.sessions.End(sess.ID)
		return "", nil, fmt.Errorf("failed to sign session token: %w", err)
	}

	return signed, user, nil
}

// Logout завершает сессию, на которую указывает токен.
// Невалидный токен просто игнорируется: завершать нечего.
func (s *authService) Logout(token string) {
	sid, err := s.sessionID(token)
	if err != nil {
		return
	}
	s.sessions.End(sid)
}

// Authenticate проверяет подпись токена и то, что его сессия всё ещё активна
func (s *authService) Authenticate(token string) (*session.Session, error) {
	sid, err := s.sessionID(token)
	if err != nil {
		return nil, domain.ErrNotAuthenticated
	}

	sess, ok := s.sessions.Active(sid)
	if !ok {
		return nil, domain.ErrNotAuthenticated
	}
	return sess, nil
}

func (s *authService) sessionID(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return "", domain.ErrNotAuthenticated
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", domain.ErrNotAuthenticated
	}
	sid, ok := claims["sid"].(string)
	if !ok || sid == "" {
		return "", domain.ErrNotAuthenticated
	}
	return sid, nil
}
