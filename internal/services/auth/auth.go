// Package services содержит логику бизнес-уровня для регистрации,
// аутентификации и восстановления пароля.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/medx-platform/medx-api/internal/lib/jwt"
	"github.com/medx-platform/medx-api/internal/lib/password"
	"github.com/medx-platform/medx-api/internal/lib/sl"
	"github.com/medx-platform/medx-api/internal/models"
	"github.com/medx-platform/medx-api/internal/storage/repository"
)

// ErrInvalidCredentials возвращается при неверной паре логин/пароль.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя и возвращает его UID.
	RegisterUser(ctx context.Context, user models.User) (string, error)

	// GetUserByUsername возвращает пользователя по имени или ошибку, если не найден.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// GetUserByEmail возвращает пользователя по адресу почты или ошибку, если не найден.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUser возвращает пользователя по UID.
	GetUser(ctx context.Context, userUID string) (*models.User, error)

	// UpdateDisplayName меняет отображаемое имя пользователя.
	UpdateDisplayName(ctx context.Context, userUID, displayName string) (int64, error)
}

// ResetMailer отправляет письмо со ссылкой на восстановление пароля.
type ResetMailer interface {
	SendPasswordReset(email, username, token string) error
}

// AuthService отвечает за регистрацию, авторизацию, валидацию JWT
// и запрос восстановления пароля.
type AuthService struct {
	users      UserRepository
	jwtMaker   jwt.Maker
	resetMaker jwt.Maker
	mailer     ResetMailer
	log        *slog.Logger
}

// NewAuthService создает новый экземпляр AuthService. resetMaker — отдельный
// генератор токенов с коротким временем жизни для ссылок восстановления.
func NewAuthService(users UserRepository, jwtMaker, resetMaker jwt.Maker, mailer ResetMailer, log *slog.Logger) *AuthService {
	return &AuthService{
		users:      users,
		jwtMaker:   jwtMaker,
		resetMaker: resetMaker,
		mailer:     mailer,
		log:        log,
	}
}

// Register создает нового пользователя с хэшированием пароля и ролью student.
// Premium-подписка при регистрации не выдается.
func (s *AuthService) Register(ctx context.Context, email, username, rawPassword string) (string, error) {
	const op = "auth.Register"

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	user := models.User{
		Email:        email,
		Username:     username,
		DisplayName:  username,
		PasswordHash: hashed,
		Role:         models.RoleStudent,
		IsPremium:    false,
	}
	uid, err := s.users.RegisterUser(ctx, user)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("registered new user", slog.String("username", username))
	return uid, nil
}

// Login проверяет пароль пользователя и генерирует JWT.
// Несуществующий пользователь и неверный пароль неразличимы для клиента.
func (s *AuthService) Login(ctx context.Context, username, rawPassword string) (token, role string, err error) {
	const op = "auth.Login"

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		return "", "", fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}
	token, err = s.jwtMaker.GenerateToken(user.Username, user.Role, user.UID)
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", op, err)
	}
	return token, user.Role, nil
}

// ValidateToken проверяет JWT и возвращает данные пользователя из claims.
func (s *AuthService) ValidateToken(_ context.Context, token string) (*models.User, bool, error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, false, err
	}
	user := &models.User{
		Username: claims.Username,
		Role:     claims.Role,
		UID:      claims.UserUID,
	}
	return user, true, nil
}

// UpdateDisplayName меняет отображаемое имя пользователя и возвращает
// обновлённый профиль. Логин и почта при этом не меняются.
func (s *AuthService) UpdateDisplayName(ctx context.Context, userUID, displayName string) (*models.User, error) {
	const op = "auth.UpdateDisplayName"

	count, err := s.users.UpdateDisplayName(ctx, userUID, displayName)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if count == 0 {
		return nil, fmt.Errorf("%s: user %s: %w", op, userUID, repository.ErrNotFound)
	}
	s.log.Info("updated display name", slog.String("user_uid", userUID))

	return s.users.GetUser(ctx, userUID)
}

// RequestPasswordReset отправляет письмо с токеном восстановления.
// Для неизвестного адреса операция молча завершается успехом, чтобы
// по ответу нельзя было перечислить зарегистрированные адреса.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	const op = "auth.RequestPasswordReset"

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.Info("password reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	token, err := s.resetMaker.GenerateToken(user.Username, user.Role, user.UID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.mailer.SendPasswordReset(user.Email, user.Username, token); err != nil {
		s.log.Error("failed to send password reset email", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
