// Package services содержит бизнес-логику жизненного цикла premium-подписки:
// выдачу, снятие и ленивую проверку истечения срока.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/medx-platform/medx-api/internal/lib/sl"
	"github.com/medx-platform/medx-api/internal/models"
	"github.com/medx-platform/medx-api/internal/storage/repository"
)

// UserRepository определяет методы для работы с пользователями в хранилище.
type UserRepository interface {
	// GetUser возвращает пользователя по UID.
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	// UpdatePremium выставляет флаг подписки и дату её окончания.
	UpdatePremium(ctx context.Context, userUID string, premium bool, expiry *time.Time) (int64, error)
}

// SubscriptionService реализует выдачу и снятие premium-подписки.
//
// Проверка истечения ленивая: EnsureCurrent вызывается при каждом
// аутентифицированном чтении профиля и снимает подписку ровно один раз
// при первом наблюдении перехода в истёкшее состояние. Это отображение
// состояния для пользователя, а не граница безопасности.
type SubscriptionService struct {
	repo UserRepository
	log  *slog.Logger
	now  func() time.Time
}

// NewSubscriptionService создает новый экземпляр SubscriptionService.
func NewSubscriptionService(repo UserRepository, log *slog.Logger) *SubscriptionService {
	return &SubscriptionService{
		repo: repo,
		log:  log,
		now:  time.Now,
	}
}

// NewSubscriptionServiceWithClock создает SubscriptionService с заданным
// источником времени. Используется в тестах.
func NewSubscriptionServiceWithClock(repo UserRepository, log *slog.Logger, now func() time.Time) *SubscriptionService {
	return &SubscriptionService{
		repo: repo,
		log:  log,
		now:  now,
	}
}

// GrantPremium выдает пользователю premium-подписку на указанное число месяцев
// (по умолчанию один) и возвращает обновлённый профиль.
func (s *SubscriptionService) GrantPremium(ctx context.Context, userUID string, months int) (*models.User, error) {
	const op = "subscription.GrantPremium"

	if months <= 0 {
		months = 1
	}
	expiry := s.now().UTC().AddDate(0, months, 0)

	count, err := s.repo.UpdatePremium(ctx, userUID, true, &expiry)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if count == 0 {
		return nil, fmt.Errorf("%s: user %s: %w", op, userUID, repository.ErrNotFound)
	}
	s.log.Info("granted premium subscription",
		slog.String("user_uid", userUID),
		slog.Time("expiry", expiry))

	return s.repo.GetUser(ctx, userUID)
}

// RevokePremium снимает premium-подписку и обнуляет дату окончания.
// Повторный вызов безопасен и приводит к тому же состоянию.
func (s *SubscriptionService) RevokePremium(ctx context.Context, userUID string) (*models.User, error) {
	const op = "subscription.RevokePremium"

	count, err := s.repo.UpdatePremium(ctx, userUID, false, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if count == 0 {
		return nil, fmt.Errorf("%s: user %s: %w", op, userUID, repository.ErrNotFound)
	}
	s.log.Info("revoked premium subscription", slog.String("user_uid", userUID))

	return s.repo.GetUser(ctx, userUID)
}

// IsExpired сообщает, истекла ли подписка пользователя к моменту now.
func IsExpired(profile *models.User, now time.Time) bool {
	if profile == nil || !profile.IsPremium || profile.SubscriptionExpiry == nil {
		return false
	}
	return !now.Before(*profile.SubscriptionExpiry)
}

// EnsureCurrent проверяет срок подписки и снимает её, если срок прошёл.
// Снятие происходит только при первом наблюдении истечения: уже снятая
// подписка повторно не трогается.
func (s *SubscriptionService) EnsureCurrent(ctx context.Context, profile *models.User) (*models.User, error) {
	const op = "subscription.EnsureCurrent"

	if !IsExpired(profile, s.now()) {
		return profile, nil
	}

	s.log.Info("premium subscription expired, revoking",
		slog.String("user_uid", profile.UID))
	updated, err := s.RevokePremium(ctx, profile.UID)
	if err != nil {
		s.log.Error("failed to revoke expired subscription", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return updated, nil
}

// EnsureCurrentByUID загружает профиль и применяет EnsureCurrent.
// Используется middleware при каждом аутентифицированном запросе.
func (s *SubscriptionService) EnsureCurrentByUID(ctx context.Context, userUID string) (*models.User, error) {
	const op = "subscription.EnsureCurrentByUID"

	profile, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s.EnsureCurrent(ctx, profile)
}
