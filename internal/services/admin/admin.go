// Package services содержит операции административной консоли.
// Каждая операция начинается с проверки роли действующего пользователя;
// при её отсутствии никакие изменения в хранилище не выполняются.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/medx-platform/medx-api/internal/models"
	entitlement "github.com/medx-platform/medx-api/internal/services/entitlement"
	"github.com/medx-platform/medx-api/internal/storage/repository"
)

// ErrNotAdmin возвращается, когда действующий пользователь не администратор.
var ErrNotAdmin = errors.New("actor is not an admin")

// ErrSelfDemotion возвращается при попытке администратора снять роль
// с самого себя. Защита от потери последнего администратора.
var ErrSelfDemotion = errors.New("admin cannot demote themselves")

// UserAdminRepository определяет методы администрирования пользователей.
type UserAdminRepository interface {
	ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error)
	UpdateRole(ctx context.Context, userUID, role string) (int64, error)
}

// SubscriptionManager выдаёт и снимает premium-подписку.
type SubscriptionManager interface {
	GrantPremium(ctx context.Context, userUID string, months int) (*models.User, error)
	RevokePremium(ctx context.Context, userUID string) (*models.User, error)
}

// CatalogManager выполняет административные операции над материалами.
type CatalogManager interface {
	Create(ctx context.Context, item models.ContentItem) (string, error)
	MoveTier(ctx context.Context, id string, newPremium bool) (*models.ContentItem, error)
	Delete(ctx context.Context, id string) error
}

// FeedbackManager выполняет административные операции над отзывами.
type FeedbackManager interface {
	List(ctx context.Context, limit, offset int) ([]*models.FeedbackItem, error)
	UpdateStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
}

// AdminService реализует консоль администратора поверх остальных сервисов.
type AdminService struct {
	users         UserAdminRepository
	subscriptions SubscriptionManager
	catalog       CatalogManager
	feedback      FeedbackManager
	log           *slog.Logger
}

// NewAdminService создает новый экземпляр AdminService.
func NewAdminService(users UserAdminRepository, subscriptions SubscriptionManager,
	catalog CatalogManager, feedback FeedbackManager, log *slog.Logger) *AdminService {
	return &AdminService{
		users:         users,
		subscriptions: subscriptions,
		catalog:       catalog,
		feedback:      feedback,
		log:           log,
	}
}

func requireAdmin(op string, actor *models.User) error {
	if !entitlement.IsAdmin(actor) {
		return fmt.Errorf("%s: %w", op, ErrNotAdmin)
	}
	return nil
}

// ListUsers возвращает список пользователей с пагинацией.
func (s *AdminService) ListUsers(ctx context.Context, actor *models.User, limit, offset int) ([]*models.User, error) {
	const op = "admin.ListUsers"

	if err := requireAdmin(op, actor); err != nil {
		return nil, err
	}
	return s.users.ListUsers(ctx, limit, offset)
}

// SetPremium включает или выключает premium-подписку пользователя.
func (s *AdminService) SetPremium(ctx context.Context, actor *models.User, userUID string, premium bool, months int) (*models.User, error) {
	const op = "admin.SetPremium"

	if err := requireAdmin(op, actor); err != nil {
		return nil, err
	}
	s.log.Info("admin changes premium flag",
		slog.String("actor_uid", actor.UID),
		slog.String("user_uid", userUID),
		slog.Bool("premium", premium))

	if premium {
		return s.subscriptions.GrantPremium(ctx, userUID, months)
	}
	return s.subscriptions.RevokePremium(ctx, userUID)
}

// SetRole меняет роль пользователя. Администратор не может снять
// роль администратора с самого себя.
func (s *AdminService) SetRole(ctx context.Context, actor *models.User, userUID, role string) error {
	const op = "admin.SetRole"

	if err := requireAdmin(op, actor); err != nil {
		return err
	}
	if actor.UID == userUID && role != models.RoleAdmin {
		return fmt.Errorf("%s: %w", op, ErrSelfDemotion)
	}

	count, err := s.users.UpdateRole(ctx, userUID, role)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if count == 0 {
		return fmt.Errorf("%s: user %s: %w", op, userUID, repository.ErrNotFound)
	}
	s.log.Info("admin changed user role",
		slog.String("actor_uid", actor.UID),
		slog.String("user_uid", userUID),
		slog.String("role", role))
	return nil
}

// CreateContent добавляет новый материал в каталог.
func (s *AdminService) CreateContent(ctx context.Context, actor *models.User, item models.ContentItem) (string, error) {
	const op = "admin.CreateContent"

	if err := requireAdmin(op, actor); err != nil {
		return "", err
	}
	return s.catalog.Create(ctx, item)
}

// MoveContentTier переносит материал между free и premium.
func (s *AdminService) MoveContentTier(ctx context.Context, actor *models.User, id string, newPremium bool) (*models.ContentItem, error) {
	const op = "admin.MoveContentTier"

	if err := requireAdmin(op, actor); err != nil {
		return nil, err
	}
	return s.catalog.MoveTier(ctx, id, newPremium)
}

// DeleteContent окончательно удаляет материал из каталога.
func (s *AdminService) DeleteContent(ctx context.Context, actor *models.User, id string) error {
	const op = "admin.DeleteContent"

	if err := requireAdmin(op, actor); err != nil {
		return err
	}
	return s.catalog.Delete(ctx, id)
}

// ListFeedback возвращает отзывы с пагинацией.
func (s *AdminService) ListFeedback(ctx context.Context, actor *models.User, limit, offset int) ([]*models.FeedbackItem, error) {
	const op = "admin.ListFeedback"

	if err := requireAdmin(op, actor); err != nil {
		return nil, err
	}
	return s.feedback.List(ctx, limit, offset)
}

// UpdateFeedbackStatus меняет статус отзыва.
func (s *AdminService) UpdateFeedbackStatus(ctx context.Context, actor *models.User, id, status string) error {
	const op = "admin.UpdateFeedbackStatus"

	if err := requireAdmin(op, actor); err != nil {
		return err
	}
	return s.feedback.UpdateStatus(ctx, id, status)
}

// DeleteFeedback удаляет отзыв.
func (s *AdminService) DeleteFeedback(ctx context.Context, actor *models.User, id string) error {
	const op = "admin.DeleteFeedback"

	if err := requireAdmin(op, actor); err != nil {
		return err
	}
	return s.feedback.Delete(ctx, id)
}
