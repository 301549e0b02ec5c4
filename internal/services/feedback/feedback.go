// Package services содержит бизнес-логику работы с отзывами пользователей.
// Отзыв может быть анонимным: привязка к пользователю опциональна.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/medx-platform/medx-api/internal/models"
	"github.com/medx-platform/medx-api/internal/storage/repository"
)

// ErrNotFound пробрасывается из хранилища для отсутствующих отзывов.
var ErrNotFound = repository.ErrNotFound

// FeedbackRepository определяет методы для работы с отзывами в хранилище.
type FeedbackRepository interface {
	CreateFeedback(ctx context.Context, item models.FeedbackItem) (string, error)
	ListFeedback(ctx context.Context, limit, offset int) ([]*models.FeedbackItem, error)
	UpdateFeedbackStatus(ctx context.Context, id, status string) (int64, error)
	DeleteFeedback(ctx context.Context, id string) (int64, error)
}

// FeedbackService реализует операции над отзывами поверх хранилища.
type FeedbackService struct {
	repo FeedbackRepository
	log  *slog.Logger
}

// NewFeedbackService создает новый экземпляр FeedbackService.
func NewFeedbackService(repo FeedbackRepository, log *slog.Logger) *FeedbackService {
	return &FeedbackService{
		repo: repo,
		log:  log,
	}
}

// Submit сохраняет новый отзыв со статусом new. userUID и email равны nil
// для анонимного отзыва.
func (s *FeedbackService) Submit(ctx context.Context, message string, userUID, email *string) (string, error) {
	const op = "feedback.Submit"

	id, err := s.repo.CreateFeedback(ctx, models.FeedbackItem{
		Message: message,
		Status:  models.FeedbackStatusNew,
		UserUID: userUID,
		Email:   email,
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("feedback submitted", slog.String("id", id))
	return id, nil
}

// List возвращает отзывы с пагинацией, новые первыми.
func (s *FeedbackService) List(ctx context.Context, limit, offset int) ([]*models.FeedbackItem, error) {
	return s.repo.ListFeedback(ctx, limit, offset)
}

// UpdateStatus меняет статус отзыва.
func (s *FeedbackService) UpdateStatus(ctx context.Context, id, status string) error {
	const op = "feedback.UpdateStatus"

	count, err := s.repo.UpdateFeedbackStatus(ctx, id, status)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if count == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// Delete удаляет отзыв. Удаление отсутствующего ID возвращает ErrNotFound.
func (s *FeedbackService) Delete(ctx context.Context, id string) error {
	const op = "feedback.Delete"

	count, err := s.repo.DeleteFeedback(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if count == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	s.log.Info("feedback deleted", slog.String("id", id))
	return nil
}
