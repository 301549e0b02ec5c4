// Package services содержит бизнес-логику каталога учебных материалов:
// листинг партиций уровень+тариф с кешированием, перенос материала между
// тарифами, учёт открытий и удаление.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/medx-platform/medx-api/internal/lib/sl"
	"github.com/medx-platform/medx-api/internal/models"
	"github.com/medx-platform/medx-api/internal/storage/repository"
)

// ErrReconcileNeeded возвращается, когда перенос материала между тарифами
// завершился частично: копия в целевой партиции создана, а исходная запись
// не удалена. Автоматического отката нет — состояние детектируемо
// (материал присутствует в двух партициях) и разрешается оператором вручную.
var ErrReconcileNeeded = errors.New("tier move left duplicate copies, manual reconciliation needed")

// ErrNotFound пробрасывается из хранилища для отсутствующих материалов.
var ErrNotFound = repository.ErrNotFound

const cacheTTL = 5 * time.Minute

// ContentRepository определяет методы для работы с материалами в хранилище.
type ContentRepository interface {
	CreateContent(ctx context.Context, item models.ContentItem) (string, error)
	GetContent(ctx context.Context, id string) (*models.ContentItem, error)
	ListContent(ctx context.Context, level int, premium bool) ([]*models.ContentItem, error)
	// IncrementDownloads атомарно увеличивает счётчик открытий на 1.
	IncrementDownloads(ctx context.Context, id string) (int64, error)
	InsertContentCopy(ctx context.Context, item models.ContentItem) error
	DeleteContentFromTier(ctx context.Context, id string, premium bool) (int64, error)
	DeleteContent(ctx context.Context, id string) (int64, error)
}

// Cache описывает методы для кэширования списков материалов.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// CatalogService реализует операции каталога поверх хранилища и кеша.
type CatalogService struct {
	repo  ContentRepository
	cache Cache
	log   *slog.Logger
}

// NewCatalogService создает новый экземпляр CatalogService.
func NewCatalogService(repo ContentRepository, cache Cache, log *slog.Logger) *CatalogService {
	return &CatalogService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

func cacheKey(level int, premium bool) string {
	return "content:" + models.PartitionKey(level, premium)
}

// List возвращает материалы одной партиции, используя кеш или хранилище.
func (s *CatalogService) List(ctx context.Context, level int, premium bool) ([]*models.ContentItem, error) {
	key := cacheKey(level, premium)

	var cached []*models.ContentItem
	found, err := s.cache.Get(key, &cached)
	if err != nil {
		s.log.Warn("failed to read content list from cache", slog.String("key", key), sl.Err(err))
	}
	if found {
		return cached, nil
	}

	items, err := s.repo.ListContent(ctx, level, premium)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(key, items, cacheTTL); err != nil {
		s.log.Warn("failed to cache content list", slog.String("key", key), sl.Err(err))
	}
	return items, nil
}

// Get возвращает материал по ID.
func (s *CatalogService) Get(ctx context.Context, id string) (*models.ContentItem, error) {
	return s.repo.GetContent(ctx, id)
}

// Create добавляет новый материал и сбрасывает кеш его партиции.
func (s *CatalogService) Create(ctx context.Context, item models.ContentItem) (string, error) {
	id, err := s.repo.CreateContent(ctx, item)
	if err != nil {
		return "", err
	}
	s.log.Info("created content item",
		slog.String("id", id),
		slog.String("partition", item.PartitionKey()))

	s.invalidate(item.Level, item.IsPremium)
	return id, nil
}

// RecordOpen увеличивает счётчик открытий материала ровно на 1.
// Инкремент атомарный на стороне хранилища: параллельные открытия
// разными читателями не теряют обновления.
func (s *CatalogService) RecordOpen(ctx context.Context, id string) error {
	const op = "catalog.RecordOpen"

	count, err := s.repo.IncrementDownloads(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if count == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// MoveTier переносит материал в партицию другого тарифа: сначала пишет копию
// с новым значением is_premium в целевую партицию, затем удаляет исходную
// запись. Операции не объединены в транзакцию; если удаление после успешной
// записи не удалось, возвращается ErrReconcileNeeded, а не обычная ошибка,
// чтобы оператор мог разрешить дубликат вручную.
func (s *CatalogService) MoveTier(ctx context.Context, id string, newPremium bool) (*models.ContentItem, error) {
	const op = "catalog.MoveTier"

	item, err := s.repo.GetContent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if item.IsPremium == newPremium {
		return item, nil
	}

	moved := *item
	moved.IsPremium = newPremium
	if err := s.repo.InsertContentCopy(ctx, moved); err != nil {
		return nil, fmt.Errorf("%s: create in target partition: %w", op, err)
	}

	if _, err := s.repo.DeleteContentFromTier(ctx, id, item.IsPremium); err != nil {
		s.log.Error("tier move partially applied, duplicate copies left",
			slog.String("id", id),
			slog.String("source", item.PartitionKey()),
			slog.String("target", moved.PartitionKey()),
			sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, ErrReconcileNeeded)
	}

	s.log.Info("moved content item between tiers",
		slog.String("id", id),
		slog.String("from", item.PartitionKey()),
		slog.String("to", moved.PartitionKey()))

	s.invalidate(item.Level, item.IsPremium)
	s.invalidate(moved.Level, moved.IsPremium)
	return &moved, nil
}

// Delete окончательно удаляет материал. Повторное удаление уже
// отсутствующего ID возвращает ErrNotFound, а не падает.
func (s *CatalogService) Delete(ctx context.Context, id string) error {
	const op = "catalog.Delete"

	item, err := s.repo.GetContent(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	count, err := s.repo.DeleteContent(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if count == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	s.log.Info("deleted content item", slog.String("id", id))

	s.invalidate(item.Level, item.IsPremium)
	return nil
}

func (s *CatalogService) invalidate(level int, premium bool) {
	key := cacheKey(level, premium)
	if err := s.cache.Invalidate(key); err != nil {
		s.log.Warn("failed to invalidate content list cache", slog.String("key", key), sl.Err(err))
	}
}
