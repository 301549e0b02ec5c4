// Package services содержит фоновую уборку истёкших premium-подписок.
// Ленивая проверка в middleware покрывает только активных пользователей;
// уборка снимает подписку и у тех, кто давно не заходил, и публикует
// уведомление для отправки письма.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"

	"github.com/medx-platform/medx-api/internal/lib/rabbitmq"
	"github.com/medx-platform/medx-api/internal/lib/sl"
	"github.com/medx-platform/medx-api/internal/models"
)

// UserRepository определяет методы хранилища, нужные уборке.
type UserRepository interface {
	FindExpiredPremium(ctx context.Context, now time.Time) ([]*models.User, error)
	UpdatePremium(ctx context.Context, userUID string, premium bool, expiry *time.Time) (int64, error)
}

// Publisher публикует уведомление в очередь.
type Publisher interface {
	Publish(routingKey string, message any) error
}

// ChannelPublisher публикует сообщения через канал RabbitMQ
// в exchange уведомлений.
type ChannelPublisher struct {
	Channel *amqp.Channel
}

// Publish отправляет сообщение с указанным ключом маршрутизации.
func (p *ChannelPublisher) Publish(routingKey string, message any) error {
	return rabbitmq.PublishMessage(p.Channel, rabbitmq.NotificationsExchange, routingKey, message)
}

// ExpiryService периодически снимает истёкшие premium-подписки.
type ExpiryService struct {
	repo      UserRepository
	publisher Publisher
	log       *slog.Logger
	now       func() time.Time
}

// NewExpiryService создает новый экземпляр ExpiryService.
func NewExpiryService(repo UserRepository, publisher Publisher, log *slog.Logger) *ExpiryService {
	return &ExpiryService{
		repo:      repo,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

// Run запускает уборку по тикеру до отмены контекста. Первый проход
// выполняется сразу при старте.
func (s *ExpiryService) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.Sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			s.log.Info("expiry sweep stopped")
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep находит пользователей с истёкшей подпиской, снимает её и публикует
// уведомление. Ошибка по одному пользователю не прерывает проход.
func (s *ExpiryService) Sweep(ctx context.Context) {
	s.log.Info("starting expired premium sweep")

	users, err := s.repo.FindExpiredPremium(ctx, s.now().UTC())
	if err != nil {
		s.log.Error("failed to find expired subscriptions", sl.Err(err))
		return
	}

	for _, user := range users {
		count, err := s.repo.UpdatePremium(ctx, user.UID, false, nil)
		if err != nil {
			s.log.Error("failed to revoke expired subscription",
				slog.String("user_uid", user.UID), sl.Err(err))
			continue
		}
		if count == 0 {
			continue
		}
		s.log.Info("revoked expired premium subscription",
			slog.String("user_uid", user.UID))

		notification := models.UserNotification{
			EventID:  uuid.NewString(),
			UID:      user.UID,
			Email:    user.Email,
			Username: user.Username,
		}
		if err := s.publisher.Publish("premium.expired", notification); err != nil {
			s.log.Error("failed to publish expiry notification",
				slog.String("user_uid", user.UID), sl.Err(err))
			continue
		}
		s.log.Info("published expiry notification",
			slog.String("event_id", notification.EventID),
			slog.String("user_uid", user.UID))
	}
}
