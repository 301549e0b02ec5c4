// Package scheduler собирает приложение уборки истёкших premium-подписок.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/medx-platform/medx-api/internal/config"
	"github.com/medx-platform/medx-api/internal/lib/rabbitmq"
	expiryservice "github.com/medx-platform/medx-api/internal/services/expiry"
	"github.com/medx-platform/medx-api/internal/storage/repository"
)

const sweepInterval = 12 * time.Hour

// App представляет приложение планировщика уборки.
type App struct {
	expiryService *expiryservice.ExpiryService
	conn          *amqp.Connection
	ch            *amqp.Channel
	logger        *slog.Logger
}

func waitForDB(db *repository.Storage) error {
	for i := 0; i < 10; i++ {
		err := repository.CheckDatabaseReady(db)
		if err == nil {
			return nil
		}
		time.Sleep(3 * time.Second)
	}
	return fmt.Errorf("database not ready after retries")
}

// New создает новый экземпляр приложения планировщика.
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
	}

	queues := rabbitmq.GetNotificationQueues()
	ch, err := rabbitmq.SetupChannel(conn, queues)
	if err != nil {
		closeResources(nil, conn, logger)
		return nil, fmt.Errorf("failed to setup RabbitMQ channel: %w", err)
	}

	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		closeResources(ch, conn, logger)
		return nil, fmt.Errorf("failed to connect storage: %w", err)
	}
	if err := waitForDB(db); err != nil {
		closeResources(ch, conn, logger)
		return nil, err
	}

	publisher := &expiryservice.ChannelPublisher{Channel: ch}
	expiryService := expiryservice.NewExpiryService(db, publisher, logger)

	return &App{
		expiryService: expiryService,
		conn:          conn,
		ch:            ch,
		logger:        logger,
	}, nil
}

func closeResources(ch *amqp.Channel, conn *amqp.Connection, logger *slog.Logger) {
	if ch != nil {
		if err := ch.Close(); err != nil {
			logger.Error("failed to close channel", "error", err)
		}
	}
	if conn != nil {
		if err := conn.Close(); err != nil {
			logger.Error("failed to close connection", "error", err)
		}
	}
}

// Run запускает уборку до отмены контекста.
func (a *App) Run(ctx context.Context) error {
	go a.expiryService.Run(ctx, sweepInterval)

	<-ctx.Done()

	a.logger.Info("shutting down expiry scheduler")
	closeResources(a.ch, a.conn, a.logger)
	return nil
}
