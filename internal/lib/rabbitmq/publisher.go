package rabbitmq

import (
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"
)

// PublishMessage сериализует событие в JSON и публикует его в exchange
// с указанным ключом маршрутизации. Сообщения помечаются persistent,
// чтобы уведомления об истёкших подписках переживали перезапуск брокера.
func PublishMessage(ch *amqp.Channel, exchange, routingKey string, event any) error {
	const op = "rabbitmq.PublishMessage"

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%s: marshal event: %w", op, err)
	}

	if err = ch.Publish(
		exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
