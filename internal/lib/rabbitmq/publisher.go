package rabbitmq

import (
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"
)

// NotificationPublisher публикует уведомления в общий exchange.
type NotificationPublisher struct {
	ch *amqp.Channel
}

// NewNotificationPublisher создает новый экземпляр NotificationPublisher.
func NewNotificationPublisher(ch *amqp.Channel) *NotificationPublisher {
	return &NotificationPublisher{ch: ch}
}

// Publish отправляет сообщение в exchange уведомлений с заданным ключом.
func (p *NotificationPublisher) Publish(routingKey string, message any) error {
	return PublishMessage(p.ch, Exchange, routingKey, message)
}

// PublishMessage публикует сообщение в RabbitMQ в формате JSON.
func PublishMessage(ch *amqp.Channel, exchange string, routingkey string, message any) error {
	const op = "rabbitmq.PublishMessage"
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = ch.Publish(
		exchange,
		routingkey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
