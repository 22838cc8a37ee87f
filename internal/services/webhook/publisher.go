package webhook

import (
	"github.com/streadway/amqp"

	librabbitmq "github.com/qiyoga/qiyoga-backend/internal/lib/rabbitmq"
	"github.com/qiyoga/qiyoga-backend/internal/models"
	"github.com/qiyoga/qiyoga-backend/internal/rabbitmq"
)

// AMQPPublisher публикует уведомления о выданном доступе в RabbitMQ.
type AMQPPublisher struct {
	ch *amqp.Channel
}

// NewAMQPPublisher создаёт издателя поверх открытого канала.
func NewAMQPPublisher(ch *amqp.Channel) *AMQPPublisher {
	return &AMQPPublisher{ch: ch}
}

// PublishAccessGranted отправляет событие в exchange "notifications".
func (p *AMQPPublisher) PublishAccessGranted(event models.AccessGrantedEvent) error {
	return librabbitmq.PublishMessage(p.ch, "notifications", rabbitmq.AccessGrantedRoutingKey, event)
}
