package rabbitmq

import (
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"
)

// PublishMessage сериализует payload в JSON и публикует его с признаком
// Persistent, чтобы уведомление пережило рестарт брокера.
func PublishMessage(ch *amqp.Channel, exchange, routingKey string, payload any) error {
	const op = "rabbitmq.PublishMessage"

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
	}
	if err := ch.Publish(exchange, routingKey, false, false, pub); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
