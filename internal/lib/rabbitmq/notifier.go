package rabbitmq

import (
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/jornal-destaque/internal/models"
)

// ApprovalPublisher публикует уведомления об одобренных заявках.
type ApprovalPublisher struct {
	ch *amqp.Channel
}

// NewApprovalPublisher создает новый ApprovalPublisher поверх канала.
func NewApprovalPublisher(ch *amqp.Channel) *ApprovalPublisher {
	return &ApprovalPublisher{ch: ch}
}

// PublishApproval отправляет событие в обменник уведомлений.
func (p *ApprovalPublisher) PublishApproval(notice models.ApprovalNotice) error {
	return PublishMessage(p.ch, NotificationExchange, ApprovedRoutingKey, notice)
}
