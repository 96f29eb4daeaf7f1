package rabbitmq

// QueueConfig описывает очередь и ключ маршрутизации для её привязки.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// ApprovedRoutingKey ключ маршрутизации для одобренных заявок на подписку.
const ApprovedRoutingKey = "subscription.approved"

// ApprovedQueue очередь уведомлений об одобренных заявках.
const ApprovedQueue = "notification.approved"

// GetNotificationQueues возвращает очереди воркера уведомлений.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: ApprovedQueue, RoutingKey: ApprovedRoutingKey},
	}
}
