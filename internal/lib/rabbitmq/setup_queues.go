package rabbitmq

type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "reading.subscription.expiring", RoutingKey: "expiring"},
		// при необходимости дополнительные очереди для других воркеров
	}
}
