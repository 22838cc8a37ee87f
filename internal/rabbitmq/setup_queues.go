package rabbitmq

// QueueConfig описывает очередь и её ключ маршрутизации.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// Очередь уведомлений о выданном доступе.
const (
	AccessGrantedQueue      = "notifications.access_granted"
	AccessGrantedRoutingKey = "access.granted"
)

// GetNotificationQueues возвращает очереди, объявляемые приложением.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: AccessGrantedQueue, RoutingKey: AccessGrantedRoutingKey},
	}
}
