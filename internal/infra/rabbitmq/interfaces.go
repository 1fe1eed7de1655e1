package rabbitmq

import "context"

// PublisherInterface publishes a JSON envelope under a topic routing key.
type PublisherInterface interface {
	Publish(ctx context.Context, routingKey string, data any) error
	Close()
}

var _ PublisherInterface = (*Publisher)(nil)
