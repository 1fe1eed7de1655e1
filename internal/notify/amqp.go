package notify

import (
	"context"
	"webshop-service/internal/domain"
	"webshop-service/internal/infra/rabbitmq"
)

const routingKeyPrefix = "notification."

// AMQPSink publishes events to a topic exchange under
// "notification.<event type>".
type AMQPSink struct {
	publisher rabbitmq.PublisherInterface
}

var _ Sink = (*AMQPSink)(nil)

func NewAMQPSink(p rabbitmq.PublisherInterface) *AMQPSink {
	return &AMQPSink{publisher: p}
}

func (s *AMQPSink) Name() string {
	return "amqp"
}

func (s *AMQPSink) Send(ctx context.Context, evt domain.NotificationEvent) error {
	return s.publisher.Publish(ctx, routingKeyPrefix+string(evt.Type), evt)
}

func (s *AMQPSink) Close() {
	s.publisher.Close()
}
