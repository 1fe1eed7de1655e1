package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

var ErrClosed = errors.New("publisher is closed")

type Publisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

// Envelope is the body of every published message.
type Envelope struct {
	Pattern string      `json:"pattern"`
	Data    interface{} `json:"data"`
	ID      string      `json:"id,omitempty"`
}

func NewPublisher(amqpURL, exchange string) (*Publisher, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		exchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &Publisher{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
	}, nil
}

func (p *Publisher) Publish(ctx context.Context, pattern string, data interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	message, body, err := encode(pattern, data)
	if err != nil {
		return err
	}

	zap.L().Debug("publishing message",
		zap.String("pattern", pattern),
		zap.String("exchange", p.exchange),
		zap.String("id", message.ID))

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.channel == nil {
		return ErrClosed
	}
	err = p.channel.Publish(
		p.exchange,
		pattern,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    message.ID,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	return nil
}

func encode(pattern string, data interface{}) (Envelope, []byte, error) {
	message := Envelope{
		Pattern: pattern,
		Data:    data,
		ID:      uuid.NewString(),
	}
	body, err := json.Marshal(message)
	if err != nil {
		return Envelope{}, nil, fmt.Errorf("failed to marshal message: %w", err)
	}
	return message, body, nil
}

// Close is safe to call more than once.
func (p *Publisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.channel != nil {
		p.channel.Close()
		p.channel = nil
	}
	if p.conn != nil {
		p.conn.Close()
		p.conn = nil
	}
}
