package helpers

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// RabbitPublisher wraps an AMQP channel and a single declared queue for
// publishing JSON messages. Publishing is at-most-once: no confirms are
// awaited, callers log failures and move on.
type RabbitPublisher struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	mode  uint8
	Queue string
}

// NewRabbitPublisher dials url, opens a channel and declares queue.
// durable controls queue durability; delivery persistence follows it.
func NewRabbitPublisher(url, queue string, durable bool) (*RabbitPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	_, err = ch.QueueDeclare(
		queue,
		durable,
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	mode := uint8(amqp.Transient)
	if durable {
		mode = amqp.Persistent
	}
	return &RabbitPublisher{conn: conn, ch: ch, mode: mode, Queue: queue}, nil
}

func (p *RabbitPublisher) Close() {
	if p == nil {
		return
	}
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

// PublishJSON publishes a JSON-encoded message to the declared queue.
func (p *RabbitPublisher) PublishJSON(ctx context.Context, body any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	return p.ch.PublishWithContext(ctx,
		"",      // default exchange
		p.Queue, // routing key = queue
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: p.mode,
			Timestamp:    time.Now().UTC(),
			Body:         b,
		},
	)
}
