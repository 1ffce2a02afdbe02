// Package queue carries notification fan-out jobs over RabbitMQ.
package queue

import (
	"context"
	"fmt"
	"time"

	"labelstartup-backend/internal/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 5 * time.Second

// Handler processes one message body. A returned error rejects the message; it is requeued
// once before being dropped.
type Handler func(ctx context.Context, body []byte) error

type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	Close() error
}

type RabbitMQ struct {
	conn    *amqp.Connection
	channel amqpChannel
	queue   string
}

// Dial connects to url and declares the durable queue.
func Dial(url, queueName string) (*RabbitMQ, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	q, err := ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare queue %s: %w", queueName, err)
	}
	logger.Info("Connected to RabbitMQ", "queue", q.Name)
	return &RabbitMQ{conn: conn, channel: ch, queue: q.Name}, nil
}

// Publish sends a persistent JSON message to the queue.
func (r *RabbitMQ) Publish(ctx context.Context, body []byte) error {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err := r.channel.PublishWithContext(
		ctx,
		"",      // exchange
		r.queue, // routing key
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish to %s: %w", r.queue, err)
	}
	return nil
}

// Consume delivers messages to handler until ctx is cancelled or the channel closes.
func (r *RabbitMQ) Consume(ctx context.Context, handler Handler) error {
	msgs, err := r.channel.Consume(
		r.queue,
		"",
		false, // manual ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("register consumer: %w", err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case d, ok := <-msgs:
				if !ok {
					logger.Warn("RabbitMQ delivery channel closed", "queue", r.queue)
					return
				}
				handle(ctx, d, handler)
			}
		}
	}()
	return nil
}

func handle(ctx context.Context, d amqp.Delivery, handler Handler) {
	if err := handler(ctx, d.Body); err != nil {
		requeue := !d.Redelivered
		logger.Error("Queue job failed", "error", err, "requeue", requeue)
		if nerr := d.Nack(false, requeue); nerr != nil {
			logger.Warn("Failed to nack message", "error", nerr)
		}
		return
	}
	if err := d.Ack(false); err != nil {
		logger.Warn("Failed to ack message", "error", err)
	}
}

func (r *RabbitMQ) Close() error {
	if err := r.channel.Close(); err != nil {
		logger.Warn("Failed to close RabbitMQ channel", "error", err)
	}
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}
