package repository

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	q "github.com/lws-platform/auth-service/internal/queue"
)

// EventRepo publishes account lifecycle events to RabbitMQ. Each
// publish dials a fresh connection and declares the target queue as
// durable; messages are persistent JSON. Errors are logged and
// returned so callers can choose to ignore them without interrupting
// the main request flow.
type EventRepo struct{ URL string }

func NewEventRepo(url string) *EventRepo { return &EventRepo{URL: url} }

// PublishAccountCreated emits an AccountCreatedEvent to the
// account.created queue.
func (r *EventRepo) PublishAccountCreated(ctx context.Context, event q.AccountCreatedEvent) error {
	return r.publish(ctx, q.AccountCreatedQueue, event)
}

// PublishAccountDeleted emits an AccountDeletedEvent to the
// account.deleted queue.
func (r *EventRepo) PublishAccountDeleted(ctx context.Context, event q.AccountDeletedEvent) error {
	return r.publish(ctx, q.AccountDeletedQueue, event)
}

func (r *EventRepo) publish(ctx context.Context, queueName string, payload any) error {
	conn, err := amqp.Dial(r.URL)
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // autoDelete
		false,     // exclusive
		false,     // noWait
		nil,       // args
	); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // store on disk
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx,
		"",        // default exchange
		queueName, // routing key = queue name
		false,     // mandatory
		false,     // immediate
		pub,
	); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}

	return nil
}
