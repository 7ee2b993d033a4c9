package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	amqp "github.com/rabbitmq/amqp091-go"
)

// TokenBinder is the slice of the account service the consumer needs.
type TokenBinder interface {
	SetNamespaceToken(ctx context.Context, accountID, namespace, token string) error
}

// StartTokenConsumer connects to RabbitMQ, declares the token.created
// queue (durable), and starts consuming messages. Each message attaches
// a namespace token to its account via the provided binder. The
// function runs a reconnect loop with exponential backoff and keeps
// running across broker restarts; processing errors are logged and the
// offending message is rejected without requeue so the service
// continues operating.
func StartTokenConsumer(url string, binder TokenBinder) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Printf("token-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeLoop(conn, binder); err != nil {
			log.Printf("token-consumer: consume loop ended: %v; reconnecting", err)
			time.Sleep(2 * time.Second)
			continue
		}
	}
}

func consumeLoop(conn *amqp.Connection, binder TokenBinder) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("token-consumer: set QoS failed: %v", err)
	}

	_, err = ch.QueueDeclare(TokenCreatedQueue, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(TokenCreatedQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := handleMessage(d.Body, binder); err != nil {
			log.Printf("token-consumer: handle message failed: %v", err)
			_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

func handleMessage(body []byte, binder TokenBinder) error {
	var ev TokenCreatedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.AccountID == "" || ev.Namespace == "" || ev.Token == "" {
		return errors.New("event missing accountId, namespace or token")
	}
	// Namespace tokens are JWTs signed by the issuing service; the
	// signature is not ours to verify, but a payload that does not even
	// parse as a JWT is dropped here instead of being stored.
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(ev.Token, claims); err != nil {
		return fmt.Errorf("namespace token is not a valid JWT: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := binder.SetNamespaceToken(ctx, ev.AccountID, ev.Namespace, ev.Token); err != nil {
		return fmt.Errorf("set namespace token for account %s: %w", ev.AccountID, err)
	}
	log.Printf("token-consumer: attached namespace %q token to account %s", ev.Namespace, ev.AccountID)
	return nil
}
