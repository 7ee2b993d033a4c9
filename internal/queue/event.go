// Package queue defines message payloads exchanged over the message broker
// and the background consumer for inbound token events.
package queue

import "time"

// Queue names shared by the publisher and downstream consumers.
const (
	AccountCreatedQueue = "account.created"
	AccountDeletedQueue = "account.deleted"
	TokenCreatedQueue   = "token.created"
)

// AccountCreatedEvent is published after a new account row is written.
// Publication is sequential with the insert, not transactional, so
// consumers must treat delivery as at-least-once/best-effort.
type AccountCreatedEvent struct {
	AccountID string    `json:"accountId"`
	CreatedAt time.Time `json:"createdAt"`
}

// AccountDeletedEvent is published after an account and all of its
// tokens are removed.
type AccountDeletedEvent struct {
	AccountID string    `json:"accountId"`
	DeletedAt time.Time `json:"deletedAt"`
}

// TokenCreatedEvent is consumed from downstream provisioning: it
// carries a namespace-scoped token to attach to an existing account.
type TokenCreatedEvent struct {
	AccountID string `json:"accountId"`
	Namespace string `json:"namespace"`
	Token     string `json:"token"`
}
