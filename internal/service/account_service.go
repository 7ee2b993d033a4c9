// Package service holds the account lifecycle orchestrator and token
// issuing logic. Both operate over narrow store interfaces so the
// MySQL, Redis and RabbitMQ implementations stay swappable in tests.
package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/lws-platform/auth-service/internal/model"
	"github.com/lws-platform/auth-service/internal/queue"
	"github.com/lws-platform/auth-service/internal/repository"
	"github.com/lws-platform/auth-service/internal/utils"
)

// ErrInvalidRequest is returned for malformed input, such as an email
// that does not parse. It is reported before any store call is made.
var ErrInvalidRequest = errors.New("invalid request")

// AccountStore is the account persistence surface the orchestrator
// depends on. Implemented by repository.AccountRepo.
type AccountStore interface {
	Create(ctx context.Context, a model.Account) error
	GetByEmail(ctx context.Context, email string) (model.Account, error)
	GetByID(ctx context.Context, id string) (model.Account, error)
	Delete(ctx context.Context, id string) error
	SetNamespaceToken(ctx context.Context, accountID, namespace, token string) error
}

// TokenStore is the token persistence surface. Implemented by
// repository.TokenRepo; expiry is the store's responsibility.
type TokenStore interface {
	Insert(ctx context.Context, t model.AccessToken) error
	GetByToken(ctx context.Context, id string) (model.AccessToken, error)
	ListByOwner(ctx context.Context, ownerID string) ([]model.AccessToken, error)
	BulkRemoveByOwner(ctx context.Context, ownerID string) error
}

// EventPublisher emits account lifecycle events to the message bus.
// Implemented by repository.EventRepo.
type EventPublisher interface {
	PublishAccountCreated(ctx context.Context, event queue.AccountCreatedEvent) error
	PublishAccountDeleted(ctx context.Context, event queue.AccountDeletedEvent) error
}

// AccountService coordinates account state changes with token
// revocation and event emission.
type AccountService struct {
	Accounts   AccountStore
	Tokens     TokenStore
	Events     EventPublisher
	BcryptCost int
}

func NewAccountService(accounts AccountStore, tokens TokenStore, events EventPublisher, bcryptCost int) *AccountService {
	return &AccountService{Accounts: accounts, Tokens: tokens, Events: events, BcryptCost: bcryptCost}
}

var validate = validator.New()

// Register creates a new account with the default User role and state
// Created, then publishes an AccountCreated event. The email format is
// checked before any store call; an already-registered email returns
// repository.ErrEmailExists without a write.
//
// The insert and the publish are sequential, not transactional: if the
// process dies between them the account exists with no downstream
// event. That gap is accepted; a failed publish is logged and does not
// fail the registration.
func (s *AccountService) Register(ctx context.Context, email, nickname, password string) (model.Account, error) {
	if validate.Var(email, "required,email") != nil {
		return model.Account{}, ErrInvalidRequest
	}

	_, err := s.Accounts.GetByEmail(ctx, email)
	if err == nil {
		return model.Account{}, repository.ErrEmailExists
	}
	if !errors.Is(err, repository.ErrAccountNotFound) {
		return model.Account{}, err
	}

	hash, err := utils.HashPassword(password, s.BcryptCost)
	if err != nil {
		return model.Account{}, err
	}
	account := model.Account{
		ID:           uuid.NewString(),
		UserEmail:    email,
		UserNickName: nickname,
		PasswordHash: hash,
		Roles:        []model.Role{model.RoleUser},
		State:        model.StateCreated,
	}
	if err := s.Accounts.Create(ctx, account); err != nil {
		return model.Account{}, err
	}

	if err := s.Events.PublishAccountCreated(ctx, queue.AccountCreatedEvent{
		AccountID: account.ID,
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		log.Printf("account-service: publish account.created for %s failed: %v", account.ID, err)
	}
	return account, nil
}

// Login verifies credentials by email. A missing account and a wrong
// password both return repository.ErrAccountNotFound so the caller
// cannot tell which part of the credential was wrong. Verifier errors
// (malformed stored hash) degrade to the same outcome.
//
// Login does not issue a token; the handler composes Login with
// TokenService.Issue.
func (s *AccountService) Login(ctx context.Context, email, password string) (model.Account, error) {
	account, err := s.Accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return model.Account{}, repository.ErrAccountNotFound
		}
		return model.Account{}, err
	}
	ok, err := utils.VerifyPassword(account.PasswordHash, password)
	if err != nil {
		log.Printf("account-service: password verify for %s errored: %v", account.ID, err)
	}
	if !ok {
		return model.Account{}, repository.ErrAccountNotFound
	}
	return account, nil
}

// GetInfo returns the account for id or repository.ErrAccountNotFound.
func (s *AccountService) GetInfo(ctx context.Context, accountID string) (model.Account, error) {
	return s.Accounts.GetByID(ctx, accountID)
}

// RemoveAccount bulk-revokes every token the account owns, deletes the
// account row and publishes an AccountDeleted event. Revocation is
// part of this operation, not the caller's job: once RemoveAccount
// returns nil, no previously issued token resolves any more.
//
// Tokens go first: if revocation fails the account row is still there
// and the whole operation can simply be retried, whereas the reverse
// order would strand live tokens on an account that no longer exists.
// A failed row delete after revocation only costs the owner a fresh
// login.
func (s *AccountService) RemoveAccount(ctx context.Context, accountID string) error {
	account, err := s.Accounts.GetByID(ctx, accountID)
	if err != nil {
		return err
	}
	if err := s.Tokens.BulkRemoveByOwner(ctx, account.ID); err != nil {
		return err
	}
	if err := s.Accounts.Delete(ctx, account.ID); err != nil {
		return err
	}

	if err := s.Events.PublishAccountDeleted(ctx, queue.AccountDeletedEvent{
		AccountID: account.ID,
		DeletedAt: time.Now().UTC(),
	}); err != nil {
		log.Printf("account-service: publish account.deleted for %s failed: %v", account.ID, err)
	}
	return nil
}

// SetNamespaceToken attaches a namespace-scoped token to an existing
// account. Called by the token.created consumer.
func (s *AccountService) SetNamespaceToken(ctx context.Context, accountID, namespace, token string) error {
	if _, err := s.Accounts.GetByID(ctx, accountID); err != nil {
		return err
	}
	return s.Accounts.SetNamespaceToken(ctx, accountID, namespace, token)
}
