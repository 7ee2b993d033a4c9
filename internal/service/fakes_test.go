package service

// In-memory fakes for the store and publisher interfaces. The token
// fake honors the 30-minute TTL through an injectable clock so expiry
// behavior is testable without a real Redis.

import (
	"context"
	"sync"
	"time"

	"github.com/lws-platform/auth-service/internal/model"
	"github.com/lws-platform/auth-service/internal/queue"
	"github.com/lws-platform/auth-service/internal/repository"
)

type fakeAccountStore struct {
	mu         sync.Mutex
	accounts   map[string]model.Account
	namespaces map[string]map[string]string
	reads      int // lookups performed, used to assert validation short-circuits
}

func newFakeAccountStore() *fakeAccountStore {
	return &fakeAccountStore{
		accounts:   make(map[string]model.Account),
		namespaces: make(map[string]map[string]string),
	}
}

func (s *fakeAccountStore) Create(_ context.Context, a model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.accounts {
		if existing.UserEmail == a.UserEmail {
			return repository.ErrEmailExists
		}
	}
	s.accounts[a.ID] = a
	return nil
}

func (s *fakeAccountStore) GetByEmail(_ context.Context, email string) (model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	for _, a := range s.accounts {
		if a.UserEmail == email {
			return a, nil
		}
	}
	return model.Account{}, repository.ErrAccountNotFound
}

func (s *fakeAccountStore) GetByID(_ context.Context, id string) (model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	a, ok := s.accounts[id]
	if !ok {
		return model.Account{}, repository.ErrAccountNotFound
	}
	return a, nil
}

func (s *fakeAccountStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[id]; !ok {
		return repository.ErrAccountNotFound
	}
	delete(s.accounts, id)
	return nil
}

func (s *fakeAccountStore) SetNamespaceToken(_ context.Context, accountID, namespace, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.namespaces[accountID] == nil {
		s.namespaces[accountID] = make(map[string]string)
	}
	s.namespaces[accountID][namespace] = token
	return nil
}

type fakeTokenStore struct {
	mu        sync.Mutex
	now       func() time.Time
	tokens    map[string]model.AccessToken
	insertErr error // forced insert failure, e.g. ErrTokenExists
	removeErr error // forced bulk-removal failure
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{
		now:    func() time.Time { return time.Now().UTC() },
		tokens: make(map[string]model.AccessToken),
	}
}

func (s *fakeTokenStore) expired(t model.AccessToken) bool {
	return s.now().Sub(t.CreatedAt) >= repository.TokenTTL
}

func (s *fakeTokenStore) Insert(_ context.Context, t model.AccessToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insertErr != nil {
		return s.insertErr
	}
	if _, ok := s.tokens[t.ID]; ok {
		return repository.ErrTokenExists
	}
	s.tokens[t.ID] = t
	return nil
}

func (s *fakeTokenStore) GetByToken(_ context.Context, id string) (model.AccessToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tokens[id]
	if !ok || s.expired(t) {
		delete(s.tokens, id)
		return model.AccessToken{}, repository.ErrTokenNotFound
	}
	return t, nil
}

func (s *fakeTokenStore) ListByOwner(_ context.Context, ownerID string) ([]model.AccessToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.AccessToken
	for _, t := range s.tokens {
		if t.UserID == ownerID && !s.expired(t) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *fakeTokenStore) BulkRemoveByOwner(_ context.Context, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.removeErr != nil {
		return s.removeErr
	}
	for id, t := range s.tokens {
		if t.UserID == ownerID {
			delete(s.tokens, id)
		}
	}
	return nil
}

type fakePublisher struct {
	mu         sync.Mutex
	created    []queue.AccountCreatedEvent
	deleted    []queue.AccountDeletedEvent
	publishErr error // forced publish failure
}

func (p *fakePublisher) PublishAccountCreated(_ context.Context, ev queue.AccountCreatedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.publishErr != nil {
		return p.publishErr
	}
	p.created = append(p.created, ev)
	return nil
}

func (p *fakePublisher) PublishAccountDeleted(_ context.Context, ev queue.AccountDeletedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.publishErr != nil {
		return p.publishErr
	}
	p.deleted = append(p.deleted, ev)
	return nil
}
