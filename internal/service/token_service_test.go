package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lws-platform/auth-service/internal/model"
	"github.com/lws-platform/auth-service/internal/repository"
)

func TestIssueRoundTrip(t *testing.T) {
	tokens := newFakeTokenStore()
	svc := NewTokenService(tokens)
	ctx := context.Background()

	roles := []model.Role{model.RoleUser, model.RoleAdmin}
	issued, err := svc.Issue(ctx, "owner-1", roles)
	require.NoError(t, err)

	got, err := tokens.GetByToken(ctx, issued.ID)
	require.NoError(t, err)
	assert.Equal(t, "owner-1", got.UserID)
	assert.Equal(t, roles, got.Roles, "roles are snapshotted at issuance")
	assert.False(t, got.CreatedAt.IsZero())
}

func TestGeneratedTokenShape(t *testing.T) {
	// SHA-512 digest, hex encoded: 128 lowercase hex characters.
	id := generateTokenID("owner-1")
	assert.Len(t, id, 128)
	assert.Regexp(t, "^[0-9a-f]{128}$", id)
}

func TestGeneratedTokensAreUnique(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		id := generateTokenID("owner-1")
		_, dup := seen[id]
		require.False(t, dup, "duplicate token id after %d generations", i)
		seen[id] = struct{}{}
	}
}

func TestExpiredTokenDoesNotResolve(t *testing.T) {
	tokens := newFakeTokenStore()
	svc := NewTokenService(tokens)
	ctx := context.Background()

	issued, err := svc.Issue(ctx, "owner-1", []model.Role{model.RoleUser})
	require.NoError(t, err)

	// Fast-forward past the TTL window.
	tokens.now = func() time.Time { return time.Now().UTC().Add(repository.TokenTTL + time.Minute) }

	_, err = tokens.GetByToken(ctx, issued.ID)
	assert.ErrorIs(t, err, repository.ErrTokenNotFound)

	live, err := tokens.ListByOwner(ctx, "owner-1")
	require.NoError(t, err)
	assert.Empty(t, live)
}

func TestIssueConflictIsFatal(t *testing.T) {
	tokens := newFakeTokenStore()
	tokens.insertErr = repository.ErrTokenExists
	svc := NewTokenService(tokens)

	_, err := svc.Issue(context.Background(), "owner-1", []model.Role{model.RoleUser})
	assert.ErrorIs(t, err, repository.ErrTokenExists, "duplicate digest surfaces as-is, no retry")
}
