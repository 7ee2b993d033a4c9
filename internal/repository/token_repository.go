package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lws-platform/auth-service/internal/model"
)

// TokenTTL is how long an issued token stays valid. Expiry is enforced
// physically by Redis key TTLs; the application never compares
// createdAt against the clock, so a lookup is a plain existence check.
const TokenTTL = 30 * time.Minute

// TokenRepo persists access tokens in Redis. Each token is a JSON row
// at token:<id> with a 30 minute TTL, plus a per-owner index set at
// tokenowner:<ownerId> used for listing and bulk revocation. There is
// deliberately no in-memory cache in front: every lookup round-trips
// to Redis so that revocation and expiry are immediately consistent.
type TokenRepo struct{ RDB *redis.Client }

func NewTokenRepo(rdb *redis.Client) *TokenRepo { return &TokenRepo{RDB: rdb} }

func tokenKey(id string) string      { return "token:" + id }
func ownerKey(ownerID string) string { return "tokenowner:" + ownerID }

// Insert persists one token. SetNX guards the primary-key invariant:
// an existing key means the generator produced a duplicate digest,
// reported as ErrTokenExists and never retried.
func (r *TokenRepo) Insert(ctx context.Context, t model.AccessToken) error {
	body, err := json.Marshal(t)
	if err != nil {
		return err
	}
	ok, err := r.RDB.SetNX(ctx, tokenKey(t.ID), body, TokenTTL).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrTokenExists
	}
	if err := r.RDB.SAdd(ctx, ownerKey(t.UserID), t.ID).Err(); err != nil {
		return err
	}
	// Keep the index alive at least as long as its newest token. Stale
	// members left behind after expiry are skipped on read.
	return r.RDB.Expire(ctx, ownerKey(t.UserID), TokenTTL).Err()
}

// GetByToken resolves a token by its value. Expired rows are gone from
// Redis already, so a miss covers both "never existed" and "expired".
func (r *TokenRepo) GetByToken(ctx context.Context, id string) (model.AccessToken, error) {
	body, err := r.RDB.Get(ctx, tokenKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return model.AccessToken{}, ErrTokenNotFound
		}
		return model.AccessToken{}, err
	}
	var t model.AccessToken
	if err := json.Unmarshal(body, &t); err != nil {
		return model.AccessToken{}, err
	}
	return t, nil
}

// ListByOwner returns all live tokens for an owner, in no particular
// order. Index members whose row already expired are pruned as they
// are encountered.
func (r *TokenRepo) ListByOwner(ctx context.Context, ownerID string) ([]model.AccessToken, error) {
	ids, err := r.RDB.SMembers(ctx, ownerKey(ownerID)).Result()
	if err != nil {
		return nil, err
	}
	var tokens []model.AccessToken
	for _, id := range ids {
		t, err := r.GetByToken(ctx, id)
		if err != nil {
			if err == ErrTokenNotFound {
				_ = r.RDB.SRem(ctx, ownerKey(ownerID), id)
				continue
			}
			return nil, err
		}
		tokens = append(tokens, t)
	}
	return tokens, nil
}

// BulkRemoveByOwner deletes every token of an owner plus the owner
// index itself. Removing zero rows is success, so calling this for an
// owner with no tokens (or twice in a row) is a no-op.
func (r *TokenRepo) BulkRemoveByOwner(ctx context.Context, ownerID string) error {
	ids, err := r.RDB.SMembers(ctx, ownerKey(ownerID)).Result()
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, tokenKey(id))
	}
	keys = append(keys, ownerKey(ownerID))
	return r.RDB.Del(ctx, keys...).Err()
}
