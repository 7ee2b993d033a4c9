package service

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lws-platform/auth-service/internal/model"
)

// TokenService issues opaque bearer tokens and records them in the
// token store. The token value is its own identifier; the store's TTL
// takes care of expiry.
type TokenService struct {
	Tokens TokenStore
}

func NewTokenService(tokens TokenStore) *TokenService { return &TokenService{Tokens: tokens} }

// Issue generates a token for ownerID, snapshots the given roles into
// it and inserts it. An insert conflict means the generator produced a
// duplicate 512-bit digest; that is surfaced as-is and never retried.
func (s *TokenService) Issue(ctx context.Context, ownerID string, roles []model.Role) (model.AccessToken, error) {
	token := model.AccessToken{
		ID:        generateTokenID(ownerID),
		UserID:    ownerID,
		Roles:     roles,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Tokens.Insert(ctx, token); err != nil {
		return model.AccessToken{}, err
	}
	return token, nil
}

// generateTokenID hashes a high-resolution timestamp, the owner id and
// a fresh random UUID with SHA-512 and hex-encodes the digest. Inputs
// are internal, so there is no validation; uniqueness rests on the
// digest width plus the UUID entropy.
func generateTokenID(ownerID string) string {
	seed := fmt.Sprintf("%d/%s/%s", time.Now().UTC().UnixNano(), ownerID, uuid.NewString())
	sum := sha512.Sum512([]byte(seed))
	return hex.EncodeToString(sum[:])
}
