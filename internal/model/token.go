package model

import "time"

// AccessToken is an opaque bearer credential. The token value itself is
// the primary key; UserID is the lookup key for bulk revocation. Roles
// are a snapshot of the account's roles at issuance time and are not
// refreshed if the account changes afterwards.
//
// The struct doubles as the wire body of login and /auth responses.
type AccessToken struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Roles     []Role    `json:"roles"`
	CreatedAt time.Time `json:"createdAt"`
}

// HasRole reports whether the token's role snapshot contains r.
func (t AccessToken) HasRole(r Role) bool {
	for _, have := range t.Roles {
		if have == r {
			return true
		}
	}
	return false
}
