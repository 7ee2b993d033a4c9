package model

import "time"

// Role is a coarse permission tag carried by accounts and snapshotted
// into issued tokens. Authorization is a plain membership check; there
// is no hierarchy between roles.
type Role string

const (
	RoleUser  Role = "User"
	RoleAdmin Role = "Admin"
)

// AccountState marks where an account is in its provisioning lifecycle.
// It is advanced by downstream integration events; the token store and
// the authorization gate never look at it.
type AccountState string

const (
	StateCreated    AccountState = "Created"
	StateReady      AccountState = "Ready"
	StateRevoked    AccountState = "Revoked"
	StateDroppedOut AccountState = "DroppedOut"
	StateError      AccountState = "Error"
)

// Account mirrors the `accounts` table. Roles are persisted as a JSON
// array column; namespace tokens live in a separate `account_namespaces`
// table keyed by (account_id, namespace).
type Account struct {
	ID           string       // accounts.id (uuid)
	UserEmail    string       // accounts.user_email (unique)
	UserNickName string       // accounts.user_nickname
	PasswordHash string       // accounts.password_hash (bcrypt, never the plaintext)
	Roles        []Role       // accounts.roles (JSON array)
	State        AccountState // accounts.account_state
	CreatedAt    time.Time    // accounts.created_at
	UpdatedAt    time.Time    // accounts.updated_at
}
