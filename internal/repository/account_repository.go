package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/lws-platform/auth-service/internal/model"
)

// AccountRepo persists accounts in MySQL. Email uniqueness is enforced
// by a unique index on user_email rather than an application-level
// lock; the store is the single source of truth shared across service
// instances.
type AccountRepo struct{ DB *sql.DB }

func NewAccountRepo(db *sql.DB) *AccountRepo { return &AccountRepo{DB: db} }

// Create inserts a new account row. A duplicate email surfaces as
// ErrEmailExists.
func (r *AccountRepo) Create(ctx context.Context, a model.Account) error {
	roles, err := json.Marshal(a.Roles)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx,
		"INSERT INTO accounts (id, user_email, user_nickname, password_hash, roles, account_state) VALUES (?,?,?,?,?,?)",
		a.ID, a.UserEmail, a.UserNickName, a.PasswordHash, roles, string(a.State))
	if err != nil {
		// MySQL 1062: duplicate entry for a unique key
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrEmailExists
		}
		return err
	}
	return nil
}

// GetByEmail fetches an account by normalized email.
func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (model.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT id,user_email,user_nickname,password_hash,roles,account_state,created_at,updated_at FROM accounts WHERE user_email=? LIMIT 1",
		email))
}

// GetByID fetches an account by id.
func (r *AccountRepo) GetByID(ctx context.Context, id string) (model.Account, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT id,user_email,user_nickname,password_hash,roles,account_state,created_at,updated_at FROM accounts WHERE id=? LIMIT 1",
		id))
}

// Delete removes an account row. Deleting a missing account returns
// ErrAccountNotFound so callers can map it to 404.
func (r *AccountRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM accounts WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAccountNotFound
	}
	return nil
}

// SetNamespaceToken upserts one namespace->token entry for an account.
// The account_namespaces table has a composite primary key on
// (account_id, namespace), so repeated deliveries of the same event
// simply overwrite the stored token.
func (r *AccountRepo) SetNamespaceToken(ctx context.Context, accountID, namespace, token string) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO account_namespaces (account_id, namespace, token) VALUES (?,?,?) ON DUPLICATE KEY UPDATE token=VALUES(token)",
		accountID, namespace, token)
	return err
}

func (r *AccountRepo) scanOne(row *sql.Row) (model.Account, error) {
	var (
		a     model.Account
		roles []byte
		state string
	)
	err := row.Scan(&a.ID, &a.UserEmail, &a.UserNickName, &a.PasswordHash, &roles, &state, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.Account{}, ErrAccountNotFound
		}
		return model.Account{}, err
	}
	if err := json.Unmarshal(roles, &a.Roles); err != nil {
		return model.Account{}, err
	}
	a.State = model.AccountState(state)
	return a, nil
}
