package middleware

// identity.go defines the typed accessors for the identity the
// authorization gate attaches to the request context. Handlers use
// these instead of reaching into the untyped context bag so a missing
// or mistyped value reads as "not authenticated" rather than a panic.

import (
	"github.com/labstack/echo/v4"

	"github.com/lws-platform/auth-service/internal/model"
)

const (
	accountIDKey = "auth.account_id"
	rolesKey     = "auth.roles"
	tokenKey     = "auth.token"
)

func setIdentity(c echo.Context, token model.AccessToken) {
	c.Set(accountIDKey, token.UserID)
	c.Set(rolesKey, token.Roles)
	c.Set(tokenKey, token)
}

// AccountID returns the authorized account id attached by TokenAuth.
// ok is false when the gate did not run or did not authorize.
func AccountID(c echo.Context) (string, bool) {
	v, ok := c.Get(accountIDKey).(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Roles returns the role snapshot of the token that authorized this
// request, or nil when the request is unauthenticated.
func Roles(c echo.Context) []model.Role {
	roles, _ := c.Get(rolesKey).([]model.Role)
	return roles
}

// Token returns the full token record that authorized this request.
// ok is false when the gate did not run or did not authorize.
func Token(c echo.Context) (model.AccessToken, bool) {
	t, ok := c.Get(tokenKey).(model.AccessToken)
	if !ok || t.ID == "" {
		return model.AccessToken{}, false
	}
	return t, true
}
