package middleware // middleware provides shared request processing for handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/lws-platform/auth-service/internal/model"
	"github.com/lws-platform/auth-service/internal/repository"
)

// AuthHeader carries the opaque bearer token on authenticated routes.
const AuthHeader = "X-LWS-AUTH"

// TokenLookup is the read-only slice of the token store the gate
// needs. The gate never writes to the store.
type TokenLookup interface {
	GetByToken(ctx context.Context, id string) (model.AccessToken, error)
}

// TokenAuth returns an Echo middleware that authorizes a request
// against the token store. It reads the token value from the
// X-LWS-AUTH header, resolves it, checks that the token's role
// snapshot contains requiredRole and attaches the owner identity to
// the request context for downstream handlers. An empty requiredRole
// skips the membership check: the route then accepts any resolvable
// token regardless of its roles.
//
// Every rejection uses the same status and body: callers cannot tell
// a missing header from an unknown token, an expired token or an
// insufficient role. An absent header is rejected before the store is
// queried at all.
func TokenAuth(tokens TokenLookup, requiredRole model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := strings.TrimSpace(c.Request().Header.Get(AuthHeader))
			if raw == "" {
				return reject(c)
			}

			token, err := tokens.GetByToken(c.Request().Context(), raw)
			if err != nil {
				if errors.Is(err, repository.ErrTokenNotFound) {
					return reject(c)
				}
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "authorization check failed"})
			}
			if requiredRole != "" && !token.HasRole(requiredRole) {
				return reject(c)
			}
			if token.UserID == "" {
				// Fail closed: a resolvable token without an owner must
				// never pass through.
				return reject(c)
			}

			setIdentity(c, token)
			return next(c)
		}
	}
}

func reject(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
}
