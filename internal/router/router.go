package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/lws-platform/auth-service/internal/handler"
	"github.com/lws-platform/auth-service/internal/middleware"
	"github.com/lws-platform/auth-service/internal/model"
)

// RegisterRoutes wires every endpoint with its required role in one
// place. Protected routes state their role declaratively next to the
// handler; the authorization gate runs before the handler body and
// there is no other path into a protected handler.
//
//	POST   /account        none         register
//	POST   /account/login  none         login + token issue
//	GET    /account        role=User    profile
//	DELETE /account        role=User    dropout (revokes all tokens)
//	GET    /auth           token        token introspection
//	GET    /healthz        none         liveness
func RegisterRoutes(e *echo.Echo, accounts *handler.AccountHandler, auth *handler.AuthHandler,
	tokens middleware.TokenLookup, limiter echo.MiddlewareFunc) {

	e.GET("/healthz", handler.Health)

	// Credential endpoints sit behind the brute-force limiter only.
	e.POST("/account", accounts.Register, limiter)
	e.POST("/account/login", accounts.Login, limiter)

	// Account self-service requires the User role.
	e.GET("/account", accounts.GetInfo, middleware.TokenAuth(tokens, model.RoleUser))
	e.DELETE("/account", accounts.Dropout, middleware.TokenAuth(tokens, model.RoleUser))

	// Token introspection needs a resolvable token but no specific
	// role, so it runs behind the gate's role-less mode.
	e.GET("/auth", auth.GetAuthorizedToken, middleware.TokenAuth(tokens, ""))
}
