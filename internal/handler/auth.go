package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lws-platform/auth-service/internal/middleware"
)

// AuthHandler exposes token introspection for other services: given a
// bearer token it returns the stored token record, so downstream
// services can authorize a caller without talking to Redis themselves.
type AuthHandler struct{}

func NewAuthHandler() *AuthHandler { return &AuthHandler{} }

// GetAuthorizedToken returns the token record that authorized this
// request. Header extraction and the store lookup happen in the
// role-less authorization gate in front of this route, so every
// failure to resolve is the gate's uniform 401: the caller learns
// nothing about whether the token is unknown, expired or malformed.
func (h *AuthHandler) GetAuthorizedToken(c echo.Context) error {
	token, ok := middleware.Token(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	return c.JSON(http.StatusOK, token)
}
