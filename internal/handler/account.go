package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/lws-platform/auth-service/internal/middleware"
	"github.com/lws-platform/auth-service/internal/repository"
	"github.com/lws-platform/auth-service/internal/service"
)

// AccountHandler bundles dependencies for account endpoints.
type AccountHandler struct {
	Accounts *service.AccountService
	Tokens   *service.TokenService
}

func NewAccountHandler(accounts *service.AccountService, tokens *service.TokenService) *AccountHandler {
	return &AccountHandler{Accounts: accounts, Tokens: tokens}
}

// ----- DTOs -----

type registerReq struct {
	UserEmail    string `json:"userEmail"`
	UserNickName string `json:"userNickName"`
	UserPassword string `json:"userPassword"`
}
type loginReq struct {
	UserEmail    string `json:"userEmail"`
	UserPassword string `json:"userPassword"`
}

type profileResp struct {
	AccountID    string `json:"accountId"`
	UserNickName string `json:"userNickName"`
	AccountRole  string `json:"accountRole"`
	FirstLetter  string `json:"firstLetter"`
}

// Register creates a new account. The request body is checked before
// any store call; a well-formed duplicate email maps to 409.
func (h *AccountHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.UserEmail = strings.ToLower(strings.TrimSpace(req.UserEmail))
	if req.UserPassword == "" || req.UserNickName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "userEmail, userNickName and userPassword are required"})
	}

	_, err := h.Accounts.Register(c.Request().Context(), req.UserEmail, req.UserNickName, req.UserPassword)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRequest):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid email address"})
		case errors.Is(err, repository.ErrEmailExists):
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create account failed"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "registered"})
}

// Login verifies credentials and issues a fresh access token. The
// response body is the token record itself; the client sends its id
// back in the X-LWS-AUTH header on authenticated calls.
func (h *AccountHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.UserEmail = strings.ToLower(strings.TrimSpace(req.UserEmail))

	account, err := h.Accounts.Login(c.Request().Context(), req.UserEmail, req.UserPassword)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			// One message for unknown email and wrong password alike.
			return c.JSON(http.StatusForbidden, echo.Map{"error": "login failed, check email or password"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
	}

	token, err := h.Tokens.Issue(c.Request().Context(), account.ID, account.Roles)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	return c.JSON(http.StatusOK, token)
}

// GetInfo returns the profile of the authorized account.
func (h *AccountHandler) GetInfo(c echo.Context) error {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	account, err := h.Accounts.GetInfo(c.Request().Context(), accountID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "account not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load account failed"})
	}

	role := ""
	if len(account.Roles) > 0 {
		role = string(account.Roles[0])
	}
	firstLetter := ""
	// Rune-wise: a byte slice would split multibyte nicknames.
	if nick := []rune(strings.ToUpper(account.UserNickName)); len(nick) > 0 {
		firstLetter = string(nick[0])
	}
	return c.JSON(http.StatusOK, profileResp{
		AccountID:    account.ID,
		UserNickName: account.UserNickName,
		AccountRole:  role,
		FirstLetter:  firstLetter,
	})
}

// Dropout removes the authorized account. Token revocation happens
// inside the service call, so the token used for this request stops
// resolving as soon as the response is written.
func (h *AccountHandler) Dropout(c echo.Context) error {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	if err := h.Accounts.RemoveAccount(c.Request().Context(), accountID); err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "account not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "remove account failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "deleted"})
}
