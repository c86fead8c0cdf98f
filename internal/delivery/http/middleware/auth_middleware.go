package middleware

import (
	"strings"

	deliverycontext "accounts/internal/delivery/context"
	domainerrors "accounts/internal/domain/errors"
	"accounts/internal/domain/service"

	"github.com/labstack/echo/v4"
)

const bearerPrefix = "Bearer "

// AuthMiddleware verifies bearer tokens issued at sign-in.
type AuthMiddleware struct {
	tokenSvc service.TokenService
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc}
}

// Authenticate rejects requests without a valid, unexpired token and exposes the account id
// to handlers through deliverycontext.GetAccountID.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if len(authHeader) <= len(bearerPrefix) || !strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
			return domainerrors.ErrUnauthorized.WrapMessage("missing bearer token")
		}

		claims, err := m.tokenSvc.Verify(strings.TrimSpace(authHeader[len(bearerPrefix):]))
		if err != nil {
			return domainerrors.ErrUnauthorized.WrapMessage(err.Error())
		}

		deliverycontext.SetAccountID(c, claims.AccountID)

		return next(c)
	}
}
