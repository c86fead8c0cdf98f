// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"
	"strings"

	deliverycontext "accounts/internal/delivery/context"
	"accounts/internal/delivery/http/response"
	"accounts/internal/delivery/http/validator"
	domainerrors "accounts/internal/domain/errors"
	"accounts/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// CredentialsRequest is the body of both sign-up and sign-in.
type CredentialsRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AccountHandler holds dependencies for account-related handlers.
type AccountHandler struct {
	uc     usecase.AccountUsecase
	logger *slog.Logger
}

// NewAccountHandler is the constructor for AccountHandler, injected by Fx.
func NewAccountHandler(uc usecase.AccountUsecase, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		uc:     uc,
		logger: logger,
	}
}

// SignUp handles POST /api/users/signup.
func (h *AccountHandler) SignUp(c echo.Context) error {
	req, err := h.bindCredentials(c)
	if err != nil {
		return err
	}

	if _, err := h.uc.Register(c.Request().Context(), &usecase.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
	}); err != nil {
		return errors.WithStack(err)
	}

	return response.Created(c, "User created successfully")
}

// SignIn handles POST /api/users/signin.
func (h *AccountHandler) SignIn(c echo.Context) error {
	req, err := h.bindCredentials(c)
	if err != nil {
		return err
	}

	output, err := h.uc.Authenticate(c.Request().Context(), &usecase.AuthenticateInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Token(c, output.Token)
}

// Me returns the account behind the bearer token. Requires the auth middleware.
func (h *AccountHandler) Me(c echo.Context) error {
	accountID, ok := deliverycontext.GetAccountID(c)
	if !ok {
		return domainerrors.ErrUnauthorized.WrapMessage("no account in context")
	}

	account, err := h.uc.GetAccount(c.Request().Context(), accountID)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.JSON(http.StatusOK, response.AccountResponse{
		ID:    account.ID,
		Email: account.Email,
	})
}

func (h *AccountHandler) bindCredentials(c echo.Context) (*CredentialsRequest, error) {
	var req CredentialsRequest
	if err := c.Bind(&req); err != nil {
		deliverycontext.GetLoggerOrDefault(c.Request().Context(), h.logger).
			Info("Malformed credentials body", slog.String("error", err.Error()))

		return nil, domainerrors.ErrInvalidInput.WrapMessage("bind credentials")
	}

	if err := c.Validate(&req); err != nil {
		return nil, domainerrors.ErrInvalidInput.WrapMessage(
			"missing " + strings.Join(validator.Fields(err), ","))
	}

	return &req, nil
}
