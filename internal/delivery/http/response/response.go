// Package response renders the service's JSON bodies: {"message": ...} or {"token": ...}.
package response

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// MessageResponse is the body of every non-token response.
type MessageResponse struct {
	Message string `json:"message"`
}

// TokenResponse is the body of a successful sign-in.
type TokenResponse struct {
	Token string `json:"token"`
}

// AccountResponse describes the authenticated account. The password hash is never included.
type AccountResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Message writes {"message": message} with statusCode.
func Message(c echo.Context, statusCode int, message string) error {
	if message == "" {
		message = http.StatusText(statusCode)
	}

	return c.JSON(statusCode, MessageResponse{Message: message})
}

// Created 201 response
func Created(c echo.Context, message string) error {
	return Message(c, http.StatusCreated, message)
}

// Token 200 response carrying a bearer token
func Token(c echo.Context, token string) error {
	return c.JSON(http.StatusOK, TokenResponse{Token: token})
}

// Error error response. Only the user-facing message is written; codes and causes stay in logs.
func Error(c echo.Context, statusCode int, message string) error {
	return Message(c, statusCode, message)
}

// InternalServerError 500 error
func InternalServerError(c echo.Context) error {
	return Message(c, http.StatusInternalServerError, "Server error")
}
