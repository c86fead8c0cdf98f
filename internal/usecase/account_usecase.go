// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"accounts/internal/domain/entity"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new account.
type RegisterInput struct {
	Email    string
	Password string
}

// AuthenticateInput defines the data required to sign in.
type AuthenticateInput struct {
	Email    string
	Password string
}

// --- Output DTOs ---

// RegisterOutput returns the newly created account.
type RegisterOutput struct {
	Account *entity.Account
}

// AuthenticateOutput returns the bearer token issued for the account.
type AuthenticateOutput struct {
	Token     string
	AccountID string
}

// AccountUsecase defines the credential operations the delivery layer depends on.
type AccountUsecase interface {
	// Register creates an account. Duplicate emails fail with ErrDuplicateAccount.
	Register(ctx context.Context, input *RegisterInput) (*RegisterOutput, error)

	// Authenticate verifies credentials and issues a token. Unknown email and wrong password
	// both fail with ErrInvalidCredentials.
	Authenticate(ctx context.Context, input *AuthenticateInput) (*AuthenticateOutput, error)

	// GetAccount loads the account a verified token refers to.
	GetAccount(ctx context.Context, accountID string) (*entity.Account, error)
}
