// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"accounts/internal/domain/entity"
)

var (
	// ErrAccountNotFound is returned when no account matches the lookup key.
	ErrAccountNotFound = errors.New("account not found")

	// ErrDuplicateEmail is returned by Create when the store's unique email constraint rejects the insert.
	ErrDuplicateEmail = errors.New("account email already exists")
)

// AccountRepository is the account store contract. Implementations must enforce email
// uniqueness themselves; callers never rely on a prior lookup for that guarantee.
type AccountRepository interface {
	// FindByEmail retrieves an account by its normalized email.
	FindByEmail(ctx context.Context, email string) (*entity.Account, error)

	// FindByID retrieves an account by the identifier the store assigned to it.
	FindByID(ctx context.Context, id string) (*entity.Account, error)

	// Create persists a new account and fills in its ID and CreatedAt.
	Create(ctx context.Context, account *entity.Account) error
}
