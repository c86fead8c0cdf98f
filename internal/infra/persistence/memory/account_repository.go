// Package memory provides an in-process account store for local runs and tests.
package memory

import (
	"context"
	"sync"
	"time"

	"accounts/internal/domain/entity"
	"accounts/internal/domain/repository"
	"accounts/internal/errors"

	"github.com/google/uuid"
)

type accountRepository struct {
	mu      sync.RWMutex
	byID    map[string]*entity.Account
	byEmail map[string]string
	now     func() time.Time
}

// NewAccountRepository returns an empty store that enforces email uniqueness under its lock.
func NewAccountRepository() repository.AccountRepository {
	return &accountRepository{
		byID:    make(map[string]*entity.Account),
		byEmail: make(map[string]string),
		now:     time.Now,
	}
}

func (r *accountRepository) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.WithStack(err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, repository.ErrAccountNotFound
	}

	return cloneAccount(r.byID[id]), nil
}

func (r *accountRepository) FindByID(ctx context.Context, id string) (*entity.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.WithStack(err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrAccountNotFound
	}

	return cloneAccount(account), nil
}

func (r *accountRepository) Create(ctx context.Context, account *entity.Account) error {
	if err := ctx.Err(); err != nil {
		return errors.WithStack(err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[account.Email]; exists {
		return errors.Wrapf(repository.ErrDuplicateEmail, "email %s", account.Email)
	}

	account.ID = uuid.NewString()
	account.CreatedAt = r.now().UTC()

	r.byID[account.ID] = cloneAccount(account)
	r.byEmail[account.Email] = account.ID

	return nil
}

func cloneAccount(account *entity.Account) *entity.Account {
	clone := *account

	return &clone
}
