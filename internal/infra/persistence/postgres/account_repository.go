package postgres

import (
	"context"
	"time"

	"accounts/internal/domain/entity"
	"accounts/internal/domain/repository"
	"accounts/internal/errors"
	"accounts/internal/infra/persistence/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// accountRepository implements repository.AccountRepository using GORM.
type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository is the constructor for accountRepository.
func NewAccountRepository(db *gorm.DB) repository.AccountRepository {
	return &accountRepository{db: db}
}

func (repo *accountRepository) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	var accountM model.AccountModel
	if err := repo.db.WithContext(ctx).Where("email = ?", email).First(&accountM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAccountNotFound
		}

		return nil, errors.Wrap(err, "failed to find account by email")
	}

	return toAccountDomain(&accountM), nil
}

func (repo *accountRepository) FindByID(ctx context.Context, id string) (*entity.Account, error) {
	accountID, err := uuid.Parse(id)
	if err != nil {
		return nil, repository.ErrAccountNotFound
	}

	var accountM model.AccountModel
	if err := repo.db.WithContext(ctx).Where("id = ?", accountID).First(&accountM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAccountNotFound
		}

		return nil, errors.Wrap(err, "failed to find account by id")
	}

	return toAccountDomain(&accountM), nil
}

// Create inserts the account; the users_email_key unique index rejects duplicates.
func (repo *accountRepository) Create(ctx context.Context, account *entity.Account) error {
	accountID, err := uuid.NewV7()
	if err != nil {
		return errors.Wrap(err, "failed to generate account id")
	}

	accountM := &model.AccountModel{
		ID:        accountID,
		Email:     account.Email,
		Password:  account.PasswordHash,
		CreatedAt: time.Now().UTC(),
	}

	if err := repo.db.WithContext(ctx).Create(accountM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return errors.Wrap(repository.ErrDuplicateEmail, err.Error())
		}

		return errors.Wrap(err, "failed to create account")
	}

	account.ID = accountM.ID.String()
	account.CreatedAt = accountM.CreatedAt

	return nil
}

func toAccountDomain(accountM *model.AccountModel) *entity.Account {
	return &entity.Account{
		ID:           accountM.ID.String(),
		Email:        accountM.Email,
		PasswordHash: accountM.Password,
		CreatedAt:    accountM.CreatedAt,
	}
}
