// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"accounts/config"
	deliverycontext "accounts/internal/delivery/context"
	"accounts/internal/domain/entity"
	domainerrors "accounts/internal/domain/errors"
	"accounts/internal/domain/repository"
	"accounts/internal/domain/service"
	"accounts/internal/errors"
	"accounts/internal/usecase"

	"go.uber.org/fx"
)

const (
	defaultStoreTimeout = 5 * time.Second

	// maxPasswordBytes is the longest password bcrypt can hash.
	maxPasswordBytes = 72

	// dummyPassword is hashed once so unknown-email sign-ins spend the same bcrypt time as
	// wrong-password sign-ins.
	dummyPassword = "account-does-not-exist"
)

// accountService implements the AccountUsecase interface.
type accountService struct {
	accountRepo  repository.AccountRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	publisher    service.EventPublisher
	metrics      service.Metrics
	storeTimeout time.Duration
	logger       *slog.Logger

	dummyHashOnce sync.Once
	dummyHash     string
}

// AccountServiceParams holds dependencies for AccountService, injected by Fx.
type AccountServiceParams struct {
	fx.In

	AccountRepo  repository.AccountRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Publisher    service.EventPublisher `optional:"true"`
	Metrics      service.Metrics        `optional:"true"`
	Config       *config.Config
	Logger       *slog.Logger
}

// NewAccountService is the constructor for accountService. It receives all dependencies as interfaces.
func NewAccountService(params AccountServiceParams) usecase.AccountUsecase {
	storeTimeout := defaultStoreTimeout
	if params.Config != nil && params.Config.Store.Timeout > 0 {
		storeTimeout = params.Config.Store.Timeout
	}

	metrics := params.Metrics
	if metrics == nil {
		metrics = noopMetrics{}
	}

	return &accountService{
		accountRepo:  params.AccountRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		publisher:    params.Publisher,
		metrics:      metrics,
		storeTimeout: storeTimeout,
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *accountService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register creates an account for a new email. The lookup is only an early exit; the store's
// unique email constraint decides concurrent registrations.
func (srv *accountService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	email := entity.NormalizeEmail(input.Email)
	log := srv.log(ctx).With(slog.String("email", email))
	log.Info("Received sign-up request")

	if email == "" || input.Password == "" {
		srv.metrics.RecordRegistration(service.OutcomeInvalidInput)

		return nil, domainerrors.ErrInvalidInput.WrapMessage("register")
	}
	if len(input.Password) > maxPasswordBytes {
		srv.metrics.RecordRegistration(service.OutcomeInvalidInput)

		return nil, domainerrors.ErrPasswordTooLong.WrapMessage("register")
	}

	_, err := srv.findByEmail(ctx, email)
	switch {
	case err == nil:
		log.Info("Account already exists")
		srv.metrics.RecordRegistration(service.OutcomeDuplicate)

		return nil, domainerrors.ErrDuplicateAccount.WrapMessage("register")
	case !errors.Is(err, repository.ErrAccountNotFound):
		log.Error("Failed to look up account during sign-up", slog.Any("error", err))
		srv.metrics.RecordRegistration(service.OutcomeError)

		return nil, errors.Wrap(err, "register")
	}

	hash, err := srv.hasher.Hash(input.Password)
	if err != nil {
		log.Error("Failed to hash password during sign-up", slog.Any("error", err))
		srv.metrics.RecordRegistration(service.OutcomeError)

		return nil, domainerrors.ErrPasswordHashFailed.WithCause(err, "register")
	}

	account := &entity.Account{
		Email:        email,
		PasswordHash: hash,
	}

	if err := srv.create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			log.Info("Account already exists", slog.Bool("concurrentInsert", true))
			srv.metrics.RecordRegistration(service.OutcomeDuplicate)

			return nil, domainerrors.ErrDuplicateAccount.WrapMessage("register")
		}

		log.Error("Failed to create account", slog.Any("error", err))
		srv.metrics.RecordRegistration(service.OutcomeError)

		return nil, errors.Wrap(err, "register")
	}

	log.Info("Account created", slog.String("accountID", account.ID))
	srv.metrics.RecordRegistration(service.OutcomeSuccess)
	srv.publishRegistered(ctx, account)

	return &usecase.RegisterOutput{Account: account}, nil
}

// Authenticate verifies the credentials and issues a token. An unknown email and a wrong
// password produce the same error.
func (srv *accountService) Authenticate(ctx context.Context, input *usecase.AuthenticateInput) (*usecase.AuthenticateOutput, error) {
	email := entity.NormalizeEmail(input.Email)
	log := srv.log(ctx).With(slog.String("email", email))
	log.Info("Received sign-in request")

	if email == "" || input.Password == "" {
		srv.metrics.RecordAuthentication(service.OutcomeInvalidInput)

		return nil, domainerrors.ErrInvalidInput.WrapMessage("authenticate")
	}

	account, err := srv.findByEmail(ctx, email)
	if errors.Is(err, repository.ErrAccountNotFound) {
		srv.hasher.Check(input.Password, srv.getDummyHash())
		log.Info("Account not found for email")
		srv.metrics.RecordAuthentication(service.OutcomeInvalidCredentials)

		return nil, domainerrors.ErrInvalidCredentials.WrapMessage("authenticate")
	}
	if err != nil {
		log.Error("Failed to look up account during sign-in", slog.Any("error", err))
		srv.metrics.RecordAuthentication(service.OutcomeError)

		return nil, errors.Wrap(err, "authenticate")
	}

	// Passwords longer than bcrypt reads would match any stored hash of their prefix.
	if len(input.Password) > maxPasswordBytes || !srv.hasher.Check(input.Password, account.PasswordHash) {
		log.Info("Password mismatch for email")
		srv.metrics.RecordAuthentication(service.OutcomeInvalidCredentials)

		return nil, domainerrors.ErrInvalidCredentials.WrapMessage("authenticate")
	}

	token, err := srv.tokenService.Issue(account.ID)
	if err != nil {
		log.Error("Failed to issue token", slog.Any("error", err))
		srv.metrics.RecordAuthentication(service.OutcomeError)

		if errors.Is(err, domainerrors.ErrSigningKeyMissing) {
			return nil, errors.Wrap(err, "authenticate")
		}

		return nil, domainerrors.ErrInternal.WithCause(err, "issue token")
	}

	log.Info("Account signed in", slog.String("accountID", account.ID))
	srv.metrics.RecordAuthentication(service.OutcomeSuccess)

	return &usecase.AuthenticateOutput{
		Token:     token,
		AccountID: account.ID,
	}, nil
}

// GetAccount loads the account behind a verified token.
func (srv *accountService) GetAccount(ctx context.Context, accountID string) (*entity.Account, error) {
	var account *entity.Account
	err := srv.storeCall(ctx, "find_by_id", func(ctx context.Context) error {
		var err error
		account, err = srv.accountRepo.FindByID(ctx, accountID)

		return err
	})
	if errors.Is(err, repository.ErrAccountNotFound) {
		return nil, domainerrors.ErrUnauthorized.WrapMessage("account no longer exists")
	}
	if err != nil {
		return nil, errors.Wrap(err, "get account")
	}

	return account, nil
}

func (srv *accountService) findByEmail(ctx context.Context, email string) (*entity.Account, error) {
	var account *entity.Account
	err := srv.storeCall(ctx, "find_by_email", func(ctx context.Context) error {
		var err error
		account, err = srv.accountRepo.FindByEmail(ctx, email)

		return err
	})

	return account, err
}

func (srv *accountService) create(ctx context.Context, account *entity.Account) error {
	return srv.storeCall(ctx, "create", func(ctx context.Context) error {
		return srv.accountRepo.Create(ctx, account)
	})
}

// storeCall bounds fn by the store timeout. Errors other than not-found and duplicate,
// timeouts included, become ErrStoreUnavailable with the original cause attached.
func (srv *accountService) storeCall(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, srv.storeTimeout)
	defer cancel()

	start := time.Now()
	err := fn(ctx)
	srv.metrics.ObserveStoreCall(operation, time.Since(start))

	if err == nil || errors.IsAny(err, repository.ErrAccountNotFound, repository.ErrDuplicateEmail) {
		return err
	}

	return domainerrors.ErrStoreUnavailable.WithCause(err, operation)
}

func (srv *accountService) publishRegistered(ctx context.Context, account *entity.Account) {
	if srv.publisher == nil {
		return
	}

	event := &service.AccountRegisteredEvent{
		RequestID:  deliverycontext.GetRequestIDFromContext(ctx),
		AccountID:  account.ID,
		Email:      account.Email,
		OccurredAt: account.CreatedAt,
	}
	if err := srv.publisher.PublishAccountRegistered(ctx, event); err != nil {
		srv.log(ctx).Warn("Failed to publish account registered event",
			slog.String("accountID", account.ID),
			slog.Any("error", err),
		)
	}
}

func (srv *accountService) getDummyHash() string {
	srv.dummyHashOnce.Do(func() {
		hash, err := srv.hasher.Hash(dummyPassword)
		if err != nil {
			srv.logger.Warn("Failed to prepare dummy password hash", slog.Any("error", err))

			return
		}
		srv.dummyHash = hash
	})

	return srv.dummyHash
}

type noopMetrics struct{}

func (noopMetrics) RecordRegistration(string) {}

func (noopMetrics) RecordAuthentication(string) {}

func (noopMetrics) ObserveStoreCall(string, time.Duration) {}
