package impl

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"accounts/config"
	"accounts/internal/domain/entity"
	"accounts/internal/domain/repository"
	"accounts/internal/domain/service"
	"accounts/internal/errors"
	"accounts/internal/infra/auth"
	"accounts/internal/infra/persistence/memory"
	"accounts/internal/usecase"
)

const testSecret = "test-signing-secret"

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig(storeTimeout time.Duration) *config.Config {
	cfg := &config.Config{}
	cfg.Store.Timeout = storeTimeout

	return cfg
}

// fakePublisher records published events.
type fakePublisher struct {
	mu     sync.Mutex
	events []*service.AccountRegisteredEvent
	err    error
}

func (p *fakePublisher) PublishAccountRegistered(_ context.Context, event *service.AccountRegisteredEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.events = append(p.events, event)

	return p.err
}

func (p *fakePublisher) Close() error { return nil }

func (p *fakePublisher) Events() []*service.AccountRegisteredEvent {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]*service.AccountRegisteredEvent(nil), p.events...)
}

// fakeMetrics counts outcomes per operation.
type fakeMetrics struct {
	mu             sync.Mutex
	registrations  map[string]int
	authentication map[string]int
	storeCalls     map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{
		registrations:  make(map[string]int),
		authentication: make(map[string]int),
		storeCalls:     make(map[string]int),
	}
}

func (m *fakeMetrics) RecordRegistration(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registrations[outcome]++
}

func (m *fakeMetrics) RecordAuthentication(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.authentication[outcome]++
}

func (m *fakeMetrics) ObserveStoreCall(operation string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.storeCalls[operation]++
}

func (m *fakeMetrics) Registrations(outcome string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.registrations[outcome]
}

func (m *fakeMetrics) Authentications(outcome string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.authentication[outcome]
}

// blockingRepository never answers until its context is done.
type blockingRepository struct{}

func (blockingRepository) FindByEmail(ctx context.Context, _ string) (*entity.Account, error) {
	<-ctx.Done()

	return nil, errors.WithStack(ctx.Err())
}

func (blockingRepository) FindByID(ctx context.Context, _ string) (*entity.Account, error) {
	<-ctx.Done()

	return nil, errors.WithStack(ctx.Err())
}

func (blockingRepository) Create(ctx context.Context, _ *entity.Account) error {
	<-ctx.Done()

	return errors.WithStack(ctx.Err())
}

// failingRepository fails every call with err.
type failingRepository struct {
	err error
}

func (r failingRepository) FindByEmail(context.Context, string) (*entity.Account, error) {
	return nil, r.err
}

func (r failingRepository) FindByID(context.Context, string) (*entity.Account, error) {
	return nil, r.err
}

func (r failingRepository) Create(context.Context, *entity.Account) error {
	return r.err
}

// failingTokenService never issues a token.
type failingTokenService struct {
	err error
}

func (s failingTokenService) Issue(string) (string, error) { return "", s.err }

func (s failingTokenService) Verify(string) (*service.Claims, error) { return nil, s.err }

// accountServiceFixtures holds the real collaborators behind a test service.
type accountServiceFixtures struct {
	service   usecase.AccountUsecase
	repo      repository.AccountRepository
	hasher    service.PasswordHasher
	tokens    service.TokenService
	publisher *fakePublisher
	metrics   *fakeMetrics
}

func mustTokenService() service.TokenService {
	tokens, err := auth.NewJWTServiceWithOptions(testSecret, time.Hour, "")
	if err != nil {
		panic(err)
	}

	return tokens
}

// createTestAccountService wires an in-memory store with a cheap bcrypt cost.
func createTestAccountService() accountServiceFixtures {
	return createTestAccountServiceWith(memory.NewAccountRepository(), mustTokenService(), time.Second)
}

func createTestAccountServiceWith(
	repo repository.AccountRepository,
	tokens service.TokenService,
	storeTimeout time.Duration,
) accountServiceFixtures {
	publisher := &fakePublisher{}
	metrics := newFakeMetrics()
	hasher := auth.NewBcryptHasherWithCost(4)

	svc := NewAccountService(AccountServiceParams{
		AccountRepo:  repo,
		Hasher:       hasher,
		TokenService: tokens,
		Publisher:    publisher,
		Metrics:      metrics,
		Config:       newTestConfig(storeTimeout),
		Logger:       newDiscardLogger(),
	})

	return accountServiceFixtures{
		service:   svc,
		repo:      repo,
		hasher:    hasher,
		tokens:    tokens,
		publisher: publisher,
		metrics:   metrics,
	}
}

func longPassword(n int) string {
	return strings.Repeat("p", n)
}
