package persistence

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"accounts/config"
	"accounts/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
)

func newStoreParams(t *testing.T, driver string) StoreParams {
	cfg := &config.Config{}
	cfg.Store.Driver = driver

	return StoreParams{
		Lifecycle: fxtest.NewLifecycle(t),
		Config:    cfg,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestNewAccountRepository_Memory(t *testing.T) {
	repo, err := NewAccountRepository(newStoreParams(t, config.StoreDriverMemory))
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &entity.Account{Email: "a@example.com", PasswordHash: "h"}))

	found, err := repo.FindByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "h", found.PasswordHash)
}

func TestNewAccountRepository_Errors(t *testing.T) {
	tests := []struct {
		name    string
		driver  string
		wantErr string
	}{
		{name: "unknown driver", driver: "cassandra", wantErr: "unknown store driver"},
		{name: "mongo without config", driver: config.StoreDriverMongo, wantErr: "mongo uri must be provided"},
		{name: "postgres without config", driver: config.StoreDriverPostgres, wantErr: "postgres dsn must be provided"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, err := NewAccountRepository(newStoreParams(t, tt.driver))
			require.Error(t, err)
			assert.Nil(t, repo)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
