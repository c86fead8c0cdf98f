// Package persistence selects the account store backend configured by store.driver.
package persistence

import (
	"log/slog"

	"accounts/config"
	"accounts/internal/domain/repository"
	"accounts/internal/errors"
	"accounts/internal/infra/persistence/memory"
	"accounts/internal/infra/persistence/mongo"
	"accounts/internal/infra/persistence/postgres"

	"go.uber.org/fx"
)

// StoreParams holds dependencies for the account store, injected by Fx.
type StoreParams struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// NewAccountRepository builds the configured backend and registers its lifecycle hooks.
func NewAccountRepository(params StoreParams) (repository.AccountRepository, error) {
	driver := params.Config.Store.Driver
	params.Logger.Info("Using account store", slog.String("driver", driver))

	switch driver {
	case config.StoreDriverMongo:
		db, err := mongo.New(mongo.Params{
			Lifecycle: params.Lifecycle,
			Config:    params.Config,
			Logger:    params.Logger,
		})
		if err != nil {
			return nil, err
		}

		return mongo.NewAccountRepository(db), nil

	case config.StoreDriverPostgres:
		db, err := postgres.New(postgres.Params{
			Lifecycle: params.Lifecycle,
			Config:    params.Config,
			Logger:    params.Logger,
		})
		if err != nil {
			return nil, err
		}

		return postgres.NewAccountRepository(db), nil

	case config.StoreDriverMemory:
		params.Logger.Warn("Memory account store is not durable")

		return memory.NewAccountRepository(), nil

	default:
		return nil, errors.Errorf("unknown store driver: %s", driver)
	}
}

// Module provides the account store FX module
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(NewAccountRepository),
)
