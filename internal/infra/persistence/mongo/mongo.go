// Package mongo contains the MongoDB implementation of the account store.
package mongo

import (
	"context"
	"log/slog"

	"accounts/config"
	"accounts/internal/domain/lifecycle"
	"accounts/internal/errors"
	"accounts/internal/infra/persistence/model"

	"go.mongodb.org/mongo-driver/v2/bson"
	mongoLib "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"go.uber.org/fx"
)

// EmailIndexName names the unique index on users.email.
const EmailIndexName = "email_unique"

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// New connects a MongoDB client and returns the configured database. Connectivity and the
// unique email index are checked on start so a broken store stops the process.
func New(params Params) (*mongoLib.Database, error) {
	cfg := params.Config.Mongo
	if cfg == nil || cfg.URI == "" {
		return nil, errors.New("mongo uri must be provided")
	}

	client, err := mongoLib.Connect(options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create MongoDB client")
	}

	db := client.Database(cfg.Database)

	params.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
			defer cancel()

			if err := client.Ping(ctx, readpref.Primary()); err != nil {
				return errors.Wrap(err, "failed to ping MongoDB")
			}

			if err := EnsureIndexes(ctx, db); err != nil {
				return err
			}

			params.Logger.Info("MongoDB connected", slog.String("database", cfg.Database))

			return nil
		},
		OnStop: func(ctx context.Context) error {
			return errors.WithStack(client.Disconnect(ctx))
		},
	})

	return db, nil
}

// EnsureIndexes creates the unique email index if it does not exist yet.
func EnsureIndexes(ctx context.Context, db *mongoLib.Database) error {
	_, err := db.Collection(model.AccountCollection).Indexes().CreateOne(ctx, mongoLib.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName(EmailIndexName),
	})
	if err != nil {
		return errors.Wrap(err, "failed to create unique email index")
	}

	return nil
}
