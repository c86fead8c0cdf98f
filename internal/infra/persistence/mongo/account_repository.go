package mongo

import (
	"context"
	"time"

	"accounts/internal/domain/entity"
	"accounts/internal/domain/repository"
	"accounts/internal/errors"
	"accounts/internal/infra/persistence/model"

	"go.mongodb.org/mongo-driver/v2/bson"
	mongoLib "go.mongodb.org/mongo-driver/v2/mongo"
)

// accountRepository implements repository.AccountRepository on a MongoDB collection.
type accountRepository struct {
	collection *mongoLib.Collection
}

// NewAccountRepository returns the account store backed by db's users collection.
func NewAccountRepository(db *mongoLib.Database) repository.AccountRepository {
	return &accountRepository{
		collection: db.Collection(model.AccountCollection),
	}
}

func (repo *accountRepository) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	return repo.findOne(ctx, bson.D{{Key: "email", Value: email}}, "failed to find account by email")
}

func (repo *accountRepository) FindByID(ctx context.Context, id string) (*entity.Account, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		// Not an id this store could have assigned.
		return nil, repository.ErrAccountNotFound
	}

	return repo.findOne(ctx, bson.D{{Key: "_id", Value: oid}}, "failed to find account by id")
}

// Create inserts the account. The unique email index rejects a concurrent duplicate, which is
// reported as repository.ErrDuplicateEmail.
func (repo *accountRepository) Create(ctx context.Context, account *entity.Account) error {
	doc := toAccountDocument(account)
	doc.ID = bson.NewObjectID()
	doc.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	if _, err := repo.collection.InsertOne(ctx, doc); err != nil {
		if mongoLib.IsDuplicateKeyError(err) {
			return errors.Wrap(repository.ErrDuplicateEmail, err.Error())
		}

		return errors.Wrap(err, "failed to insert account")
	}

	account.ID = doc.ID.Hex()
	account.CreatedAt = doc.CreatedAt

	return nil
}

func (repo *accountRepository) findOne(ctx context.Context, filter bson.D, message string) (*entity.Account, error) {
	var doc model.AccountDocument
	if err := repo.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongoLib.ErrNoDocuments) {
			return nil, repository.ErrAccountNotFound
		}

		return nil, errors.Wrap(err, message)
	}

	return toAccountDomain(&doc), nil
}

func toAccountDocument(account *entity.Account) *model.AccountDocument {
	return &model.AccountDocument{
		Email:    account.Email,
		Password: account.PasswordHash,
	}
}

func toAccountDomain(doc *model.AccountDocument) *entity.Account {
	return &entity.Account{
		ID:           doc.ID.Hex(),
		Email:        doc.Email,
		PasswordHash: doc.Password,
		CreatedAt:    doc.CreatedAt,
	}
}
