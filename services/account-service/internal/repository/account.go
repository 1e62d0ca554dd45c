package repository

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/vasapolrittideah/account-api/services/account-service/internal/model"
)

// AccountRepository defines the interface for account-related database operations.
type AccountRepository interface {
	CreateAccount(ctx context.Context, account *model.Account) (*model.Account, error)
	GetAccount(ctx context.Context, id string) (*model.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*model.Account, error)
	GetAccountByEmailOrPhone(ctx context.Context, email, phoneNumber string) (*model.Account, error)
	ListAccounts(ctx context.Context) ([]*model.Account, error)
	ReplaceAccount(ctx context.Context, id string, account *model.Account) (bool, error)
	DeleteAccount(ctx context.Context, id string) (bool, error)
}

var (
	// ErrAccountNotFound is returned when no account matches, including when
	// the id is not a valid ObjectID.
	ErrAccountNotFound = errors.New("account not found")

	// ErrDuplicateAccount is returned when a write violates the unique email or
	// phone number index.
	ErrDuplicateAccount = errors.New("duplicate account")
)

const accountCollection = "users"

type accountMongoRepository struct {
	db     *mongo.Database
	logger *zerolog.Logger
}

// NewAccountMongoRepository creates the repository and ensures the unique indexes
// that back the email and phone number invariant.
func NewAccountMongoRepository(ctx context.Context, logger *zerolog.Logger, db *mongo.Database) AccountRepository {
	collection := db.Collection(accountCollection)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "phone_number", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create account indexes")
	}

	return &accountMongoRepository{db: db, logger: logger}
}

func (r *accountMongoRepository) CreateAccount(ctx context.Context, account *model.Account) (*model.Account, error) {
	now := time.Now()
	account.CreatedAt = now
	account.UpdatedAt = now

	result, err := r.db.Collection(accountCollection).InsertOne(ctx, account)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateAccount
		}

		return nil, err
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		account.ID = objectID
	} else {
		return nil, errors.New("failed to convert inserted ID to ObjectID")
	}

	return account, nil
}

func (r *accountMongoRepository) GetAccount(ctx context.Context, id string) (*model.Account, error) {
	objectID, ok := r.parseID(id)
	if !ok {
		return nil, ErrAccountNotFound
	}

	return r.findOne(ctx, bson.M{"_id": objectID})
}

func (r *accountMongoRepository) GetAccountByEmail(ctx context.Context, email string) (*model.Account, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *accountMongoRepository) GetAccountByEmailOrPhone(
	ctx context.Context,
	email string,
	phoneNumber string,
) (*model.Account, error) {
	return r.findOne(ctx, bson.M{
		"$or": bson.A{
			bson.M{"email": email},
			bson.M{"phone_number": phoneNumber},
		},
	})
}

func (r *accountMongoRepository) ListAccounts(ctx context.Context) ([]*model.Account, error) {
	cursor, err := r.db.Collection(accountCollection).Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	accounts := []*model.Account{}
	for cursor.Next(ctx) {
		var account model.Account
		if err := cursor.Decode(&account); err != nil {
			return nil, err
		}
		accounts = append(accounts, &account)
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return accounts, nil
}

// ReplaceAccount replaces every field but the id and the creation time.
// It reports false when nothing was modified.
func (r *accountMongoRepository) ReplaceAccount(
	ctx context.Context,
	id string,
	account *model.Account,
) (bool, error) {
	objectID, ok := r.parseID(id)
	if !ok {
		return false, nil
	}

	account.ID = objectID
	account.UpdatedAt = time.Now()

	result, err := r.db.Collection(accountCollection).ReplaceOne(ctx, bson.M{"_id": objectID}, account)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, ErrDuplicateAccount
		}

		return false, err
	}

	return result.ModifiedCount > 0, nil
}

func (r *accountMongoRepository) DeleteAccount(ctx context.Context, id string) (bool, error) {
	objectID, ok := r.parseID(id)
	if !ok {
		return false, nil
	}

	result, err := r.db.Collection(accountCollection).DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return false, err
	}

	return result.DeletedCount > 0, nil
}

// parseID converts id to an ObjectID. Malformed ids are logged and treated as
// not found by the callers.
func (r *accountMongoRepository) parseID(id string) (bson.ObjectID, bool) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		r.logger.Warn().Str("account_id", id).Msg("malformed account id")
		return bson.NilObjectID, false
	}

	return objectID, true
}

func (r *accountMongoRepository) findOne(ctx context.Context, filter bson.M) (*model.Account, error) {
	result := r.db.Collection(accountCollection).FindOne(ctx, filter)
	if result.Err() != nil {
		if errors.Is(result.Err(), mongo.ErrNoDocuments) {
			return nil, ErrAccountNotFound
		}

		return nil, result.Err()
	}

	var account model.Account
	if err := result.Decode(&account); err != nil {
		return nil, err
	}

	return &account, nil
}
