package usecase

import (
	"context"
	"io"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/vasapolrittideah/account-api/services/account-service/internal/model"
	"github.com/vasapolrittideah/account-api/services/account-service/internal/repository"
)

// fakeAccountRepository is an in-memory AccountRepository that enforces the
// same unique email and phone constraint as the Mongo indexes.
type fakeAccountRepository struct {
	accounts map[bson.ObjectID]*model.Account
	order    []bson.ObjectID
	calls    int
	err      error
}

func newFakeAccountRepository() *fakeAccountRepository {
	return &fakeAccountRepository{accounts: map[bson.ObjectID]*model.Account{}}
}

func (r *fakeAccountRepository) conflicts(id bson.ObjectID, account *model.Account) bool {
	for otherID, other := range r.accounts {
		if otherID == id {
			continue
		}
		if other.Email == account.Email || other.PhoneNumber == account.PhoneNumber {
			return true
		}
	}
	return false
}

func (r *fakeAccountRepository) CreateAccount(_ context.Context, account *model.Account) (*model.Account, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	if r.conflicts(bson.NilObjectID, account) {
		return nil, repository.ErrDuplicateAccount
	}

	account.ID = bson.NewObjectID()
	stored := *account
	r.accounts[account.ID] = &stored
	r.order = append(r.order, account.ID)
	return account, nil
}

func (r *fakeAccountRepository) GetAccount(_ context.Context, id string) (*model.Account, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrAccountNotFound
	}
	account, ok := r.accounts[objectID]
	if !ok {
		return nil, repository.ErrAccountNotFound
	}
	found := *account
	return &found, nil
}

func (r *fakeAccountRepository) GetAccountByEmail(_ context.Context, email string) (*model.Account, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	for _, id := range r.order {
		if account := r.accounts[id]; account != nil && account.Email == email {
			found := *account
			return &found, nil
		}
	}
	return nil, repository.ErrAccountNotFound
}

func (r *fakeAccountRepository) GetAccountByEmailOrPhone(
	_ context.Context,
	email string,
	phoneNumber string,
) (*model.Account, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	for _, id := range r.order {
		account := r.accounts[id]
		if account != nil && (account.Email == email || account.PhoneNumber == phoneNumber) {
			found := *account
			return &found, nil
		}
	}
	return nil, repository.ErrAccountNotFound
}

func (r *fakeAccountRepository) ListAccounts(_ context.Context) ([]*model.Account, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	accounts := []*model.Account{}
	for _, id := range r.order {
		if account := r.accounts[id]; account != nil {
			found := *account
			accounts = append(accounts, &found)
		}
	}
	return accounts, nil
}

func (r *fakeAccountRepository) ReplaceAccount(_ context.Context, id string, account *model.Account) (bool, error) {
	r.calls++
	if r.err != nil {
		return false, r.err
	}
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}
	if _, ok := r.accounts[objectID]; !ok {
		return false, nil
	}
	if r.conflicts(objectID, account) {
		return false, repository.ErrDuplicateAccount
	}

	stored := *account
	stored.ID = objectID
	r.accounts[objectID] = &stored
	return true, nil
}

func (r *fakeAccountRepository) DeleteAccount(_ context.Context, id string) (bool, error) {
	r.calls++
	if r.err != nil {
		return false, r.err
	}
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}
	if _, ok := r.accounts[objectID]; !ok {
		return false, nil
	}
	delete(r.accounts, objectID)
	return true, nil
}

type fakeNotifier struct {
	notified []string
	err      error
}

func (n *fakeNotifier) NotifyRegistered(_ context.Context, account *model.Account) error {
	n.notified = append(n.notified, account.Email)
	return n.err
}

func nopLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}
