package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/vasapolrittideah/account-api/services/account-service/internal/model"
	"github.com/vasapolrittideah/account-api/services/account-service/internal/repository"
	"github.com/vasapolrittideah/account-api/shared/security"
)

func newTestAccountUsecase(t *testing.T, repo *fakeAccountRepository, notifier WelcomeNotifier) AccountUsecase {
	t.Helper()

	u, err := NewAccountUsecase(repo, newTestCredentialValidator(t), notifier, nopLogger())
	require.NoError(t, err)
	return u
}

var ana = RegisterParams{
	Name:        "Ana",
	Email:       "a@x.com",
	Password:    "secret1",
	PhoneNumber: "+551199999999",
}

func TestAccountUsecase_Scenario(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAccountRepository()
	u := newTestAccountUsecase(t, repo, nil)

	id, err := u.Register(ctx, ana)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	duplicate := ana
	duplicate.PhoneNumber = "+551188888888"
	_, err = u.Register(ctx, duplicate)
	assert.ErrorIs(t, err, ErrAccountAlreadyExists)

	_, err = u.Authenticate(ctx, "a@x.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	account, err := u.Authenticate(ctx, "a@x.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, id, account.ID.Hex())
	assert.Equal(t, "Ana", account.Name)

	deleted, err := u.DeleteAccount(ctx, id)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = u.GetAccount(ctx, id)
	assert.ErrorIs(t, err, ErrAccountNotFound)

	deleted, err = u.DeleteAccount(ctx, id)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestAccountUsecase_Register_StoresHashNotPassword(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAccountRepository()
	u := newTestAccountUsecase(t, repo, nil)

	id, err := u.Register(ctx, ana)
	require.NoError(t, err)

	stored, err := repo.GetAccount(ctx, id)
	require.NoError(t, err)
	assert.NotEqual(t, ana.Password, stored.PasswordHash)

	ok, err := security.VerifyPassword(ana.Password, stored.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAccountUsecase_Register_ConflictOnEitherField(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAccountRepository()
	u := newTestAccountUsecase(t, repo, nil)

	_, err := u.Register(ctx, ana)
	require.NoError(t, err)

	samePhone := RegisterParams{Name: "Bia", Email: "b@x.com", Password: "another1", PhoneNumber: ana.PhoneNumber}
	_, err = u.Register(ctx, samePhone)
	assert.ErrorIs(t, err, ErrAccountAlreadyExists)

	sameEmail := RegisterParams{Name: "Bia", Email: ana.Email, Password: "another1", PhoneNumber: "+551177777777"}
	_, err = u.Register(ctx, sameEmail)
	assert.ErrorIs(t, err, ErrAccountAlreadyExists)
}

func TestAccountUsecase_Register_ShortPasswordNeverReachesStore(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAccountRepository()
	u := newTestAccountUsecase(t, repo, nil)

	for _, password := range []string{"", "a", "12345"} {
		params := ana
		params.Password = password

		_, err := u.Register(ctx, params)
		assert.ErrorIs(t, err, ErrPasswordTooShort)
	}

	assert.Zero(t, repo.calls)
}

func TestAccountUsecase_Register_DuplicateKeyOnInsert(t *testing.T) {
	ctx := context.Background()
	repo := &racingRepository{fakeAccountRepository: newFakeAccountRepository()}
	u := newTestAccountUsecase(t, repo.fakeAccountRepository, nil)

	_, err := u.Register(ctx, ana)
	require.NoError(t, err)

	// A second registration that slipped past the pre-check is still rejected
	// by the store constraint.
	raced, err := NewAccountUsecase(repo, newTestCredentialValidator(t), nil, nopLogger())
	require.NoError(t, err)

	_, err = raced.Register(ctx, ana)
	assert.ErrorIs(t, err, ErrAccountAlreadyExists)
}

func TestAccountUsecase_Register_NotifiesAndToleratesNotifierFailure(t *testing.T) {
	ctx := context.Background()
	notifier := &fakeNotifier{err: errors.New("smtp down")}
	u := newTestAccountUsecase(t, newFakeAccountRepository(), notifier)

	id, err := u.Register(ctx, ana)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, []string{ana.Email}, notifier.notified)
}

func TestAccountUsecase_StoreFailureIsOpaque(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAccountRepository()
	repo.err = errors.New("connection refused: 10.0.0.5:27017")
	u := newTestAccountUsecase(t, repo, nil)

	_, err := u.Register(ctx, ana)
	assert.ErrorIs(t, err, ErrStoreFailure)
	assert.NotContains(t, err.Error(), "10.0.0.5")

	_, err = u.Authenticate(ctx, ana.Email, ana.Password)
	assert.ErrorIs(t, err, ErrStoreFailure)

	_, err = u.GetAccount(ctx, bson.NewObjectID().Hex())
	assert.ErrorIs(t, err, ErrStoreFailure)

	_, err = u.ListAccounts(ctx)
	assert.ErrorIs(t, err, ErrStoreFailure)

	_, err = u.DeleteAccount(ctx, bson.NewObjectID().Hex())
	assert.ErrorIs(t, err, ErrStoreFailure)
}

func TestAccountUsecase_Authenticate_UnknownEmail(t *testing.T) {
	ctx := context.Background()
	u := newTestAccountUsecase(t, newFakeAccountRepository(), nil)

	_, err := u.Authenticate(ctx, "nobody@x.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAccountUsecase_GetAccount_MalformedID(t *testing.T) {
	ctx := context.Background()
	u := newTestAccountUsecase(t, newFakeAccountRepository(), nil)

	_, err := u.GetAccount(ctx, "not-an-object-id")
	assert.ErrorIs(t, err, ErrAccountNotFound)

	deleted, err := u.DeleteAccount(ctx, "not-an-object-id")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestAccountUsecase_ListAccounts(t *testing.T) {
	ctx := context.Background()
	u := newTestAccountUsecase(t, newFakeAccountRepository(), nil)

	accounts, err := u.ListAccounts(ctx)
	require.NoError(t, err)
	assert.Empty(t, accounts)

	_, err = u.Register(ctx, ana)
	require.NoError(t, err)
	_, err = u.Register(ctx, RegisterParams{Name: "Bia", Email: "b@x.com", Password: "another1", PhoneNumber: "+551177777777"})
	require.NoError(t, err)

	accounts, err = u.ListAccounts(ctx)
	require.NoError(t, err)
	assert.Len(t, accounts, 2)
}

func TestAccountUsecase_UpdateAccount(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAccountRepository()
	u := newTestAccountUsecase(t, repo, nil)

	id, err := u.Register(ctx, ana)
	require.NoError(t, err)

	updated, err := u.UpdateAccount(ctx, id, UpdateAccountParams{
		Name:        "Ana Maria",
		Email:       "ana@x.com",
		Password:    "newsecret",
		PhoneNumber: "+551166666666",
	})
	require.NoError(t, err)
	assert.Equal(t, id, updated.ID.Hex())
	assert.Equal(t, "Ana Maria", updated.Name)

	_, err = u.Authenticate(ctx, "a@x.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	account, err := u.Authenticate(ctx, "ana@x.com", "newsecret")
	require.NoError(t, err)
	assert.Equal(t, id, account.ID.Hex())
	assert.Equal(t, "+551166666666", account.PhoneNumber)
}

func TestAccountUsecase_UpdateAccount_Absent(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAccountRepository()
	u := newTestAccountUsecase(t, repo, nil)

	params := UpdateAccountParams{Name: "Ana", Email: "a@x.com", Password: "secret1", PhoneNumber: "+551199999999"}

	_, err := u.UpdateAccount(ctx, bson.NewObjectID().Hex(), params)
	assert.ErrorIs(t, err, ErrAccountNotFound)

	_, err = u.UpdateAccount(ctx, "malformed", params)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestAccountUsecase_UpdateAccount_Validation(t *testing.T) {
	ctx := context.Background()
	u := newTestAccountUsecase(t, newFakeAccountRepository(), nil)

	id, err := u.Register(ctx, ana)
	require.NoError(t, err)

	_, err = u.UpdateAccount(ctx, id, UpdateAccountParams{Name: "Ana", Email: "a@x.com", Password: "123", PhoneNumber: "+551199999999"})
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestAccountUsecase_UpdateAccount_StoreConstraint(t *testing.T) {
	ctx := context.Background()
	u := newTestAccountUsecase(t, newFakeAccountRepository(), nil)

	_, err := u.Register(ctx, ana)
	require.NoError(t, err)
	bia, err := u.Register(ctx, RegisterParams{Name: "Bia", Email: "b@x.com", Password: "another1", PhoneNumber: "+551177777777"})
	require.NoError(t, err)

	_, err = u.UpdateAccount(ctx, bia, UpdateAccountParams{
		Name:        "Bia",
		Email:       ana.Email,
		Password:    "another1",
		PhoneNumber: "+551177777777",
	})
	assert.ErrorIs(t, err, ErrAccountAlreadyExists)
}

// racingRepository hides existing accounts from the duplicate pre-check, the
// way a concurrent registration would.
type racingRepository struct {
	*fakeAccountRepository
}

func (r *racingRepository) GetAccountByEmailOrPhone(_ context.Context, _, _ string) (*model.Account, error) {
	return nil, repository.ErrAccountNotFound
}
