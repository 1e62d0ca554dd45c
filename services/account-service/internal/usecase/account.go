package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/account-api/services/account-service/internal/model"
	"github.com/vasapolrittideah/account-api/services/account-service/internal/repository"
	"github.com/vasapolrittideah/account-api/shared/security"
)

// AccountUsecase defines the account lifecycle operations.
// It owns the invariant that email and phone number are unique across accounts.
type AccountUsecase interface {
	// Register validates and stores a new account and returns its id.
	Register(ctx context.Context, params RegisterParams) (string, error)

	// Authenticate returns the account when the password matches, ErrInvalidCredentials otherwise.
	Authenticate(ctx context.Context, email, password string) (*model.Account, error)

	GetAccount(ctx context.Context, id string) (*model.Account, error)
	ListAccounts(ctx context.Context) ([]*model.Account, error)

	// UpdateAccount replaces every mutable field of the account, keeping its id.
	UpdateAccount(ctx context.Context, id string, params UpdateAccountParams) (*model.Account, error)

	// DeleteAccount reports whether an account existed and was removed.
	DeleteAccount(ctx context.Context, id string) (bool, error)
}

// RegisterParams defines the parameters for account registration.
type RegisterParams struct {
	Name        string
	Email       string
	Password    string
	PhoneNumber string
}

// UpdateAccountParams defines the replacement values for an account.
type UpdateAccountParams struct {
	Name        string
	Email       string
	Password    string
	PhoneNumber string
}

// WelcomeNotifier is told about every successful registration.
type WelcomeNotifier interface {
	NotifyRegistered(ctx context.Context, account *model.Account) error
}

type accountUsecase struct {
	accountRepo repository.AccountRepository
	credentials *CredentialValidator
	notifier    WelcomeNotifier
	logger      *zerolog.Logger

	// dummyHash is verified against when the email is unknown so that both
	// failure paths of Authenticate take the same time.
	dummyHash string
}

// NewAccountUsecase creates a new instance of AccountUsecase. notifier may be nil.
func NewAccountUsecase(
	accountRepo repository.AccountRepository,
	credentials *CredentialValidator,
	notifier WelcomeNotifier,
	logger *zerolog.Logger,
) (AccountUsecase, error) {
	dummyHash, err := security.HashPassword("account-service-dummy-password")
	if err != nil {
		return nil, fmt.Errorf("hash dummy password: %w", err)
	}

	return &accountUsecase{
		accountRepo: accountRepo,
		credentials: credentials,
		notifier:    notifier,
		logger:      logger,
		dummyHash:   dummyHash,
	}, nil
}

func (u *accountUsecase) Register(ctx context.Context, params RegisterParams) (string, error) {
	if err := u.credentials.Validate(params.Name, params.Email, params.Password, params.PhoneNumber); err != nil {
		return "", err
	}

	// Fast path only; the unique indexes are the source of truth.
	_, err := u.accountRepo.GetAccountByEmailOrPhone(ctx, params.Email, params.PhoneNumber)
	if err == nil {
		return "", ErrAccountAlreadyExists
	}
	if !errors.Is(err, repository.ErrAccountNotFound) {
		return "", u.storeFailure(err, "register", map[string]any{"email": params.Email})
	}

	passwordHash, err := security.HashPassword(params.Password)
	if err != nil {
		return "", err
	}

	account, err := u.accountRepo.CreateAccount(ctx, &model.Account{
		Name:         params.Name,
		Email:        params.Email,
		PasswordHash: passwordHash,
		PhoneNumber:  params.PhoneNumber,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateAccount) {
			return "", ErrAccountAlreadyExists
		}

		return "", u.storeFailure(err, "register", map[string]any{"email": params.Email})
	}

	u.logger.Info().Str("account_id", account.ID.Hex()).Msg("account registered")

	if u.notifier != nil {
		if err := u.notifier.NotifyRegistered(ctx, account); err != nil {
			u.logger.Warn().Err(err).Str("account_id", account.ID.Hex()).Msg("failed to send welcome email")
		}
	}

	return account.ID.Hex(), nil
}

func (u *accountUsecase) Authenticate(ctx context.Context, email, password string) (*model.Account, error) {
	account, err := u.accountRepo.GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			_, _ = security.VerifyPassword(password, u.dummyHash)
			return nil, ErrInvalidCredentials
		}

		return nil, u.storeFailure(err, "authenticate", map[string]any{"email": email})
	}

	if ok, err := security.VerifyPassword(password, account.PasswordHash); err != nil {
		u.logger.Error().Err(err).Str("account_id", account.ID.Hex()).Msg("stored password hash is unreadable")
		return nil, ErrInvalidCredentials
	} else if !ok {
		return nil, ErrInvalidCredentials
	}

	return account, nil
}

func (u *accountUsecase) GetAccount(ctx context.Context, id string) (*model.Account, error) {
	account, err := u.accountRepo.GetAccount(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, ErrAccountNotFound
		}

		return nil, u.storeFailure(err, "get account", map[string]any{"account_id": id})
	}

	return account, nil
}

func (u *accountUsecase) ListAccounts(ctx context.Context) ([]*model.Account, error) {
	accounts, err := u.accountRepo.ListAccounts(ctx)
	if err != nil {
		return nil, u.storeFailure(err, "list accounts", nil)
	}

	return accounts, nil
}

func (u *accountUsecase) UpdateAccount(
	ctx context.Context,
	id string,
	params UpdateAccountParams,
) (*model.Account, error) {
	existing, err := u.GetAccount(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := u.credentials.Validate(params.Name, params.Email, params.Password, params.PhoneNumber); err != nil {
		return nil, err
	}

	passwordHash, err := security.HashPassword(params.Password)
	if err != nil {
		return nil, err
	}

	replacement := &model.Account{
		Name:         params.Name,
		Email:        params.Email,
		PasswordHash: passwordHash,
		PhoneNumber:  params.PhoneNumber,
		CreatedAt:    existing.CreatedAt,
	}

	modified, err := u.accountRepo.ReplaceAccount(ctx, id, replacement)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateAccount) {
			return nil, ErrAccountAlreadyExists
		}

		return nil, u.storeFailure(err, "update account", map[string]any{"account_id": id})
	}
	if !modified {
		return nil, ErrAccountNotFound
	}

	replacement.ID = existing.ID
	u.logger.Info().Str("account_id", id).Msg("account updated")

	return replacement, nil
}

func (u *accountUsecase) DeleteAccount(ctx context.Context, id string) (bool, error) {
	deleted, err := u.accountRepo.DeleteAccount(ctx, id)
	if err != nil {
		return false, u.storeFailure(err, "delete account", map[string]any{"account_id": id})
	}

	if deleted {
		u.logger.Info().Str("account_id", id).Msg("account deleted")
	}

	return deleted, nil
}

func (u *accountUsecase) storeFailure(err error, operation string, fields map[string]any) error {
	u.logger.Error().Err(err).Str("operation", operation).Fields(fields).Msg("account store failure")
	return ErrStoreFailure
}
