package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/account-api/services/account-service/internal/model"
	authtypes "github.com/vasapolrittideah/account-api/services/account-service/pkg/types"
)

// AuthUsecase defines the interface for authentication-related use cases.
type AuthUsecase interface {
	Login(ctx context.Context, params LoginParams) (*authtypes.Token, *model.Account, error)
}

// LoginParams defines the parameters for account login.
type LoginParams struct {
	Email    string
	Password string
}

type authUsecase struct {
	accountUsecase AccountUsecase
	tokenUsecase   TokenUsecase
	logger         *zerolog.Logger
}

func NewAuthUsecase(accountUsecase AccountUsecase, tokenUsecase TokenUsecase, logger *zerolog.Logger) AuthUsecase {
	return &authUsecase{
		accountUsecase: accountUsecase,
		tokenUsecase:   tokenUsecase,
		logger:         logger,
	}
}

func (u *authUsecase) Login(ctx context.Context, params LoginParams) (*authtypes.Token, *model.Account, error) {
	account, err := u.accountUsecase.Authenticate(ctx, params.Email, params.Password)
	if err != nil {
		return nil, nil, err
	}

	token, err := u.tokenUsecase.IssueToken(account)
	if err != nil {
		u.logger.Error().Err(err).Str("account_id", account.ID.Hex()).Msg("failed to issue access token")
		return nil, nil, err
	}

	return token, account, nil
}
