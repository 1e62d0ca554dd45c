package usecase

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/account-api/services/account-service/internal/model"
	authtypes "github.com/vasapolrittideah/account-api/services/account-service/pkg/types"
	"github.com/vasapolrittideah/account-api/shared/auth"
)

// TokenUsecase issues and verifies account access tokens.
// Tokens are stateless: nothing is stored and a token stays valid until it expires.
type TokenUsecase interface {
	IssueToken(account *model.Account) (*authtypes.Token, error)

	// VerifyToken returns the claims of a valid token and ErrUnauthenticated for
	// any other token, whatever the reason.
	VerifyToken(token string) (*authtypes.AccountClaims, error)
}

type tokenUsecase struct {
	jwtAuth   *auth.JWTAuthenticator
	expiresIn time.Duration
	logger    *zerolog.Logger
}

// NewTokenUsecase creates a new instance of TokenUsecase.
func NewTokenUsecase(jwtAuth *auth.JWTAuthenticator, expiresIn time.Duration, logger *zerolog.Logger) TokenUsecase {
	return &tokenUsecase{
		jwtAuth:   jwtAuth,
		expiresIn: expiresIn,
		logger:    logger,
	}
}

func (u *tokenUsecase) IssueToken(account *model.Account) (*authtypes.Token, error) {
	// NumericDate keeps whole seconds; the reported expiry must match the signed one.
	now := u.jwtAuth.Now().Truncate(jwt.TimePrecision)
	expiresAt := now.Add(u.expiresIn)

	claims := authtypes.AccountClaims{
		Email:       account.Email,
		Name:        account.Name,
		PhoneNumber: account.PhoneNumber,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   account.ID.Hex(),
			Issuer:    u.jwtAuth.Issuer(),
			Audience:  jwt.ClaimStrings{u.jwtAuth.Audience()},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	accessToken, err := u.jwtAuth.GenerateToken(claims)
	if err != nil {
		return nil, err
	}

	return &authtypes.Token{
		AccessToken: accessToken,
		ExpiresAt:   expiresAt,
	}, nil
}

func (u *tokenUsecase) VerifyToken(token string) (*authtypes.AccountClaims, error) {
	claims := &authtypes.AccountClaims{}
	if _, err := u.jwtAuth.ValidateTokenWithClaims(token, claims); err != nil {
		u.logger.Warn().Err(err).Msg("rejected access token")
		return nil, ErrUnauthenticated
	}

	return claims, nil
}
