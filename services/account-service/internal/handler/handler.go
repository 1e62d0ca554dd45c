package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/account-api/services/account-service/internal/model"
	"github.com/vasapolrittideah/account-api/services/account-service/internal/payload"
	"github.com/vasapolrittideah/account-api/services/account-service/internal/usecase"
	"github.com/vasapolrittideah/account-api/shared/middleware"
	"github.com/vasapolrittideah/account-api/shared/utilities"
	"github.com/vasapolrittideah/account-api/shared/validator"
)

type accountHTTPHandler struct {
	accountUsecase usecase.AccountUsecase
	authUsecase    usecase.AuthUsecase
	tokenUsecase   usecase.TokenUsecase
	validate       *validator.Validator
	logger         *zerolog.Logger
}

// RegisterAccountRoutes mounts the account API under /api/user. Every route
// except register and login requires a bearer token.
func RegisterAccountRoutes(
	r chi.Router,
	accountUsecase usecase.AccountUsecase,
	authUsecase usecase.AuthUsecase,
	tokenUsecase usecase.TokenUsecase,
	validate *validator.Validator,
	logger *zerolog.Logger,
) {
	h := &accountHTTPHandler{
		accountUsecase: accountUsecase,
		authUsecase:    authUsecase,
		tokenUsecase:   tokenUsecase,
		validate:       validate,
		logger:         logger,
	}

	r.Route("/api/user", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.NewJWTMiddleware(tokenUsecase.VerifyToken))

			r.Get("/", h.ListAccounts)
			r.Get("/protected", h.Protected)
			r.Get("/{id}", h.GetAccount)
			r.Put("/{id}", h.UpdateAccount)
			r.Delete("/{id}", h.DeleteAccount)
		})
	})
}

// writeUsecaseError maps usecase errors to responses. Anything unexpected is
// logged and answered with a generic 500.
func (h *accountHTTPHandler) writeUsecaseError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	var validationErr *usecase.ValidationError

	switch {
	case errors.As(err, &validationErr):
		utilities.WriteError(w, http.StatusBadRequest, validationErr.Message)
	case errors.Is(err, usecase.ErrAccountAlreadyExists):
		utilities.WriteError(w, http.StatusConflict, err.Error())
	case errors.Is(err, usecase.ErrInvalidCredentials):
		utilities.WriteError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, usecase.ErrUnauthenticated):
		utilities.WriteError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, usecase.ErrAccountNotFound):
		utilities.WriteError(w, http.StatusNotFound, "account not found")
	default:
		h.logger.Error().Err(err).Str("path", r.URL.Path).Msg(msg)
		utilities.WriteError(w, http.StatusInternalServerError, "something went wrong")
	}
}

func toAccountResponse(account *model.Account) payload.AccountResponse {
	return payload.AccountResponse{
		ID:          account.ID.Hex(),
		Name:        account.Name,
		Email:       account.Email,
		PhoneNumber: account.PhoneNumber,
		CreatedAt:   account.CreatedAt,
		UpdatedAt:   account.UpdatedAt,
	}
}
