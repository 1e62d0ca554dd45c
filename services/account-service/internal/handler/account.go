package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vasapolrittideah/account-api/services/account-service/internal/payload"
	"github.com/vasapolrittideah/account-api/services/account-service/internal/usecase"
	authtypes "github.com/vasapolrittideah/account-api/services/account-service/pkg/types"
	"github.com/vasapolrittideah/account-api/shared/middleware"
	"github.com/vasapolrittideah/account-api/shared/utilities"
)

func (h *accountHTTPHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req payload.RegisterRequest
	if err := utilities.DecodeJSON(w, r, &req); err != nil {
		utilities.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := h.accountUsecase.Register(r.Context(), usecase.RegisterParams{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		h.writeUsecaseError(w, r, err, "failed to register account")
		return
	}

	utilities.WriteJSON(w, http.StatusCreated, payload.RegisterResponse{
		ID:      id,
		Message: "account registered",
	})
}

func (h *accountHTTPHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req payload.LoginRequest
	if err := utilities.DecodeJSON(w, r, &req); err != nil {
		utilities.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		utilities.WriteError(w, http.StatusBadRequest, "invalid request body", h.validate.Messages(err)...)
		return
	}

	token, account, err := h.authUsecase.Login(r.Context(), usecase.LoginParams{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.writeUsecaseError(w, r, err, "failed to log in")
		return
	}

	h.logger.Info().Str("account_id", account.ID.Hex()).Msg("account logged in")

	utilities.WriteJSON(w, http.StatusOK, payload.LoginResponse{
		Token:     token.AccessToken,
		ExpiresAt: token.ExpiresAt,
	})
}

func (h *accountHTTPHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accountUsecase.ListAccounts(r.Context())
	if err != nil {
		h.writeUsecaseError(w, r, err, "failed to list accounts")
		return
	}

	resp := make([]payload.AccountResponse, 0, len(accounts))
	for _, account := range accounts {
		resp = append(resp, toAccountResponse(account))
	}

	utilities.WriteJSON(w, http.StatusOK, resp)
}

func (h *accountHTTPHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	account, err := h.accountUsecase.GetAccount(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeUsecaseError(w, r, err, "failed to get account")
		return
	}

	utilities.WriteJSON(w, http.StatusOK, toAccountResponse(account))
}

func (h *accountHTTPHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	var req payload.UpdateAccountRequest
	if err := utilities.DecodeJSON(w, r, &req); err != nil {
		utilities.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	account, err := h.accountUsecase.UpdateAccount(r.Context(), chi.URLParam(r, "id"), usecase.UpdateAccountParams{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		h.writeUsecaseError(w, r, err, "failed to update account")
		return
	}

	utilities.WriteJSON(w, http.StatusOK, payload.UpdateAccountResponse{
		Message: "account updated",
		Account: toAccountResponse(account),
	})
}

func (h *accountHTTPHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.accountUsecase.DeleteAccount(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeUsecaseError(w, r, err, "failed to delete account")
		return
	}

	if !deleted {
		utilities.WriteError(w, http.StatusNotFound, "account not found")
		return
	}

	utilities.WriteJSON(w, http.StatusOK, payload.MessageResponse{Message: "account deleted"})
}

func (h *accountHTTPHandler) Protected(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext[*authtypes.AccountClaims](r.Context())
	if !ok {
		utilities.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	h.logger.Debug().Str("account_id", claims.Subject).Msg("protected endpoint accessed")

	utilities.WriteJSON(w, http.StatusOK, payload.MessageResponse{
		Message: "authenticated as " + claims.Subject,
	})
}
