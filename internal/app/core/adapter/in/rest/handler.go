package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JoeShih716/go-bank-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-bank-ledger/internal/app/core/usecase"
)

type createAccountRequest struct {
	AccountNumber string `json:"account_number"`
	InitialAmount int64  `json:"initial_amount"`
}

type amountRequest struct {
	Amount int64 `json:"amount"`
}

type accountResponse struct {
	AccountNumber string `json:"account_number"`
	InitialAmount int64  `json:"initial_amount"`
	Balance       int64  `json:"balance"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handler 把 HTTP 請求轉給 BankAccountUseCase
type Handler struct {
	core *usecase.BankAccountUseCase
}

func NewHandler(core *usecase.BankAccountUseCase) *Handler {
	return &Handler{core: core}
}

// CreateAccount POST /accounts
// 成功回傳 201，不帶 body
func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.core.Create(r.Context(), req.AccountNumber, req.InitialAmount); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// GetAccount GET /accounts/{account_number}
func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	account, err := h.core.Fetch(r.Context(), chi.URLParam(r, "account_number"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(account))
}

// Deposit POST /accounts/{account_number}/deposits
func (h *Handler) Deposit(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.core.Deposit)
}

// Withdraw POST /accounts/{account_number}/withdraws
func (h *Handler) Withdraw(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.core.Withdraw)
}

func (h *Handler) mutate(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, accountNumber string, amount int64) (*domain.BankAccount, error),
) {
	var req amountRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	account, err := op(r.Context(), chi.URLParam(r, "account_number"), req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(account))
}

// Health GET /health
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func toResponse(account *domain.BankAccount) accountResponse {
	return accountResponse{
		AccountNumber: account.AccountNumber(),
		InitialAmount: account.InitialAmount(),
		Balance:       account.Balance(),
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return false
	}
	return true
}

// writeError 將 domain 錯誤轉成 HTTP 狀態碼
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: domain.ErrAccountNotFound.Error()})
	case errors.Is(err, domain.ErrStorageUnavailable), errors.Is(err, usecase.ErrGuardStopped):
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
