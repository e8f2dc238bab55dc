package handler

import (
	"encoding/json"
	"net/http"

	"github.com/akarpov/finance-tracker/internal/models"
)

// CreateAccount handles POST /accounts
func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		AccountType string `json:"account_type"`
		Currency    string `json:"currency"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	account, err := h.svc.CreateAccount(r.Context(), req.Name, req.AccountType, req.Currency)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, account)
}

// ListAccounts handles GET /accounts
func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.svc.ListAccounts(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	if accounts == nil {
		accounts = []models.Account{}
	}
	h.writeJSON(w, http.StatusOK, accounts)
}
