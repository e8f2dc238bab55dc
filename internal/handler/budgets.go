package handler

import (
	"encoding/json"
	"net/http"

	"github.com/akarpov/finance-tracker/internal/models"
)

// CreateBudget handles POST /budgets
func (h *Handler) CreateBudget(w http.ResponseWriter, r *http.Request) {
	var budget models.Budget
	if err := json.NewDecoder(r.Body).Decode(&budget); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.svc.CreateBudget(r.Context(), budget)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, created)
}

// ListBudgets handles GET /budgets, returning each budget with its
// computed spend status.
func (h *Handler) ListBudgets(w http.ResponseWriter, r *http.Request) {
	statuses, err := h.svc.BudgetStatuses(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, statuses)
}

// DeleteBudget handles DELETE /budgets/{id}
func (h *Handler) DeleteBudget(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.DeleteBudget(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
