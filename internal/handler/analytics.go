package handler

import (
	"fmt"
	"net/http"
	"strconv"
)

// defaultForecastDays is used when no days_ahead parameter is given.
const defaultForecastDays = 30

// Forecast handles GET /ml/forecast
func (h *Handler) Forecast(w http.ResponseWriter, r *http.Request) {
	daysAhead := defaultForecastDays
	if v := r.URL.Query().Get("days_ahead"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			h.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid days_ahead %q", v))
			return
		}
		daysAhead = n
	}

	forecasts, err := h.svc.Forecast(r.Context(), daysAhead)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, forecasts)
}

// ForecastAccuracy handles GET /ml/forecast-accuracy
func (h *Handler) ForecastAccuracy(w http.ResponseWriter, r *http.Request) {
	accuracy, err := h.svc.ForecastAccuracy(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, accuracy)
}

// HealthScore handles GET /ml/health-score
func (h *Handler) HealthScore(w http.ResponseWriter, r *http.Request) {
	score, err := h.svc.HealthScore(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, score)
}

// Insights handles GET /ml/insights
func (h *Handler) Insights(w http.ResponseWriter, r *http.Request) {
	insights, err := h.svc.Insights(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, insights)
}
