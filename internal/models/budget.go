package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget represents a spending limit for a category over a period
type Budget struct {
	ID             int64           `json:"id"`
	UserID         int64           `json:"user_id"`
	Name           string          `json:"name"`
	Category       string          `json:"category"`
	BudgetLimit    decimal.Decimal `json:"budget_limit"`
	PeriodType     string          `json:"period_type"` // monthly, weekly, yearly
	StartDate      time.Time       `json:"start_date"`
	EndDate        time.Time       `json:"end_date"`
	AlertThreshold decimal.Decimal `json:"alert_threshold"`
	IsActive       bool            `json:"is_active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// BudgetStatus is a budget with its computed spend for the period
type BudgetStatus struct {
	Budget
	SpentAmount           decimal.Decimal `json:"spent_amount"`
	RemainingAmount       decimal.Decimal `json:"remaining_amount"`
	UtilizationPercentage float64         `json:"utilization_percentage"`
	IsOverBudget          bool            `json:"is_over_budget"`
	ShouldAlert           bool            `json:"should_alert"`
}

// Status computes the derived budget fields for a given spent amount.
func (b Budget) Status(spent decimal.Decimal) BudgetStatus {
	st := BudgetStatus{Budget: b, SpentAmount: spent}
	st.RemainingAmount = b.BudgetLimit.Sub(spent)
	if st.RemainingAmount.IsNegative() {
		st.RemainingAmount = decimal.Zero
	}
	if b.BudgetLimit.IsPositive() {
		pct, _ := spent.Div(b.BudgetLimit).Mul(decimal.NewFromInt(100)).Float64()
		if pct > 100 {
			pct = 100
		}
		st.UtilizationPercentage = pct
	}
	st.IsOverBudget = spent.GreaterThan(b.BudgetLimit)
	alertPct, _ := b.AlertThreshold.Mul(decimal.NewFromInt(100)).Float64()
	st.ShouldAlert = st.UtilizationPercentage >= alertPct
	return st
}
