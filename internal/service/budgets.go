package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/akarpov/finance-tracker/internal/models"
)

var budgetPeriods = map[string]bool{
	"weekly":  true,
	"monthly": true,
	"yearly":  true,
}

// defaultAlertThreshold alerts at 80% budget utilization.
var defaultAlertThreshold = decimal.NewFromFloat(0.8)

// CreateBudget creates a spending budget for the authenticated user
func (s *Service) CreateBudget(ctx context.Context, budget models.Budget) (*models.Budget, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if budget.Name == "" {
		return nil, fmt.Errorf("%w: budget name is required", ErrInvalidInput)
	}
	if budget.Category == "" {
		return nil, fmt.Errorf("%w: budget category is required", ErrInvalidInput)
	}
	if !budget.BudgetLimit.IsPositive() {
		return nil, fmt.Errorf("%w: budget_limit must be positive", ErrInvalidInput)
	}
	if budget.PeriodType == "" {
		budget.PeriodType = "monthly"
	}
	if !budgetPeriods[budget.PeriodType] {
		return nil, fmt.Errorf("%w: unknown period type %q", ErrInvalidInput, budget.PeriodType)
	}
	if budget.StartDate.IsZero() || budget.EndDate.IsZero() {
		return nil, fmt.Errorf("%w: start_date and end_date are required", ErrInvalidInput)
	}
	if !budget.EndDate.After(budget.StartDate) {
		return nil, fmt.Errorf("%w: end_date must be after start_date", ErrInvalidInput)
	}
	if budget.AlertThreshold.IsZero() {
		budget.AlertThreshold = defaultAlertThreshold
	} else if budget.AlertThreshold.IsNegative() || budget.AlertThreshold.GreaterThan(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("%w: alert_threshold must be between 0 and 1", ErrInvalidInput)
	}

	budget.UserID = userID
	budget.IsActive = true
	if err := s.repo.CreateBudget(ctx, &budget); err != nil {
		return nil, err
	}

	s.log.Infof("Budget created for user %d: %s", userID, budget.Name)
	return &budget, nil
}

// BudgetStatuses retrieves the user's budgets with their spend for the
// budget period computed from matching debit transactions.
func (s *Service) BudgetStatuses(ctx context.Context) ([]models.BudgetStatus, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	budgets, err := s.repo.BudgetsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(budgets) == 0 {
		return []models.BudgetStatus{}, nil
	}

	txns, err := s.repo.TransactionsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	statuses := make([]models.BudgetStatus, 0, len(budgets))
	for _, budget := range budgets {
		spent := decimal.Zero
		for _, txn := range txns {
			if !txn.IsExpense() {
				continue
			}
			if txn.Date.Before(budget.StartDate) || txn.Date.After(budget.EndDate) {
				continue
			}
			if s.resolver.Resolve(txn) != budget.Category {
				continue
			}
			spent = spent.Add(txn.Amount.Abs())
		}
		statuses = append(statuses, budget.Status(spent))
	}
	return statuses, nil
}

// DeleteBudget removes one of the user's budgets
func (s *Service) DeleteBudget(ctx context.Context, id int64) error {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteBudget(ctx, userID, id); err != nil {
		return err
	}
	s.log.Infof("Budget %d deleted for user %d", id, userID)
	return nil
}
