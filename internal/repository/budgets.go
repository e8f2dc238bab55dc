package repository

import (
	"context"
	"fmt"

	"github.com/akarpov/finance-tracker/internal/models"
)

// CreateBudget creates a new budget in the database
func (r *Repository) CreateBudget(ctx context.Context, budget *models.Budget) error {
	query := `
		INSERT INTO finance.budgets (user_id, name, category, budget_limit, period_type, start_date,
			end_date, alert_threshold, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		budget.UserID, budget.Name, budget.Category, budget.BudgetLimit, budget.PeriodType,
		budget.StartDate, budget.EndDate, budget.AlertThreshold, budget.IsActive).
		Scan(&budget.ID, &budget.CreatedAt, &budget.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create budget: %w", err)
	}
	return nil
}

// BudgetsByUser retrieves all budgets belonging to a user
func (r *Repository) BudgetsByUser(ctx context.Context, userID int64) ([]models.Budget, error) {
	query := `
		SELECT id, user_id, name, category, budget_limit, period_type, start_date, end_date,
			alert_threshold, is_active, created_at, updated_at
		FROM finance.budgets
		WHERE user_id = $1
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []models.Budget
	for rows.Next() {
		var budget models.Budget
		err := rows.Scan(&budget.ID, &budget.UserID, &budget.Name, &budget.Category, &budget.BudgetLimit,
			&budget.PeriodType, &budget.StartDate, &budget.EndDate, &budget.AlertThreshold,
			&budget.IsActive, &budget.CreatedAt, &budget.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		budgets = append(budgets, budget)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	return budgets, nil
}

// DeleteBudget removes one of the user's budgets
func (r *Repository) DeleteBudget(ctx context.Context, userID, id int64) error {
	query := `
		DELETE FROM finance.budgets
		WHERE user_id = $1 AND id = $2`
	result, err := r.db.ExecContext(ctx, query, userID, id)
	if err != nil {
		return fmt.Errorf("failed to delete budget: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete budget: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("budget %d: %w", id, ErrNotFound)
	}
	return nil
}
