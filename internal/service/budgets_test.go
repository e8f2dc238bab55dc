package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akarpov/finance-tracker/internal/models"
	"github.com/akarpov/finance-tracker/internal/repository"
)

func TestCreateBudget(t *testing.T) {
	start := time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.August, 1, 0, 0, 0, 0, time.UTC)

	t.Run("fills defaults", func(t *testing.T) {
		store := newFakeStore()
		svc := newTestService(store, &fakeMailer{})

		budget, err := svc.CreateBudget(authCtx(7), models.Budget{
			Name:        "Food budget",
			Category:    "Food & Drink",
			BudgetLimit: decimal.NewFromInt(400),
			StartDate:   start,
			EndDate:     end,
		})
		require.NoError(t, err)

		assert.NotZero(t, budget.ID)
		assert.Equal(t, int64(7), budget.UserID)
		assert.Equal(t, "monthly", budget.PeriodType)
		assert.True(t, budget.AlertThreshold.Equal(decimal.NewFromFloat(0.8)))
		assert.True(t, budget.IsActive)
	})

	t.Run("rejects a missing category", func(t *testing.T) {
		svc := newTestService(newFakeStore(), &fakeMailer{})

		_, err := svc.CreateBudget(authCtx(7), models.Budget{
			Name:        "Food budget",
			BudgetLimit: decimal.NewFromInt(400),
			StartDate:   start,
			EndDate:     end,
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("rejects a non-positive limit", func(t *testing.T) {
		svc := newTestService(newFakeStore(), &fakeMailer{})

		_, err := svc.CreateBudget(authCtx(7), models.Budget{
			Name:        "Food budget",
			Category:    "Food & Drink",
			BudgetLimit: decimal.Zero,
			StartDate:   start,
			EndDate:     end,
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("rejects unknown period types", func(t *testing.T) {
		svc := newTestService(newFakeStore(), &fakeMailer{})

		_, err := svc.CreateBudget(authCtx(7), models.Budget{
			Name:        "Food budget",
			Category:    "Food & Drink",
			BudgetLimit: decimal.NewFromInt(400),
			PeriodType:  "daily",
			StartDate:   start,
			EndDate:     end,
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("rejects an end date before the start date", func(t *testing.T) {
		svc := newTestService(newFakeStore(), &fakeMailer{})

		_, err := svc.CreateBudget(authCtx(7), models.Budget{
			Name:        "Food budget",
			Category:    "Food & Drink",
			BudgetLimit: decimal.NewFromInt(400),
			StartDate:   end,
			EndDate:     start,
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("rejects thresholds above one", func(t *testing.T) {
		svc := newTestService(newFakeStore(), &fakeMailer{})

		_, err := svc.CreateBudget(authCtx(7), models.Budget{
			Name:           "Food budget",
			Category:       "Food & Drink",
			BudgetLimit:    decimal.NewFromInt(400),
			StartDate:      start,
			EndDate:        end,
			AlertThreshold: decimal.NewFromFloat(1.5),
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestBudgetStatuses(t *testing.T) {
	seedJuly := func(t *testing.T, store *fakeStore) {
		t.Helper()
		seedTransaction(t, store, models.Transaction{
			UserID: 7, Name: "Safeway", Type: models.TransactionTypeDebit,
			Amount: decimal.NewFromInt(90), Date: time.Date(2024, time.July, 10, 12, 0, 0, 0, time.UTC),
			CustomCategory: "Groceries",
		})
		seedTransaction(t, store, models.Transaction{
			UserID: 7, Name: "Safeway", Type: models.TransactionTypeDebit,
			Amount: decimal.NewFromInt(95), Date: time.Date(2024, time.July, 20, 12, 0, 0, 0, time.UTC),
			CustomCategory: "Groceries",
		})
		seedTransaction(t, store, models.Transaction{
			UserID: 7, Name: "Cinema", Type: models.TransactionTypeDebit,
			Amount: decimal.NewFromInt(50), Date: time.Date(2024, time.July, 12, 12, 0, 0, 0, time.UTC),
			CustomCategory: "Entertainment",
		})
		seedTransaction(t, store, models.Transaction{
			UserID: 7, Name: "Payroll", Type: models.TransactionTypeCredit,
			Amount: decimal.NewFromInt(500), Date: time.Date(2024, time.July, 5, 12, 0, 0, 0, time.UTC),
		})
		seedTransaction(t, store, models.Transaction{
			UserID: 7, Name: "Safeway", Type: models.TransactionTypeDebit,
			Amount: decimal.NewFromInt(40), Date: time.Date(2024, time.June, 20, 12, 0, 0, 0, time.UTC),
			CustomCategory: "Groceries",
		})
	}

	budget := func(category string, limit int64) models.Budget {
		return models.Budget{
			UserID:         7,
			Name:           category + " budget",
			Category:       category,
			BudgetLimit:    decimal.NewFromInt(limit),
			PeriodType:     "monthly",
			StartDate:      time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC),
			EndDate:        time.Date(2024, time.July, 31, 23, 59, 0, 0, time.UTC),
			AlertThreshold: decimal.NewFromFloat(0.8),
			IsActive:       true,
		}
	}

	t.Run("computes spend from matching debits in the period", func(t *testing.T) {
		store := newFakeStore()
		svc := newTestService(store, &fakeMailer{})
		seedJuly(t, store)
		groceries := budget("Groceries", 200)
		require.NoError(t, store.CreateBudget(authCtx(7), &groceries))

		statuses, err := svc.BudgetStatuses(authCtx(7))
		require.NoError(t, err)
		require.Len(t, statuses, 1)

		status := statuses[0]
		assert.True(t, status.SpentAmount.Equal(decimal.NewFromInt(185)), "spent %s", status.SpentAmount)
		assert.True(t, status.RemainingAmount.Equal(decimal.NewFromInt(15)))
		assert.InDelta(t, 92.5, status.UtilizationPercentage, 0.001)
		assert.True(t, status.ShouldAlert)
		assert.False(t, status.IsOverBudget)
	})

	t.Run("caps utilization and flags overspent budgets", func(t *testing.T) {
		store := newFakeStore()
		svc := newTestService(store, &fakeMailer{})
		seedJuly(t, store)
		entertainment := budget("Entertainment", 30)
		require.NoError(t, store.CreateBudget(authCtx(7), &entertainment))

		statuses, err := svc.BudgetStatuses(authCtx(7))
		require.NoError(t, err)
		require.Len(t, statuses, 1)

		status := statuses[0]
		assert.True(t, status.SpentAmount.Equal(decimal.NewFromInt(50)))
		assert.True(t, status.RemainingAmount.IsZero())
		assert.InDelta(t, 100.0, status.UtilizationPercentage, 0.001)
		assert.True(t, status.IsOverBudget)
		assert.True(t, status.ShouldAlert)
	})

	t.Run("returns an empty slice when the user has no budgets", func(t *testing.T) {
		svc := newTestService(newFakeStore(), &fakeMailer{})

		statuses, err := svc.BudgetStatuses(authCtx(7))
		require.NoError(t, err)
		require.NotNil(t, statuses)
		assert.Empty(t, statuses)
	})
}

func TestDeleteBudget(t *testing.T) {
	t.Run("removes the user's budget", func(t *testing.T) {
		store := newFakeStore()
		svc := newTestService(store, &fakeMailer{})
		budget := models.Budget{UserID: 7, Name: "Groceries budget", Category: "Groceries", BudgetLimit: decimal.NewFromInt(200)}
		require.NoError(t, store.CreateBudget(authCtx(7), &budget))

		require.NoError(t, svc.DeleteBudget(authCtx(7), budget.ID))
		assert.Empty(t, store.budgets)
	})

	t.Run("returns not found for another user's budget", func(t *testing.T) {
		store := newFakeStore()
		svc := newTestService(store, &fakeMailer{})
		budget := models.Budget{UserID: 9, Name: "Groceries budget", Category: "Groceries", BudgetLimit: decimal.NewFromInt(200)}
		require.NoError(t, store.CreateBudget(authCtx(9), &budget))

		err := svc.DeleteBudget(authCtx(7), budget.ID)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}
