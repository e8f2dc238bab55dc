// Package analytics turns a user's raw transaction history into spending
// forecasts, a financial health score and ranked natural-language insights.
// All engines are stateless: each call fetches a snapshot from its
// TransactionSource, computes in memory and returns a result. Engines never
// fail outward; on missing data or repository errors they degrade to
// documented defaults and log.
package analytics

import (
	"context"
	"time"

	"github.com/akarpov/finance-tracker/internal/models"
)

// TransactionSource supplies read access to stored transactions.
type TransactionSource interface {
	// TransactionsInRange returns the user's transactions with dates in
	// [from, to], ordered by date.
	TransactionsInRange(ctx context.Context, userID int64, from, to time.Time) ([]models.Transaction, error)
	// TransactionsByUser returns the user's full transaction history.
	TransactionsByUser(ctx context.Context, userID int64) ([]models.Transaction, error)
}

// absAmount returns the transaction amount as a non-negative float.
// Amounts are stored positive, the Abs call guards imported data.
func absAmount(t models.Transaction) float64 {
	f, _ := t.Amount.Abs().Float64()
	return f
}

func floatPtr(v float64) *float64 { return &v }

func intPtr(v int) *int { return &v }
