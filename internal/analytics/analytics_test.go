package analytics

import (
	"context"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/akarpov/finance-tracker/internal/models"
)

// testNow pins engine clocks so window math stays reproducible.
var testNow = time.Date(2024, time.July, 15, 12, 0, 0, 0, time.UTC)

// fakeTransactionSource serves canned transactions to the engines.
type fakeTransactionSource struct {
	txns []models.Transaction
	err  error
}

func (f *fakeTransactionSource) TransactionsInRange(_ context.Context, _ int64, from, to time.Time) ([]models.Transaction, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Transaction
	for _, t := range f.txns {
		if t.Date.Before(from) || t.Date.After(to) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeTransactionSource) TransactionsByUser(_ context.Context, _ int64) ([]models.Transaction, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.txns, nil
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
}

func debit(name string, amount float64, on time.Time) models.Transaction {
	return models.Transaction{
		Name:   name,
		Amount: decimal.NewFromFloat(amount),
		Date:   on,
		Type:   models.TransactionTypeDebit,
	}
}

func credit(name string, amount float64, on time.Time) models.Transaction {
	return models.Transaction{
		Name:   name,
		Amount: decimal.NewFromFloat(amount),
		Date:   on,
		Type:   models.TransactionTypeCredit,
	}
}
