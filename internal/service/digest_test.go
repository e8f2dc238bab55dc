package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akarpov/finance-tracker/internal/models"
)

func TestSendWeeklyDigests(t *testing.T) {
	t.Run("emails users with recent activity and survives delivery failures", func(t *testing.T) {
		store := newFakeStore()
		mailer := &fakeMailer{failFor: map[string]bool{"carol@example.com": true}}
		svc := newTestService(store, mailer)

		carol := &models.User{Username: "carol", Email: "carol@example.com"}
		alice := &models.User{Username: "alice", Email: "alice@example.com"}
		bob := &models.User{Username: "bob", Email: "bob@example.com"}
		for _, user := range []*models.User{carol, alice, bob} {
			require.NoError(t, store.CreateUser(context.Background(), user))
		}

		now := time.Now().UTC()
		// carol and alice were active in the window, bob was not
		seedTransaction(t, store, models.Transaction{
			UserID: carol.ID, Name: "Cinema", Type: models.TransactionTypeDebit,
			Amount: decimal.NewFromInt(25), Date: now.AddDate(0, 0, -1),
		})
		seedTransaction(t, store, models.Transaction{
			UserID: alice.ID, Name: "Payroll", Type: models.TransactionTypeCredit,
			Amount: decimal.NewFromInt(1200), Date: now.AddDate(0, 0, -3),
		})
		seedTransaction(t, store, models.Transaction{
			UserID: alice.ID, Name: "Whole Foods", Type: models.TransactionTypeDebit,
			Amount: decimal.NewFromInt(80), Date: now.AddDate(0, 0, -2),
			CustomCategory: "Groceries",
		})
		seedTransaction(t, store, models.Transaction{
			UserID: bob.ID, Name: "Old purchase", Type: models.TransactionTypeDebit,
			Amount: decimal.NewFromInt(10), Date: now.AddDate(0, 0, -45),
		})

		svc.SendWeeklyDigests(context.Background())

		require.Len(t, mailer.sent, 1)
		digest := mailer.sent[0]
		assert.Equal(t, "alice@example.com", digest.to)
		assert.Equal(t, "alice", digest.username)
		assert.Equal(t, 2, digest.summary.TransactionCount)
		assert.Equal(t, 1200.0, digest.summary.TotalIncome)
		assert.Equal(t, 80.0, digest.summary.TotalExpenses)
		assert.NotEmpty(t, digest.score.HealthGrade)
	})

	t.Run("sends nothing when nobody was active", func(t *testing.T) {
		store := newFakeStore()
		mailer := &fakeMailer{}
		svc := newTestService(store, mailer)
		require.NoError(t, store.CreateUser(context.Background(), &models.User{Username: "alice", Email: "alice@example.com"}))

		svc.SendWeeklyDigests(context.Background())

		assert.Empty(t, mailer.sent)
	})
}
