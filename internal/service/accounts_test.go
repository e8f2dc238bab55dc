package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akarpov/finance-tracker/internal/models"
)

func TestCreateAccount(t *testing.T) {
	t.Run("creates an account with defaults", func(t *testing.T) {
		store := newFakeStore()
		svc := newTestService(store, &fakeMailer{})

		account, err := svc.CreateAccount(authCtx(7), "Main Checking", "", "")
		require.NoError(t, err)

		assert.NotZero(t, account.ID)
		assert.Equal(t, int64(7), account.UserID)
		assert.Equal(t, "checking", account.AccountType)
		assert.Equal(t, "USD", account.Currency)
		assert.True(t, account.Balance.IsZero())
	})

	t.Run("requires a name", func(t *testing.T) {
		svc := newTestService(newFakeStore(), &fakeMailer{})

		_, err := svc.CreateAccount(authCtx(7), "", "savings", "EUR")
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("rejects unknown account types", func(t *testing.T) {
		svc := newTestService(newFakeStore(), &fakeMailer{})

		_, err := svc.CreateAccount(authCtx(7), "Offshore", "offshore", "USD")
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("requires an authenticated user", func(t *testing.T) {
		svc := newTestService(newFakeStore(), &fakeMailer{})

		_, err := svc.CreateAccount(context.Background(), "Main Checking", "checking", "USD")
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})
}

func TestListAccounts(t *testing.T) {
	t.Run("returns only the user's accounts", func(t *testing.T) {
		store := newFakeStore()
		svc := newTestService(store, &fakeMailer{})

		require.NoError(t, store.CreateAccount(context.Background(), &models.Account{UserID: 7, Name: "Mine"}))
		require.NoError(t, store.CreateAccount(context.Background(), &models.Account{UserID: 9, Name: "Theirs"}))

		accounts, err := svc.ListAccounts(authCtx(7))
		require.NoError(t, err)
		require.Len(t, accounts, 1)
		assert.Equal(t, "Mine", accounts[0].Name)
	})
}
