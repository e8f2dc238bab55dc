package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/akarpov/finance-tracker/internal/models"
	"github.com/akarpov/finance-tracker/internal/repository"
)

var accountTypes = map[string]bool{
	"checking":   true,
	"savings":    true,
	"credit":     true,
	"investment": true,
}

// CreateAccount creates a new account for the authenticated user
func (s *Service) CreateAccount(ctx context.Context, name, accountType, currency string) (*models.Account, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if name == "" {
		return nil, fmt.Errorf("%w: account name is required", ErrInvalidInput)
	}
	if accountType == "" {
		accountType = "checking"
	}
	if !accountTypes[accountType] {
		return nil, fmt.Errorf("%w: unknown account type %q", ErrInvalidInput, accountType)
	}
	if currency == "" {
		currency = "USD"
	}

	account := &models.Account{
		UserID:      userID,
		Name:        name,
		AccountType: accountType,
		Balance:     decimal.Zero,
		Currency:    currency,
	}

	if err := s.repo.CreateAccount(ctx, account); err != nil {
		return nil, err
	}

	s.log.Infof("Account created for user %d: %s", userID, account.Name)
	return account, nil
}

// ListAccounts retrieves the authenticated user's accounts
func (s *Service) ListAccounts(ctx context.Context) ([]models.Account, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.AccountsByUser(ctx, userID)
}

// ownedAccount loads an account and verifies it belongs to the user.
// A foreign account is reported as missing.
func (s *Service) ownedAccount(ctx context.Context, userID, accountID int64) (*models.Account, error) {
	account, err := s.repo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.UserID != userID {
		return nil, fmt.Errorf("account %d: %w", accountID, repository.ErrNotFound)
	}
	return account, nil
}
