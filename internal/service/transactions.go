package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/akarpov/finance-tracker/internal/analytics"
	"github.com/akarpov/finance-tracker/internal/integrations/camt"
	"github.com/akarpov/finance-tracker/internal/models"
)

// defaultSummaryDays is the summary window when the caller gives none.
const defaultSummaryDays = 30

// CreateTransaction records a transaction against one of the user's
// accounts and adjusts its balance.
func (s *Service) CreateTransaction(ctx context.Context, txn models.Transaction) (*models.Transaction, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if txn.Name == "" {
		return nil, fmt.Errorf("%w: transaction name is required", ErrInvalidInput)
	}
	if txn.Type != models.TransactionTypeDebit && txn.Type != models.TransactionTypeCredit {
		return nil, fmt.Errorf("%w: transaction_type must be debit or credit", ErrInvalidInput)
	}
	if !txn.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	if txn.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if _, err := s.ownedAccount(ctx, userID, txn.AccountID); err != nil {
		return nil, err
	}

	txn.UserID = userID
	if err := s.repo.CreateTransaction(ctx, &txn); err != nil {
		return nil, err
	}

	s.log.Infof("Transaction created for user %d: %s %s", userID, txn.Type, txn.Amount)
	return &txn, nil
}

// ListTransactions retrieves the user's transactions, newest first
func (s *Service) ListTransactions(ctx context.Context, filter models.TransactionFilter) ([]models.Transaction, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.ListTransactions(ctx, userID, filter)
}

// GetTransaction retrieves one of the user's transactions
func (s *Service) GetTransaction(ctx context.Context, id int64) (*models.Transaction, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.FindTransactionByID(ctx, userID, id)
}

// UpdateTransaction applies the user-editable fields to a transaction
// and returns the updated row.
func (s *Service) UpdateTransaction(ctx context.Context, id int64, update models.TransactionUpdate) (*models.Transaction, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	txn, err := s.repo.FindTransactionByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if update.CustomCategory != nil {
		txn.CustomCategory = *update.CustomCategory
	}
	if update.Subcategory != nil {
		txn.Subcategory = *update.Subcategory
	}
	if update.Notes != nil {
		txn.Notes = *update.Notes
	}
	if update.IsRecurring != nil {
		txn.IsRecurring = *update.IsRecurring
	}

	if err := s.repo.UpdateTransaction(ctx, txn); err != nil {
		return nil, err
	}

	s.log.Infof("Transaction %d updated for user %d", id, userID)
	return txn, nil
}

// Summary aggregates the user's transactions over the trailing window
func (s *Service) Summary(ctx context.Context, days int) (models.TransactionSummary, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return models.TransactionSummary{}, err
	}
	if days <= 0 {
		days = defaultSummaryDays
	}

	now := time.Now().UTC()
	txns, err := s.repo.TransactionsInRange(ctx, userID, now.AddDate(0, 0, -days), now)
	if err != nil {
		return models.TransactionSummary{}, err
	}
	return analytics.Summarize(s.resolver, txns), nil
}

// ImportStatement parses a camt.053 statement and stores its entries as
// transactions on the given account. Entries already imported, matched
// by their statement reference, are skipped. Entries without a reference
// get a generated external ID and import as new rows each time.
func (s *Service) ImportStatement(ctx context.Context, accountID int64, data []byte) (int, int, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return 0, 0, err
	}

	account, err := s.ownedAccount(ctx, userID, accountID)
	if err != nil {
		return 0, 0, err
	}

	stmt, err := camt.Parse(data)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if stmt.Currency != "" && stmt.Currency != account.Currency {
		return 0, 0, fmt.Errorf("%w: statement currency %s does not match account currency %s",
			ErrInvalidInput, stmt.Currency, account.Currency)
	}

	txns := make([]models.Transaction, 0, len(stmt.Entries))
	for _, entry := range stmt.Entries {
		if entry.Currency != "" && entry.Currency != account.Currency {
			return 0, 0, fmt.Errorf("%w: entry currency %s does not match account currency %s",
				ErrInvalidInput, entry.Currency, account.Currency)
		}
		txnType := models.TransactionTypeDebit
		if entry.IsCredit() {
			txnType = models.TransactionTypeCredit
		}
		externalID := entry.Reference
		if externalID == "" {
			externalID = uuid.NewString()
		}
		txns = append(txns, models.Transaction{
			UserID:       userID,
			AccountID:    accountID,
			Amount:       entry.Amount.Abs(),
			Name:         entry.Description,
			MerchantName: entry.Merchant,
			Date:         entry.BookingDate,
			Type:         txnType,
			ExternalID:   externalID,
		})
	}

	imported, skipped, err := s.repo.ImportTransactions(ctx, txns)
	if err != nil {
		return 0, 0, err
	}

	s.log.Infof("Statement imported for user %d: %d new, %d skipped", userID, imported, skipped)
	return imported, skipped, nil
}
