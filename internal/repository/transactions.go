package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/akarpov/finance-tracker/internal/models"
)

const transactionColumns = `id, user_id, account_id, amount, name, merchant_name, date, category,
	custom_category, subcategory, notes, transaction_type, pending, is_recurring, external_id,
	created_at, updated_at`

// Listing page size bounds.
const (
	defaultListLimit = 50
	maxListLimit     = 1000
)

// CreateTransaction inserts a transaction and adjusts the account balance
// in one database transaction.
func (r *Repository) CreateTransaction(ctx context.Context, txn *models.Transaction) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO finance.transactions (user_id, account_id, amount, name, merchant_name, date,
			category, custom_category, subcategory, notes, transaction_type, pending, is_recurring,
			external_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err = tx.QueryRowContext(ctx, query,
		txn.UserID, txn.AccountID, txn.Amount, txn.Name, nullString(txn.MerchantName), txn.Date,
		pq.Array(txn.Category), nullString(txn.CustomCategory), nullString(txn.Subcategory),
		nullString(txn.Notes), txn.Type, txn.Pending, txn.IsRecurring, nullString(txn.ExternalID)).
		Scan(&txn.ID, &txn.CreatedAt, &txn.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	if err := applyBalance(ctx, tx, txn); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ImportTransactions inserts a batch of transactions, skipping any whose
// external id was already imported for the user. Returns how many rows
// were inserted and how many were skipped as duplicates.
func (r *Repository) ImportTransactions(ctx context.Context, txns []models.Transaction) (int, int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO finance.transactions (user_id, account_id, amount, name, merchant_name, date,
			category, custom_category, subcategory, notes, transaction_type, pending, is_recurring,
			external_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT (user_id, external_id) WHERE external_id IS NOT NULL DO NOTHING
		RETURNING id`

	var imported, skipped int
	for i := range txns {
		txn := &txns[i]
		var id int64
		err := tx.QueryRowContext(ctx, query,
			txn.UserID, txn.AccountID, txn.Amount, txn.Name, nullString(txn.MerchantName), txn.Date,
			pq.Array(txn.Category), nullString(txn.CustomCategory), nullString(txn.Subcategory),
			nullString(txn.Notes), txn.Type, txn.Pending, txn.IsRecurring, nullString(txn.ExternalID)).
			Scan(&id)
		if err == sql.ErrNoRows {
			skipped++
			continue
		}
		if err != nil {
			return 0, 0, fmt.Errorf("failed to import transaction: %w", err)
		}
		txn.ID = id
		imported++
		if err := applyBalance(ctx, tx, txn); err != nil {
			return 0, 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return imported, skipped, nil
}

// ListTransactions retrieves a user's transactions, newest first, narrowed
// by the optional filter fields.
func (r *Repository) ListTransactions(ctx context.Context, userID int64, filter models.TransactionFilter) ([]models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM finance.transactions
		WHERE user_id = $1`
	args := []interface{}{userID}

	if filter.AccountID != 0 {
		args = append(args, filter.AccountID)
		query += fmt.Sprintf(" AND account_id = $%d", len(args))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		query += fmt.Sprintf(" AND (custom_category = $%d OR $%d = ANY(category))", len(args), len(args))
	}
	if !filter.StartDate.IsZero() {
		args = append(args, filter.StartDate)
		query += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if !filter.EndDate.IsZero() {
		args = append(args, filter.EndDate)
		query += fmt.Sprintf(" AND date <= $%d", len(args))
	}

	query += " ORDER BY date DESC, id DESC"

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	args = append(args, limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	return r.queryTransactions(ctx, query, args...)
}

// FindTransactionByID retrieves one of the user's transactions by id
func (r *Repository) FindTransactionByID(ctx context.Context, userID, id int64) (*models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM finance.transactions
		WHERE user_id = $1 AND id = $2`
	txns, err := r.queryTransactions(ctx, query, userID, id)
	if err != nil {
		return nil, err
	}
	if len(txns) == 0 {
		return nil, fmt.Errorf("transaction %d: %w", id, ErrNotFound)
	}
	return &txns[0], nil
}

// UpdateTransaction saves the user-editable transaction fields
func (r *Repository) UpdateTransaction(ctx context.Context, txn *models.Transaction) error {
	query := `
		UPDATE finance.transactions
		SET custom_category = $1, subcategory = $2, notes = $3, is_recurring = $4, updated_at = CURRENT_TIMESTAMP
		WHERE user_id = $5 AND id = $6
		RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query,
		nullString(txn.CustomCategory), nullString(txn.Subcategory), nullString(txn.Notes),
		txn.IsRecurring, txn.UserID, txn.ID).
		Scan(&txn.UpdatedAt)
	if err == sql.ErrNoRows {
		return fmt.Errorf("transaction %d: %w", txn.ID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	return nil
}

// TransactionsInRange retrieves a user's transactions between two dates,
// oldest first.
func (r *Repository) TransactionsInRange(ctx context.Context, userID int64, from, to time.Time) ([]models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM finance.transactions
		WHERE user_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date ASC, id ASC`
	return r.queryTransactions(ctx, query, userID, from, to)
}

// TransactionsByUser retrieves a user's full history, newest first
func (r *Repository) TransactionsByUser(ctx context.Context, userID int64) ([]models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM finance.transactions
		WHERE user_id = $1
		ORDER BY date DESC, id DESC`
	return r.queryTransactions(ctx, query, userID)
}

func (r *Repository) queryTransactions(ctx context.Context, query string, args ...interface{}) ([]models.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var txns []models.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	return txns, nil
}

func scanTransaction(rows *sql.Rows) (models.Transaction, error) {
	var (
		txn            models.Transaction
		merchantName   sql.NullString
		customCategory sql.NullString
		subcategory    sql.NullString
		notes          sql.NullString
		externalID     sql.NullString
	)
	err := rows.Scan(
		&txn.ID, &txn.UserID, &txn.AccountID, &txn.Amount, &txn.Name, &merchantName,
		&txn.Date, pq.Array(&txn.Category), &customCategory, &subcategory, &notes,
		&txn.Type, &txn.Pending, &txn.IsRecurring, &externalID, &txn.CreatedAt, &txn.UpdatedAt)
	if err != nil {
		return models.Transaction{}, err
	}
	txn.MerchantName = merchantName.String
	txn.CustomCategory = customCategory.String
	txn.Subcategory = subcategory.String
	txn.Notes = notes.String
	txn.ExternalID = externalID.String
	return txn, nil
}

func applyBalance(ctx context.Context, tx *sql.Tx, txn *models.Transaction) error {
	delta := txn.Amount
	if txn.Type == models.TransactionTypeDebit {
		delta = delta.Neg()
	}
	query := `
		UPDATE finance.accounts
		SET balance = balance + $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2`
	if _, err := tx.ExecContext(ctx, query, delta, txn.AccountID); err != nil {
		return fmt.Errorf("failed to update account balance: %w", err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
