package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction types. Amounts are stored positive; Type alone decides
// whether money left (debit) or entered (credit) the account.
const (
	TransactionTypeDebit  = "debit"
	TransactionTypeCredit = "credit"
)

// Transaction represents a financial transaction
type Transaction struct {
	ID             int64           `json:"id"`
	UserID         int64           `json:"user_id"`
	AccountID      int64           `json:"account_id"`
	Amount         decimal.Decimal `json:"amount"`
	Name           string          `json:"name"`
	MerchantName   string          `json:"merchant_name,omitempty"`
	Date           time.Time       `json:"date"`
	Category       []string        `json:"category,omitempty"` // provider category hierarchy
	CustomCategory string          `json:"custom_category,omitempty"`
	Subcategory    string          `json:"subcategory,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	Type           string          `json:"transaction_type"`
	Pending        bool            `json:"pending"`
	IsRecurring    bool            `json:"is_recurring"`
	ExternalID     string          `json:"external_id,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// IsExpense reports whether the transaction is a debit.
func (t Transaction) IsExpense() bool {
	return t.Type == TransactionTypeDebit
}

// IsIncome reports whether the transaction is a credit.
func (t Transaction) IsIncome() bool {
	return t.Type == TransactionTypeCredit
}

// TransactionFilter narrows transaction listings.
type TransactionFilter struct {
	AccountID int64
	Category  string
	StartDate time.Time
	EndDate   time.Time
	Limit     int
	Offset    int
}

// TransactionUpdate carries the user-editable transaction fields. Nil
// fields are left unchanged.
type TransactionUpdate struct {
	CustomCategory *string `json:"custom_category"`
	Subcategory    *string `json:"subcategory"`
	Notes          *string `json:"notes"`
	IsRecurring    *bool   `json:"is_recurring"`
}
