package analytics

import (
	"sort"
	"strings"

	"github.com/akarpov/finance-tracker/internal/models"
)

// FallbackCategory is assigned when no resolution stage matches.
const FallbackCategory = "Other"

// categoryRule maps name keywords to a category label.
type categoryRule struct {
	label    string
	keywords []string
}

// categoryRules is the canonical keyword table. Order matters: rules are
// tried top to bottom and the first keyword found in the transaction name
// wins, so more specific merchant keywords sit above generic ones.
var categoryRules = []categoryRule{
	{"Food & Drink", []string{"coffee", "starbucks", "restaurant", "cafe", "pizza", "mcdonald", "doordash", "grubhub"}},
	{"Transport", []string{"uber", "lyft", "taxi", "parking", "transit", "shell", "chevron", "gas station"}},
	{"Shopping", []string{"amazon", "walmart", "target", "ebay", "etsy"}},
	{"Groceries", []string{"grocery", "market", "whole foods", "safeway", "kroger", "trader joe"}},
	{"Housing", []string{"rent", "apartment", "mortgage"}},
	{"Income", []string{"salary", "paycheck", "payroll", "direct deposit"}},
	{"Entertainment", []string{"netflix", "spotify", "hulu", "cinema", "movie", "steam", "playstation"}},
	{"Health", []string{"pharmacy", "cvs", "walgreens", "doctor", "dental", "gym", "fitness"}},
	{"Utilities", []string{"electric", "water bill", "internet", "comcast", "verizon", "utility"}},
	{"Banking", []string{"atm", "bank fee", "overdraft", "interest charge", "transfer"}},
}

// Resolver resolves a transaction's effective category. One instance is
// shared by all engines so the rule table has a single owner.
type Resolver struct {
	rules []categoryRule
}

// NewResolver creates a resolver with the canonical rule table.
func NewResolver() *Resolver {
	return &Resolver{rules: categoryRules}
}

// Resolve returns the effective category for a transaction. Precedence:
// the user's custom category, then the provider's primary category, then
// the first keyword rule matching the transaction name (case-insensitive
// substring), then FallbackCategory.
func (r *Resolver) Resolve(txn models.Transaction) string {
	if txn.CustomCategory != "" {
		return txn.CustomCategory
	}
	if len(txn.Category) > 0 && txn.Category[0] != "" {
		return txn.Category[0]
	}
	name := strings.ToLower(txn.Name)
	for _, rule := range r.rules {
		for _, kw := range rule.keywords {
			if strings.Contains(name, kw) {
				return rule.label
			}
		}
	}
	return FallbackCategory
}

// DebitTotals sums absolute amounts of debit transactions per resolved
// category.
func (r *Resolver) DebitTotals(txns []models.Transaction) map[string]float64 {
	totals := make(map[string]float64)
	for _, t := range txns {
		if t.IsExpense() {
			totals[r.Resolve(t)] += absAmount(t)
		}
	}
	return totals
}

// DebitCounts counts debit transactions per resolved category.
func (r *Resolver) DebitCounts(txns []models.Transaction) map[string]int {
	counts := make(map[string]int)
	for _, t := range txns {
		if t.IsExpense() {
			counts[r.Resolve(t)]++
		}
	}
	return counts
}

// rankCategories orders categories by total descending. Equal totals fall
// back to name order so rankings are stable across runs.
func rankCategories(totals map[string]float64) []models.CategorySpend {
	ranked := make([]models.CategorySpend, 0, len(totals))
	for category, amount := range totals {
		ranked = append(ranked, models.CategorySpend{Category: category, Amount: amount})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Amount != ranked[j].Amount {
			return ranked[i].Amount > ranked[j].Amount
		}
		return ranked[i].Category < ranked[j].Category
	})
	return ranked
}
