package analytics

import (
	"sort"
	"time"

	"github.com/akarpov/finance-tracker/internal/models"
)

// summaryTopCategories caps the category ranking in a summary.
const summaryTopCategories = 5

// Summarize aggregates transactions into period totals, the top spending
// categories and a per-day income/expense series sorted by date.
func Summarize(resolver *Resolver, txns []models.Transaction) models.TransactionSummary {
	var totalIncome, totalExpenses float64
	byDay := make(map[time.Time]*models.DailyTotal)

	for _, t := range txns {
		amount := absAmount(t)
		day := dayKey(t.Date)
		entry, ok := byDay[day]
		if !ok {
			entry = &models.DailyTotal{Date: day.Format("2006-01-02")}
			byDay[day] = entry
		}
		if t.IsIncome() {
			totalIncome += amount
			entry.Income += amount
		} else if t.IsExpense() {
			totalExpenses += amount
			entry.Expenses += amount
		}
	}

	top := rankCategories(resolver.DebitTotals(txns))
	if len(top) > summaryTopCategories {
		top = top[:summaryTopCategories]
	}

	days := make([]time.Time, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	daily := make([]models.DailyTotal, 0, len(days))
	for _, day := range days {
		daily = append(daily, *byDay[day])
	}

	return models.TransactionSummary{
		TotalIncome:      totalIncome,
		TotalExpenses:    totalExpenses,
		NetAmount:        totalIncome - totalExpenses,
		TransactionCount: len(txns),
		TopCategories:    top,
		DailyTotals:      daily,
	}
}
