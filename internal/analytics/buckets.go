package analytics

import (
	"math"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/akarpov/finance-tracker/internal/models"
)

// monthFlow holds income and expense totals for one calendar month.
type monthFlow struct {
	Income   float64
	Expenses float64
}

// monthKey is the first day of the calendar month containing t, in UTC.
func monthKey(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// dayKey is t truncated to its calendar day, in UTC.
func dayKey(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// monthlyFlows folds transactions into per-month income and expense totals.
// Credits count as income, everything else as expenses.
func monthlyFlows(txns []models.Transaction) map[time.Time]monthFlow {
	flows := make(map[time.Time]monthFlow)
	for _, t := range txns {
		key := monthKey(t.Date)
		flow := flows[key]
		if t.IsIncome() {
			flow.Income += absAmount(t)
		} else {
			flow.Expenses += absAmount(t)
		}
		flows[key] = flow
	}
	return flows
}

// monthlyDebitTotals folds debit transactions into per-month absolute totals.
func monthlyDebitTotals(txns []models.Transaction) map[time.Time]float64 {
	totals := make(map[time.Time]float64)
	for _, t := range txns {
		if t.IsExpense() {
			totals[monthKey(t.Date)] += absAmount(t)
		}
	}
	return totals
}

// dailyDebitTotals folds debit transactions into per-day absolute totals.
func dailyDebitTotals(txns []models.Transaction) map[time.Time]float64 {
	totals := make(map[time.Time]float64)
	for _, t := range txns {
		if t.IsExpense() {
			totals[dayKey(t.Date)] += absAmount(t)
		}
	}
	return totals
}

// sortedMonths returns the bucket keys in ascending order.
func sortedMonths(buckets map[time.Time]float64) []time.Time {
	months := make([]time.Time, 0, len(buckets))
	for m := range buckets {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })
	return months
}

// mean returns the arithmetic mean of xs, or 0 for an empty slice.
func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// stddev returns the population standard deviation of xs.
func stddev(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := mean(xs)
	var sum float64
	for _, x := range xs {
		d := x - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(xs)))
}

// slope fits a least-squares line over ys indexed 0..n-1 and returns its
// coefficient. Fewer than two points yield 0.
func slope(ys []float64) float64 {
	n := len(ys)
	if n < 2 {
		return 0
	}
	xMean := float64(n-1) / 2
	yMean := mean(ys)
	var num, den float64
	for i, y := range ys {
		dx := float64(i) - xMean
		num += dx * (y - yMean)
		den += dx * dx
	}
	if den == 0 {
		return 0
	}
	return num / den
}

// titleCase uppercases the first letter of every word and lowercases the
// rest, treating any non-letter as a word boundary.
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
		} else {
			b.WriteRune(r)
			prevLetter = false
		}
	}
	return b.String()
}
