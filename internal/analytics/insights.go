package analytics

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/akarpov/finance-tracker/internal/models"
)

const (
	// maxInsights caps how many insights one request returns.
	maxInsights = 10
	// minTrendTransactions is the history floor for trend detection.
	minTrendTransactions = 10
	// minAnomalyTransactions is the history floor for anomaly detection.
	minAnomalyTransactions = 20
	// anomalyZScore flags daily totals this many deviations from the mean.
	anomalyZScore = 2.0
	// savingsRecommendationFloor skips categories below this spend.
	savingsRecommendationFloor = 100.0
)

// InsightEngine runs rule-based detectors over a user's full history and
// returns the highest-confidence findings.
type InsightEngine struct {
	transactions TransactionSource
	resolver     *Resolver
	log          *logrus.Logger
	now          func() time.Time
}

// NewInsightEngine initializes an insight engine.
func NewInsightEngine(src TransactionSource, resolver *Resolver, log *logrus.Logger) *InsightEngine {
	return &InsightEngine{transactions: src, resolver: resolver, log: log, now: time.Now}
}

// GenerateInsights collects insights from every detector, sorted by
// confidence descending and capped at maxInsights. A user without history
// gets a welcome insight; detectors that find nothing contribute nothing.
func (e *InsightEngine) GenerateInsights(ctx context.Context, userID int64) []models.Insight {
	txns, err := e.transactions.TransactionsByUser(ctx, userID)
	if err != nil {
		e.log.Errorf("Failed to load transactions for insights: %v", err)
		return e.defaultInsights()
	}
	if len(txns) == 0 {
		return e.defaultInsights()
	}

	now := e.now().UTC()
	insights := make([]models.Insight, 0)
	insights = append(insights, e.spendingTrends(txns, now)...)
	insights = append(insights, e.spendingAnomalies(txns, now)...)
	insights = append(insights, e.savingsRecommendations(txns, now)...)
	insights = append(insights, e.categoryPatterns(txns, now)...)
	insights = append(insights, e.budgetIssues(txns, now)...)

	sort.SliceStable(insights, func(i, j int) bool {
		return insights[i].ConfidenceScore > insights[j].ConfidenceScore
	})
	if len(insights) > maxInsights {
		insights = insights[:maxInsights]
	}
	return insights
}

// spendingTrends compares the two most recent months of expenses and
// reports changes beyond 20% in either direction.
func (e *InsightEngine) spendingTrends(txns []models.Transaction, now time.Time) []models.Insight {
	if len(txns) < minTrendTransactions {
		return nil
	}

	flows := monthlyFlows(txns)
	if len(flows) < 2 {
		return nil
	}
	months := make([]time.Time, 0, len(flows))
	for month := range flows {
		months = append(months, month)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	current := flows[months[len(months)-1]].Expenses
	previous := flows[months[len(months)-2]].Expenses
	if previous == 0 {
		return nil
	}

	change := (current - previous) / previous * 100
	switch {
	case change > 20:
		return []models.Insight{{
			Type:            models.InsightTypeTrend,
			Title:           "Spending Increase Alert",
			Description:     fmt.Sprintf("Your spending increased by %.1f%% this month compared to last month. Consider reviewing your budget.", change),
			ConfidenceScore: 0.85,
			CreatedAt:       now,
		}}
	case change < -20:
		return []models.Insight{{
			Type:            models.InsightTypeTrend,
			Title:           "Great Spending Control",
			Description:     fmt.Sprintf("Your spending decreased by %.1f%% this month! Keep up the good work.", math.Abs(change)),
			ConfidenceScore: 0.80,
			CreatedAt:       now,
		}}
	}
	return nil
}

// spendingAnomalies flags days whose debit total sits more than two
// standard deviations from the user's daily average, newest day first.
func (e *InsightEngine) spendingAnomalies(txns []models.Transaction, now time.Time) []models.Insight {
	if len(txns) < minAnomalyTransactions {
		return nil
	}

	daily := dailyDebitTotals(txns)
	if len(daily) == 0 {
		return nil
	}
	amounts := make([]float64, 0, len(daily))
	for _, amount := range daily {
		amounts = append(amounts, amount)
	}
	m := mean(amounts)
	sd := stddev(amounts)
	if sd == 0 {
		return nil
	}

	days := make([]time.Time, 0, len(daily))
	for day := range daily {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })

	var insights []models.Insight
	for _, day := range days {
		amount := daily[day]
		if math.Abs(amount-m)/sd <= anomalyZScore {
			continue
		}
		insights = append(insights, models.Insight{
			Type:            models.InsightTypeAnomaly,
			Title:           "Unusual Spending Day",
			Description:     fmt.Sprintf("On %s, you spent $%.2f, which is significantly higher than your average daily spending of $%.2f.", day.Format("January 02"), amount, m),
			ConfidenceScore: 0.90,
			CreatedAt:       now,
		})
	}
	return insights
}

// savingsRecommendations suggests a 20% cut in each of the top three
// spending categories worth more than the recommendation floor.
func (e *InsightEngine) savingsRecommendations(txns []models.Transaction, now time.Time) []models.Insight {
	top := rankCategories(e.resolver.DebitTotals(txns))
	if len(top) > 3 {
		top = top[:3]
	}

	var insights []models.Insight
	for _, spend := range top {
		if spend.Amount <= savingsRecommendationFloor {
			continue
		}
		insights = append(insights, models.Insight{
			Type:            models.InsightTypeRecommendation,
			Title:           "Save on " + titleCase(spend.Category),
			Description:     fmt.Sprintf("You spent $%.2f on %s this month. Consider reducing this by 20%% to save $%.2f monthly.", spend.Amount, strings.ToLower(spend.Category), spend.Amount*0.2),
			Category:        spend.Category,
			ConfidenceScore: 0.75,
			CreatedAt:       now,
		})
	}
	return insights
}

// categoryPatterns finds categories whose spending concentrates on a
// particular day of the week.
func (e *InsightEngine) categoryPatterns(txns []models.Transaction, now time.Time) []models.Insight {
	byCategory := make(map[string]map[time.Weekday]float64)
	for _, t := range txns {
		if !t.IsExpense() {
			continue
		}
		category := e.resolver.Resolve(t)
		if byCategory[category] == nil {
			byCategory[category] = make(map[time.Weekday]float64)
		}
		byCategory[category][t.Date.UTC().Weekday()] += absAmount(t)
	}

	categories := make([]string, 0, len(byCategory))
	for category := range byCategory {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	var insights []models.Insight
	for _, category := range categories {
		totals := byCategory[category]
		if len(totals) < 3 {
			continue
		}

		first := true
		var maxDay, minDay time.Weekday
		for wd := time.Sunday; wd <= time.Saturday; wd++ {
			amount, ok := totals[wd]
			if !ok {
				continue
			}
			if first {
				maxDay, minDay = wd, wd
				first = false
				continue
			}
			if amount > totals[maxDay] {
				maxDay = wd
			}
			if amount < totals[minDay] {
				minDay = wd
			}
		}
		if totals[maxDay] <= totals[minDay]*2 {
			continue
		}

		insights = append(insights, models.Insight{
			Type:            models.InsightTypePattern,
			Title:           titleCase(category) + " Spending Pattern",
			Description:     fmt.Sprintf("You tend to spend more on %s on %ss ($%.2f) compared to %ss ($%.2f).", strings.ToLower(category), maxDay, totals[maxDay], minDay, totals[minDay]),
			Category:        category,
			ConfidenceScore: 0.70,
			CreatedAt:       now,
		})
	}
	return insights
}

// budgetIssues checks the current calendar month's expense-to-income
// ratio and reports either extreme.
func (e *InsightEngine) budgetIssues(txns []models.Transaction, now time.Time) []models.Insight {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	var income, expenses float64
	for _, t := range txns {
		if t.Date.UTC().Before(monthStart) {
			continue
		}
		if t.IsIncome() {
			income += absAmount(t)
		} else if t.IsExpense() {
			expenses += absAmount(t)
		}
	}
	if income == 0 {
		return nil
	}

	ratio := expenses / income
	switch {
	case ratio > 0.9:
		return []models.Insight{{
			Type:            models.InsightTypeAlert,
			Title:           "High Expense Ratio",
			Description:     fmt.Sprintf("Your expenses are %.1f%% of your income this month. Consider reducing spending to improve savings.", ratio*100),
			ConfidenceScore: 0.85,
			CreatedAt:       now,
		}}
	case ratio < 0.5:
		return []models.Insight{{
			Type:            models.InsightTypePositive,
			Title:           "Excellent Savings Rate",
			Description:     fmt.Sprintf("Great job! You're only spending %.1f%% of your income, leaving plenty for savings and investments.", ratio*100),
			ConfidenceScore: 0.80,
			CreatedAt:       now,
		}}
	}
	return nil
}

// defaultInsights welcomes a user who has no transaction history yet.
func (e *InsightEngine) defaultInsights() []models.Insight {
	return []models.Insight{{
		Type:            models.InsightTypeInfo,
		Title:           "Welcome to Finance Tracker!",
		Description:     "Start connecting your bank accounts and adding transactions to receive personalized AI insights.",
		ConfidenceScore: 1.0,
		CreatedAt:       e.now().UTC(),
	}}
}
