package analytics

import (
	"context"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/akarpov/finance-tracker/internal/models"
)

// healthWindowDays is how far back the health score looks.
const healthWindowDays = 365

// metricWeights composes the six sub-metrics into the overall score.
// Weights sum to 1.0; if a metric is ever absent the remainder is
// renormalized so the included weights still sum to 1.0.
var metricWeights = map[string]float64{
	"income_expense_ratio": 0.25,
	"savings_rate":         0.25,
	"spending_consistency": 0.15,
	"emergency_fund_score": 0.20,
	"debt_management":      0.10,
	"category_diversity":   0.05,
}

// metricOrder fixes the evaluation order for recommendations.
var metricOrder = []string{
	"income_expense_ratio",
	"savings_rate",
	"spending_consistency",
	"emergency_fund_score",
	"debt_management",
	"category_diversity",
}

// HealthScoreEngine computes the weighted financial health score.
type HealthScoreEngine struct {
	transactions TransactionSource
	resolver     *Resolver
	log          *logrus.Logger
	now          func() time.Time
}

// NewHealthScoreEngine initializes a health score engine.
func NewHealthScoreEngine(src TransactionSource, resolver *Resolver, log *logrus.Logger) *HealthScoreEngine {
	return &HealthScoreEngine{transactions: src, resolver: resolver, log: log, now: time.Now}
}

// CalculateHealthScore scores the user's trailing year of transactions.
// It never fails: with no history or an unavailable repository it returns
// the neutral default score.
func (e *HealthScoreEngine) CalculateHealthScore(ctx context.Context, userID int64) models.HealthScore {
	now := e.now().UTC()
	from := now.AddDate(0, 0, -healthWindowDays)

	txns, err := e.transactions.TransactionsInRange(ctx, userID, from, now)
	if err != nil {
		e.log.Errorf("Failed to load transactions for health score: %v", err)
		return e.defaultHealthScore()
	}
	if len(txns) == 0 {
		return e.defaultHealthScore()
	}

	metrics := map[string]models.HealthMetric{
		"income_expense_ratio": incomeExpenseRatio(txns),
		"savings_rate":         savingsRate(txns),
		"spending_consistency": spendingConsistency(txns),
		"emergency_fund_score": emergencyFundScore(txns),
		"debt_management":      debtManagement(),
		"category_diversity":   e.categoryDiversity(txns),
	}

	overall := overallScore(metrics)
	return models.HealthScore{
		OverallScore:    overall,
		HealthGrade:     healthGrade(overall),
		Metrics:         metrics,
		Recommendations: recommendations(metrics),
		CalculatedAt:    e.now().UTC(),
	}
}

// incomeExpenseRatio scores total expenses against total income over the
// window. Lower ratios score higher.
func incomeExpenseRatio(txns []models.Transaction) models.HealthMetric {
	flows := monthlyFlows(txns)
	if len(flows) == 0 {
		return models.HealthMetric{Score: 0, Status: "insufficient_data", Ratio: floatPtr(0)}
	}

	var totalIncome, totalExpenses float64
	for _, flow := range flows {
		totalIncome += flow.Income
		totalExpenses += flow.Expenses
	}
	if totalIncome == 0 {
		return models.HealthMetric{Score: 0, Status: "no_income", Ratio: floatPtr(0)}
	}

	ratio := totalExpenses / totalIncome
	var score float64
	var status string
	switch {
	case ratio <= 0.5:
		score, status = 100, "excellent"
	case ratio <= 0.7:
		score, status = 80, "good"
	case ratio <= 0.9:
		score, status = 60, "fair"
	case ratio <= 1.1:
		score, status = 40, "concerning"
	default:
		score, status = 20, "critical"
	}

	months := float64(len(flows))
	return models.HealthMetric{
		Score:           score,
		Status:          status,
		Ratio:           floatPtr(ratio),
		MonthlyIncome:   floatPtr(totalIncome / months),
		MonthlyExpenses: floatPtr(totalExpenses / months),
	}
}

// savingsRate scores the share of income left after expenses.
func savingsRate(txns []models.Transaction) models.HealthMetric {
	flows := monthlyFlows(txns)
	if len(flows) == 0 {
		return models.HealthMetric{Score: 0, Status: "insufficient_data", Rate: floatPtr(0)}
	}

	var totalIncome, totalExpenses float64
	for _, flow := range flows {
		totalIncome += flow.Income
		totalExpenses += flow.Expenses
	}
	if totalIncome == 0 {
		return models.HealthMetric{Score: 0, Status: "no_income", Rate: floatPtr(0)}
	}

	rate := (totalIncome - totalExpenses) / totalIncome
	var score float64
	var status string
	switch {
	case rate >= 0.3:
		score, status = 100, "excellent"
	case rate >= 0.2:
		score, status = 85, "very_good"
	case rate >= 0.1:
		score, status = 70, "good"
	case rate >= 0:
		score, status = 50, "fair"
	default:
		score, status = 20, "negative"
	}

	return models.HealthMetric{
		Score:          score,
		Status:         status,
		Rate:           floatPtr(rate),
		MonthlySavings: floatPtr((totalIncome - totalExpenses) / float64(len(flows))),
	}
}

// spendingConsistency scores the coefficient of variation of monthly
// expense totals. Lower variation scores higher.
func spendingConsistency(txns []models.Transaction) models.HealthMetric {
	monthly := monthlyDebitTotals(txns)
	if len(monthly) < 3 {
		return models.HealthMetric{Score: 50, Status: "insufficient_data", Consistency: floatPtr(0)}
	}

	amounts := make([]float64, 0, len(monthly))
	for _, amount := range monthly {
		amounts = append(amounts, amount)
	}
	m := mean(amounts)
	if m == 0 {
		return models.HealthMetric{Score: 50, Status: "no_expenses", Consistency: floatPtr(0)}
	}

	cv := stddev(amounts) / m
	var score float64
	var status string
	switch {
	case cv <= 0.2:
		score, status = 100, "very_consistent"
	case cv <= 0.4:
		score, status = 80, "consistent"
	case cv <= 0.6:
		score, status = 60, "moderate"
	case cv <= 0.8:
		score, status = 40, "inconsistent"
	default:
		score, status = 20, "highly_inconsistent"
	}

	return models.HealthMetric{
		Score:                  score,
		Status:                 status,
		Consistency:            floatPtr(1 - math.Min(cv, 1)),
		CoefficientOfVariation: floatPtr(cv),
	}
}

// emergencyFundScore rates reserve coverage in months of expenses. Without
// account balance data the covered months are a fixed assumption; the
// scoring ladder is real so the metric upgrades cleanly once balances are
// integrated.
func emergencyFundScore(txns []models.Transaction) models.HealthMetric {
	monthly := monthlyDebitTotals(txns)
	var total float64
	for _, amount := range monthly {
		total += amount
	}
	if len(monthly) == 0 || total == 0 {
		return models.HealthMetric{Score: 50, Status: "insufficient_data", MonthsCovered: intPtr(0)}
	}

	const fundMonths = 3 // placeholder until balance data is wired in
	var score float64
	var status string
	switch {
	case fundMonths >= 6:
		score, status = 100, "excellent"
	case fundMonths >= 4:
		score, status = 80, "good"
	case fundMonths >= 3:
		score, status = 60, "adequate"
	case fundMonths >= 2:
		score, status = 40, "inadequate"
	default:
		score, status = 20, "critical"
	}

	return models.HealthMetric{
		Score:             score,
		Status:            status,
		MonthsCovered:     intPtr(fundMonths),
		RecommendedMonths: intPtr(6),
	}
}

// debtManagement is a fixed placeholder: scoring debt needs loan and
// credit account data this engine does not have.
func debtManagement() models.HealthMetric {
	return models.HealthMetric{
		Score:  70,
		Status: "good",
		Note:   "Requires debt account integration",
	}
}

// categoryDiversity scores the Shannon entropy of debit counts across
// resolved categories, normalized by the maximum possible entropy.
func (e *HealthScoreEngine) categoryDiversity(txns []models.Transaction) models.HealthMetric {
	counts := e.resolver.DebitCounts(txns)
	if len(counts) == 0 {
		return models.HealthMetric{Score: 0, Status: "no_expenses", Diversity: floatPtr(0)}
	}

	var total int
	for _, count := range counts {
		total += count
	}
	if total == 0 {
		return models.HealthMetric{Score: 0, Status: "no_expenses", Diversity: floatPtr(0)}
	}

	var entropy float64
	for _, count := range counts {
		p := float64(count) / float64(total)
		if p > 0 {
			entropy -= p * math.Log2(p)
		}
	}
	maxEntropy := math.Log2(float64(len(counts)))
	var normalized float64
	if maxEntropy > 0 {
		normalized = entropy / maxEntropy
	}

	var score float64
	var status string
	switch {
	case normalized >= 0.8:
		score, status = 100, "excellent"
	case normalized >= 0.6:
		score, status = 80, "good"
	case normalized >= 0.4:
		score, status = 60, "moderate"
	case normalized >= 0.2:
		score, status = 40, "low"
	default:
		score, status = 20, "very_low"
	}

	return models.HealthMetric{
		Score:           score,
		Status:          status,
		Diversity:       floatPtr(normalized),
		CategoriesCount: intPtr(len(counts)),
	}
}

// overallScore combines metric scores using metricWeights, renormalizing
// over whichever metrics are present, rounded to one decimal.
func overallScore(metrics map[string]models.HealthMetric) float64 {
	var totalScore, totalWeight float64
	for name, weight := range metricWeights {
		metric, ok := metrics[name]
		if !ok {
			continue
		}
		totalScore += metric.Score * weight
		totalWeight += weight
	}
	if totalWeight == 0 {
		return 0
	}
	return math.Round(totalScore/totalWeight*10) / 10
}

// healthGrade maps a score to its letter grade band.
func healthGrade(score float64) string {
	switch {
	case score >= 90:
		return "A+"
	case score >= 85:
		return "A"
	case score >= 80:
		return "A-"
	case score >= 75:
		return "B+"
	case score >= 70:
		return "B"
	case score >= 65:
		return "B-"
	case score >= 60:
		return "C+"
	case score >= 55:
		return "C"
	case score >= 50:
		return "C-"
	case score >= 40:
		return "D"
	default:
		return "F"
	}
}

// statusIn reports whether the metric's status is one of the given labels.
func statusIn(metrics map[string]models.HealthMetric, name string, statuses ...string) bool {
	metric, ok := metrics[name]
	if !ok {
		return false
	}
	for _, s := range statuses {
		if metric.Status == s {
			return true
		}
	}
	return false
}

// recommendations emits one message per metric whose status needs
// improvement, in metric evaluation order, with a positive default when
// nothing triggers.
func recommendations(metrics map[string]models.HealthMetric) []string {
	var recs []string
	for _, name := range metricOrder {
		switch name {
		case "income_expense_ratio":
			if statusIn(metrics, name, "concerning", "critical") {
				recs = append(recs, "Consider reducing monthly expenses or increasing income to improve your financial health.")
			}
		case "savings_rate":
			if statusIn(metrics, name, "fair", "negative") {
				recs = append(recs, "Aim to save at least 20% of your income. Start with small amounts and gradually increase.")
			}
		case "spending_consistency":
			if statusIn(metrics, name, "inconsistent", "highly_inconsistent") {
				recs = append(recs, "Create a monthly budget to help maintain consistent spending patterns.")
			}
		case "emergency_fund_score":
			if statusIn(metrics, name, "inadequate", "critical") {
				recs = append(recs, "Build an emergency fund covering 3-6 months of expenses for financial security.")
			}
		case "category_diversity":
			if statusIn(metrics, name, "low", "very_low") {
				recs = append(recs, "Diversify your spending categories to better track and manage your finances.")
			}
		}
	}
	if len(recs) == 0 {
		recs = append(recs, "Great job! Your financial health is in good shape. Keep maintaining these healthy habits.")
	}
	return recs
}

// defaultHealthScore is the neutral result for users without history.
func (e *HealthScoreEngine) defaultHealthScore() models.HealthScore {
	neutral := models.HealthMetric{Score: 50, Status: "insufficient_data"}
	return models.HealthScore{
		OverallScore: 50,
		HealthGrade:  "C",
		Metrics: map[string]models.HealthMetric{
			"income_expense_ratio": neutral,
			"savings_rate":         neutral,
			"spending_consistency": neutral,
			"emergency_fund_score": neutral,
			"debt_management":      neutral,
			"category_diversity":   neutral,
		},
		Recommendations: []string{"Start adding transactions to get personalized financial health insights."},
		CalculatedAt:    e.now().UTC(),
	}
}
