package analytics

import (
	"context"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/akarpov/finance-tracker/internal/models"
)

const (
	// forecastWindowDays is how far back the engine looks for history.
	forecastWindowDays = 180
	// topForecastCategories caps how many categories get their own forecast.
	topForecastCategories = 5
	// minCategoryTransactions is the per-category history floor. The
	// overall forecast has no such floor, only the month minimum.
	minCategoryTransactions = 5
	// minForecastMonths is the minimum of distinct months with spend.
	minForecastMonths = 2
	// trendThreshold separates increasing/decreasing from stable slopes.
	trendThreshold = 0.1
)

// overallCategory labels the aggregate forecast across all categories.
const overallCategory = "Overall Spending"

// ForecastEngine produces per-category and overall spending forecasts.
type ForecastEngine struct {
	transactions TransactionSource
	resolver     *Resolver
	log          *logrus.Logger
	now          func() time.Time
}

// NewForecastEngine initializes a forecast engine.
func NewForecastEngine(src TransactionSource, resolver *Resolver, log *logrus.Logger) *ForecastEngine {
	return &ForecastEngine{transactions: src, resolver: resolver, log: log, now: time.Now}
}

// GenerateForecast forecasts spending daysAhead days out for the user's top
// spending categories plus an overall aggregate. It never fails: with no
// history or an unavailable repository it returns the default placeholder
// forecast, and categories with too little data are skipped.
func (e *ForecastEngine) GenerateForecast(ctx context.Context, userID int64, daysAhead int) []models.Forecast {
	now := e.now().UTC()
	from := now.AddDate(0, 0, -forecastWindowDays)

	txns, err := e.transactions.TransactionsInRange(ctx, userID, from, now)
	if err != nil {
		e.log.Errorf("Failed to load transactions for forecast: %v", err)
		return e.defaultForecast(daysAhead)
	}
	if len(txns) == 0 {
		return e.defaultForecast(daysAhead)
	}

	forecasts := make([]models.Forecast, 0, topForecastCategories+1)
	for _, category := range e.topSpendingCategories(txns) {
		if f, ok := e.forecastCategory(txns, category, daysAhead); ok {
			forecasts = append(forecasts, f)
		} else {
			e.log.Debugf("Skipping forecast for category %q: insufficient history", category)
		}
	}
	if f, ok := e.forecastOverall(txns, daysAhead); ok {
		forecasts = append(forecasts, f)
	}
	return forecasts
}

// ForecastAccuracy reports accuracy of past forecasts against actuals.
// TODO: compute from stored forecasts once forecast persistence exists;
// until then these are fixed placeholder values.
func (e *ForecastEngine) ForecastAccuracy() models.ForecastAccuracy {
	return models.ForecastAccuracy{
		OverallAccuracy:  0.75,
		CategoryAccuracy: 0.70,
		TrendAccuracy:    0.80,
	}
}

// topSpendingCategories ranks resolved debit categories by absolute spend
// and returns the top ones.
func (e *ForecastEngine) topSpendingCategories(txns []models.Transaction) []string {
	ranked := rankCategories(e.resolver.DebitTotals(txns))
	if len(ranked) > topForecastCategories {
		ranked = ranked[:topForecastCategories]
	}
	categories := make([]string, len(ranked))
	for i, c := range ranked {
		categories[i] = c.Category
	}
	return categories
}

// forecastCategory projects next month's spend for one category from its
// monthly totals. Returns false when the category lacks enough history.
func (e *ForecastEngine) forecastCategory(txns []models.Transaction, category string, daysAhead int) (models.Forecast, bool) {
	var categoryTxns []models.Transaction
	for _, t := range txns {
		if t.IsExpense() && e.resolver.Resolve(t) == category {
			categoryTxns = append(categoryTxns, t)
		}
	}
	if len(categoryTxns) < minCategoryTransactions {
		return models.Forecast{}, false
	}
	return e.forecastFromMonthly(monthlyDebitTotals(categoryTxns), category, daysAhead)
}

// forecastOverall projects next month's total spend across all categories.
// Unlike the per-category path it has no transaction-count floor.
func (e *ForecastEngine) forecastOverall(txns []models.Transaction, daysAhead int) (models.Forecast, bool) {
	return e.forecastFromMonthly(monthlyDebitTotals(txns), overallCategory, daysAhead)
}

func (e *ForecastEngine) forecastFromMonthly(monthly map[time.Time]float64, category string, daysAhead int) (models.Forecast, bool) {
	if len(monthly) < minForecastMonths {
		return models.Forecast{}, false
	}

	months := sortedMonths(monthly)
	amounts := make([]float64, len(months))
	for i, m := range months {
		amounts[i] = monthly[m]
	}

	s := slope(amounts)
	nextMonth := amounts[len(amounts)-1] + s
	sd := stddev(amounts)

	daily := nextMonth / 30
	return models.Forecast{
		Category:                category,
		ForecastAmount:          daily * float64(daysAhead),
		ConfidenceIntervalLower: math.Max(0, nextMonth-sd),
		ConfidenceIntervalUpper: nextMonth + sd,
		ForecastDate:            e.forecastDate(daysAhead),
		Trend:                   trendFor(s),
	}, true
}

func (e *ForecastEngine) forecastDate(daysAhead int) string {
	return e.now().UTC().AddDate(0, 0, daysAhead).Format("2006-01-02")
}

// defaultForecast is the cold-start placeholder for users without history.
func (e *ForecastEngine) defaultForecast(daysAhead int) []models.Forecast {
	return []models.Forecast{{
		Category:                "General Expenses",
		ForecastAmount:          500.00,
		ConfidenceIntervalLower: 300.00,
		ConfidenceIntervalUpper: 700.00,
		ForecastDate:            e.forecastDate(daysAhead),
		Trend:                   models.TrendStable,
	}}
}

func trendFor(slope float64) string {
	switch {
	case slope > trendThreshold:
		return models.TrendIncreasing
	case slope < -trendThreshold:
		return models.TrendDecreasing
	default:
		return models.TrendStable
	}
}
