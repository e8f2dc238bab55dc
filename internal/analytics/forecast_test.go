package analytics

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/akarpov/finance-tracker/internal/models"
)

func newTestForecastEngine(src *fakeTransactionSource) *ForecastEngine {
	engine := NewForecastEngine(src, NewResolver(), testLogger())
	engine.now = func() time.Time { return testNow }
	return engine
}

func TestGenerateForecast(t *testing.T) {
	ctx := context.Background()

	t.Run("rising category spend forecasts an increase", func(t *testing.T) {
		src := &fakeTransactionSource{txns: []models.Transaction{
			debit("Starbucks", 50, date(2024, time.April, 1)),
			debit("Starbucks", 50, date(2024, time.April, 15)),
			debit("Starbucks", 55, date(2024, time.May, 1)),
			debit("Starbucks", 55, date(2024, time.May, 15)),
			debit("Starbucks", 60, date(2024, time.June, 1)),
			debit("Starbucks", 60, date(2024, time.June, 15)),
		}}
		engine := newTestForecastEngine(src)

		forecasts := engine.GenerateForecast(ctx, 1, 30)
		assert.Len(t, forecasts, 2)

		category := forecasts[0]
		assert.Equal(t, "Food & Drink", category.Category)
		assert.Equal(t, models.TrendIncreasing, category.Trend)
		assert.InDelta(t, 130, category.ForecastAmount, 1e-9)
		sd := math.Sqrt(200.0 / 3.0)
		assert.InDelta(t, 130-sd, category.ConfidenceIntervalLower, 1e-9)
		assert.InDelta(t, 130+sd, category.ConfidenceIntervalUpper, 1e-9)
		assert.Equal(t, "2024-08-14", category.ForecastDate)

		overall := forecasts[1]
		assert.Equal(t, "Overall Spending", overall.Category)
		assert.InDelta(t, 130, overall.ForecastAmount, 1e-9)
	})

	t.Run("forecast amount scales with the horizon", func(t *testing.T) {
		src := &fakeTransactionSource{txns: []models.Transaction{
			debit("Starbucks", 50, date(2024, time.April, 1)),
			debit("Starbucks", 50, date(2024, time.April, 15)),
			debit("Starbucks", 55, date(2024, time.May, 1)),
			debit("Starbucks", 55, date(2024, time.May, 15)),
			debit("Starbucks", 60, date(2024, time.June, 1)),
			debit("Starbucks", 60, date(2024, time.June, 15)),
		}}
		engine := newTestForecastEngine(src)

		forecasts := engine.GenerateForecast(ctx, 1, 60)
		assert.Len(t, forecasts, 2)
		assert.InDelta(t, 260, forecasts[0].ForecastAmount, 1e-9)
		assert.Equal(t, "2024-09-13", forecasts[0].ForecastDate)
	})

	t.Run("constant spend is stable with a collapsed interval", func(t *testing.T) {
		src := &fakeTransactionSource{txns: []models.Transaction{
			debit("Starbucks", 50, date(2024, time.April, 1)),
			debit("Starbucks", 50, date(2024, time.April, 15)),
			debit("Starbucks", 50, date(2024, time.May, 1)),
			debit("Starbucks", 50, date(2024, time.May, 15)),
			debit("Starbucks", 50, date(2024, time.June, 1)),
			debit("Starbucks", 50, date(2024, time.June, 15)),
		}}
		engine := newTestForecastEngine(src)

		forecasts := engine.GenerateForecast(ctx, 1, 30)
		assert.Len(t, forecasts, 2)
		category := forecasts[0]
		assert.Equal(t, models.TrendStable, category.Trend)
		assert.InDelta(t, 100, category.ForecastAmount, 1e-9)
		assert.Equal(t, category.ConfidenceIntervalLower, category.ConfidenceIntervalUpper)
	})

	t.Run("thin categories are skipped but overall spending still forecasts", func(t *testing.T) {
		src := &fakeTransactionSource{txns: []models.Transaction{
			debit("Starbucks", 60, date(2024, time.April, 5)),
			debit("Starbucks", 60, date(2024, time.April, 20)),
			debit("Starbucks", 60, date(2024, time.May, 5)),
			debit("Starbucks", 60, date(2024, time.May, 20)),
		}}
		engine := newTestForecastEngine(src)

		forecasts := engine.GenerateForecast(ctx, 1, 30)
		assert.Len(t, forecasts, 1)
		assert.Equal(t, "Overall Spending", forecasts[0].Category)
		assert.Equal(t, models.TrendStable, forecasts[0].Trend)
	})

	t.Run("a single month of history forecasts nothing", func(t *testing.T) {
		src := &fakeTransactionSource{txns: []models.Transaction{
			debit("Starbucks", 50, date(2024, time.June, 1)),
			debit("Starbucks", 50, date(2024, time.June, 5)),
			debit("Starbucks", 50, date(2024, time.June, 10)),
			debit("Starbucks", 50, date(2024, time.June, 15)),
			debit("Starbucks", 50, date(2024, time.June, 20)),
			debit("Starbucks", 50, date(2024, time.June, 25)),
		}}
		engine := newTestForecastEngine(src)

		forecasts := engine.GenerateForecast(ctx, 1, 30)
		assert.NotNil(t, forecasts)
		assert.Empty(t, forecasts)
	})

	t.Run("only the top five categories are forecast", func(t *testing.T) {
		names := []struct {
			name  string
			total float64
		}{
			{"Starbucks", 600},
			{"Uber trip", 500},
			{"Amazon order", 400},
			{"Kroger", 300},
			{"Netflix", 200},
			{"CVS Pharmacy", 100},
		}
		var txns []models.Transaction
		for _, n := range names {
			per := n.total / 5
			txns = append(txns,
				debit(n.name, per, date(2024, time.May, 2)),
				debit(n.name, per, date(2024, time.May, 12)),
				debit(n.name, per, date(2024, time.May, 22)),
				debit(n.name, per, date(2024, time.June, 2)),
				debit(n.name, per, date(2024, time.June, 12)),
			)
		}
		engine := newTestForecastEngine(&fakeTransactionSource{txns: txns})

		forecasts := engine.GenerateForecast(ctx, 1, 30)
		assert.Len(t, forecasts, 6)

		got := make([]string, 0, len(forecasts))
		for _, f := range forecasts {
			got = append(got, f.Category)
		}
		assert.Equal(t, []string{"Food & Drink", "Transport", "Shopping", "Groceries", "Entertainment", "Overall Spending"}, got)
		assert.NotContains(t, got, "Health")
	})

	t.Run("no history falls back to the default forecast", func(t *testing.T) {
		engine := newTestForecastEngine(&fakeTransactionSource{})

		forecasts := engine.GenerateForecast(ctx, 1, 30)
		assert.Equal(t, []models.Forecast{{
			Category:                "General Expenses",
			ForecastAmount:          500.00,
			ConfidenceIntervalLower: 300.00,
			ConfidenceIntervalUpper: 700.00,
			ForecastDate:            "2024-08-14",
			Trend:                   models.TrendStable,
		}}, forecasts)
	})

	t.Run("a failing source falls back to the default forecast", func(t *testing.T) {
		engine := newTestForecastEngine(&fakeTransactionSource{err: errors.New("connection refused")})

		forecasts := engine.GenerateForecast(ctx, 1, 30)
		assert.Len(t, forecasts, 1)
		assert.Equal(t, "General Expenses", forecasts[0].Category)
	})
}

func TestForecastAccuracy(t *testing.T) {
	engine := newTestForecastEngine(&fakeTransactionSource{})
	accuracy := engine.ForecastAccuracy()
	assert.Equal(t, models.ForecastAccuracy{
		OverallAccuracy:  0.75,
		CategoryAccuracy: 0.70,
		TrendAccuracy:    0.80,
	}, accuracy)
}
