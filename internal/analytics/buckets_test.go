package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/akarpov/finance-tracker/internal/models"
)

func TestMonthlyFlows(t *testing.T) {
	txns := []models.Transaction{
		credit("Payroll", 2000, date(2024, time.May, 1)),
		debit("Rent payment", 900, date(2024, time.May, 2)),
		debit("Starbucks", 100, date(2024, time.May, 20)),
		debit("Uber trip", 50, date(2024, time.June, 3)),
	}

	flows := monthlyFlows(txns)
	assert.Len(t, flows, 2)

	may := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)
	june := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, monthFlow{Income: 2000, Expenses: 1000}, flows[may])
	assert.Equal(t, monthFlow{Expenses: 50}, flows[june])
}

func TestDailyDebitTotals(t *testing.T) {
	txns := []models.Transaction{
		debit("Starbucks", 10, time.Date(2024, time.May, 2, 8, 30, 0, 0, time.UTC)),
		debit("Uber trip", 15, time.Date(2024, time.May, 2, 22, 5, 0, 0, time.UTC)),
		credit("Refund", 40, date(2024, time.May, 2)),
		debit("Netflix", 20, date(2024, time.May, 3)),
	}

	daily := dailyDebitTotals(txns)
	assert.Equal(t, map[time.Time]float64{
		time.Date(2024, time.May, 2, 0, 0, 0, 0, time.UTC): 25,
		time.Date(2024, time.May, 3, 0, 0, 0, 0, time.UTC): 20,
	}, daily)
}

func TestStatistics(t *testing.T) {
	t.Run("mean of empty input is zero", func(t *testing.T) {
		assert.Zero(t, mean(nil))
	})

	t.Run("stddev is the population deviation", func(t *testing.T) {
		assert.InDelta(t, 2.0, stddev([]float64{2, 4, 4, 4, 5, 5, 7, 9}), 1e-9)
	})

	t.Run("stddev of constant series is zero", func(t *testing.T) {
		assert.Zero(t, stddev([]float64{5, 5, 5}))
	})

	t.Run("slope fits a least squares line", func(t *testing.T) {
		assert.InDelta(t, 10.0, slope([]float64{100, 110, 120}), 1e-9)
		assert.InDelta(t, -5.0, slope([]float64{20, 15, 10, 5}), 1e-9)
	})

	t.Run("slope of flat or short series is zero", func(t *testing.T) {
		assert.Zero(t, slope([]float64{100, 100, 100}))
		assert.Zero(t, slope([]float64{42}))
	})
}

func TestTitleCase(t *testing.T) {
	cases := map[string]string{
		"food & drink": "Food & Drink",
		"OTHER":        "Other",
		"groceries":    "Groceries",
		"":             "",
	}
	for input, expected := range cases {
		assert.Equal(t, expected, titleCase(input))
	}
}
