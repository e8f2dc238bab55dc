package models

import "time"

// Trend directions for spending forecasts.
const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendStable     = "stable"
)

// Forecast represents a spending forecast for one category
type Forecast struct {
	Category                string  `json:"category"`
	ForecastAmount          float64 `json:"forecast_amount"`
	ConfidenceIntervalLower float64 `json:"confidence_interval_lower"`
	ConfidenceIntervalUpper float64 `json:"confidence_interval_upper"`
	ForecastDate            string  `json:"forecast_date"` // Format: YYYY-MM-DD
	Trend                   string  `json:"trend"`
}

// ForecastAccuracy reports how well past forecasts matched actual spending
type ForecastAccuracy struct {
	OverallAccuracy  float64 `json:"overall_accuracy"`
	CategoryAccuracy float64 `json:"category_accuracy"`
	TrendAccuracy    float64 `json:"trend_accuracy"`
}

// HealthMetric is one scored component of the financial health score.
// Only the fields a given metric computes are serialized.
type HealthMetric struct {
	Score                  float64  `json:"score"`
	Status                 string   `json:"status"`
	Ratio                  *float64 `json:"ratio,omitempty"`
	Rate                   *float64 `json:"rate,omitempty"`
	Consistency            *float64 `json:"consistency,omitempty"`
	CoefficientOfVariation *float64 `json:"coefficient_of_variation,omitempty"`
	MonthlyIncome          *float64 `json:"monthly_income,omitempty"`
	MonthlyExpenses        *float64 `json:"monthly_expenses,omitempty"`
	MonthlySavings         *float64 `json:"monthly_savings,omitempty"`
	MonthsCovered          *int     `json:"months_covered,omitempty"`
	RecommendedMonths      *int     `json:"recommended_months,omitempty"`
	Diversity              *float64 `json:"diversity,omitempty"`
	CategoriesCount        *int     `json:"categories_count,omitempty"`
	Note                   string   `json:"note,omitempty"`
}

// HealthScore is the composed financial health result
type HealthScore struct {
	OverallScore    float64                 `json:"overall_score"`
	HealthGrade     string                  `json:"health_grade"`
	Metrics         map[string]HealthMetric `json:"metrics"`
	Recommendations []string                `json:"recommendations"`
	CalculatedAt    time.Time               `json:"calculated_at"`
}

// Insight types produced by the insight detectors.
const (
	InsightTypeTrend          = "trend"
	InsightTypeAnomaly        = "anomaly"
	InsightTypeRecommendation = "recommendation"
	InsightTypePattern        = "pattern"
	InsightTypeAlert          = "alert"
	InsightTypePositive       = "positive"
	InsightTypeInfo           = "info"
)

// Insight is a single natural-language observation about spending
type Insight struct {
	Type            string    `json:"insight_type"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Category        string    `json:"category,omitempty"`
	ConfidenceScore float64   `json:"confidence_score"`
	CreatedAt       time.Time `json:"created_at"`
}

// CategorySpend is a category with its total absolute spend
type CategorySpend struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// DailyTotal represents income and expenses for a single day
type DailyTotal struct {
	Date     string  `json:"date"` // Format: YYYY-MM-DD
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
}

// TransactionSummary aggregates the trailing 30 days for the dashboard
type TransactionSummary struct {
	TotalIncome      float64         `json:"total_income"`
	TotalExpenses    float64         `json:"total_expenses"`
	NetAmount        float64         `json:"net_amount"`
	TransactionCount int             `json:"transaction_count"`
	TopCategories    []CategorySpend `json:"top_categories"`
	DailyTotals      []DailyTotal    `json:"daily_totals"`
}
