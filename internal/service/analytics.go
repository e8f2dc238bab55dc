package service

import (
	"context"

	"github.com/akarpov/finance-tracker/internal/models"
)

// Forecast predicts upcoming spending per category for the user
func (s *Service) Forecast(ctx context.Context, daysAhead int) ([]models.Forecast, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return s.forecasts.GenerateForecast(ctx, userID, daysAhead), nil
}

// ForecastAccuracy reports the forecast quality estimate
func (s *Service) ForecastAccuracy(ctx context.Context) (models.ForecastAccuracy, error) {
	if _, err := userIDFromContext(ctx); err != nil {
		return models.ForecastAccuracy{}, err
	}
	return s.forecasts.ForecastAccuracy(), nil
}

// HealthScore computes the user's financial health score
func (s *Service) HealthScore(ctx context.Context) (models.HealthScore, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return models.HealthScore{}, err
	}
	return s.health.CalculateHealthScore(ctx, userID), nil
}

// Insights generates spending insights for the user
func (s *Service) Insights(ctx context.Context) ([]models.Insight, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return s.insights.GenerateInsights(ctx, userID), nil
}
