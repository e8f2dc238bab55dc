package service

import (
	"context"
	"time"

	"github.com/akarpov/finance-tracker/internal/analytics"
	"github.com/akarpov/finance-tracker/internal/models"
)

// digestWindowDays covers the trailing period each digest summarizes,
// matching the dashboard summary window.
const digestWindowDays = 30

// SendWeeklyDigests emails each user their spending summary, health
// score and current insights. Users with no transactions in the window
// are skipped, and failures are logged per user so one bad address does
// not stop the run.
func (s *Service) SendWeeklyDigests(ctx context.Context) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		s.log.Errorf("Failed to list users for digest: %v", err)
		return
	}

	sent := 0
	for _, user := range users {
		ok, err := s.sendDigest(ctx, user)
		if err != nil {
			s.log.Errorf("Failed to send digest to %s: %v", user.Email, err)
			continue
		}
		if ok {
			sent++
		}
	}
	s.log.Infof("Weekly digest run finished: %d of %d users emailed", sent, len(users))
}

func (s *Service) sendDigest(ctx context.Context, user models.User) (bool, error) {
	now := time.Now().UTC()
	txns, err := s.repo.TransactionsInRange(ctx, user.ID, now.AddDate(0, 0, -digestWindowDays), now)
	if err != nil {
		return false, err
	}
	if len(txns) == 0 {
		return false, nil
	}

	summary := analytics.Summarize(s.resolver, txns)
	score := s.health.CalculateHealthScore(ctx, user.ID)
	insights := s.insights.GenerateInsights(ctx, user.ID)
	if err := s.mailer.SendWeeklyDigest(user.Email, user.Username, summary, score, insights); err != nil {
		return false, err
	}
	return true, nil
}
