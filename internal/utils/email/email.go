package email

import (
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"

	"github.com/akarpov/finance-tracker/internal/config"
	"github.com/akarpov/finance-tracker/internal/models"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
	}
}

// SendWeeklyDigest sends a user their weekly spending summary
func (s *Sender) SendWeeklyDigest(to, username string, summary models.TransactionSummary, score models.HealthScore, insights []models.Insight) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = "Your Weekly Spending Summary"

	body := fmt.Sprintf(
		"Dear %s,\n\n", username,
	)
	body += fmt.Sprintf(
		"Here is your spending summary for the past 30 days:\n\n"+
			"Income: $%.2f\n"+
			"Expenses: $%.2f\n"+
			"Net: $%.2f\n"+
			"Transactions: %d\n",
		summary.TotalIncome, summary.TotalExpenses, summary.NetAmount, summary.TransactionCount,
	)
	body += fmt.Sprintf("\nFinancial health: %s (%.1f/100)\n", score.HealthGrade, score.OverallScore)

	if len(summary.TopCategories) > 0 {
		body += "\nTop spending categories:\n"
		for i, category := range summary.TopCategories {
			body += fmt.Sprintf("%d. %s: $%.2f\n", i+1, category.Category, category.Amount)
		}
	}
	if len(insights) > 0 {
		body += "\nInsights for you:\n"
		for _, insight := range insights {
			body += fmt.Sprintf("- %s: %s\n", insight.Title, insight.Description)
		}
	}
	body += "\nBest regards,\nFinance Tracker"
	e.Text = []byte(body)

	// Send email
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	err := e.Send(s.cfg.SMTPAddr(), auth)
	if err != nil {
		s.logger.Errorf("Failed to send digest to %s: %v", to, err)
		return fmt.Errorf("failed to send digest: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}
