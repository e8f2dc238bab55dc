package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/akarpov/finance-tracker/internal/analytics"
	"github.com/akarpov/finance-tracker/internal/config"
	"github.com/akarpov/finance-tracker/internal/models"
)

// Errors the handler layer maps onto HTTP status codes.
var (
	// ErrInvalidInput marks errors caused by bad request data.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidCredentials is returned for every failed login, whatever
	// the reason, so callers cannot probe for registered emails.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthenticated means no user id was found in the request context.
	ErrUnauthenticated = errors.New("user not authenticated")
)

// Store is the persistence interface the service depends on
type Store interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)

	CreateAccount(ctx context.Context, account *models.Account) error
	FindAccountByID(ctx context.Context, id int64) (*models.Account, error)
	AccountsByUser(ctx context.Context, userID int64) ([]models.Account, error)

	CreateTransaction(ctx context.Context, txn *models.Transaction) error
	ImportTransactions(ctx context.Context, txns []models.Transaction) (int, int, error)
	ListTransactions(ctx context.Context, userID int64, filter models.TransactionFilter) ([]models.Transaction, error)
	FindTransactionByID(ctx context.Context, userID, id int64) (*models.Transaction, error)
	UpdateTransaction(ctx context.Context, txn *models.Transaction) error
	TransactionsInRange(ctx context.Context, userID int64, from, to time.Time) ([]models.Transaction, error)
	TransactionsByUser(ctx context.Context, userID int64) ([]models.Transaction, error)

	CreateBudget(ctx context.Context, budget *models.Budget) error
	BudgetsByUser(ctx context.Context, userID int64) ([]models.Budget, error)
	DeleteBudget(ctx context.Context, userID, id int64) error
}

// Mailer delivers digest email to users
type Mailer interface {
	SendWeeklyDigest(to, username string, summary models.TransactionSummary, score models.HealthScore, insights []models.Insight) error
}

// Service handles business logic
type Service struct {
	repo      Store
	log       *logrus.Logger
	config    *config.Config
	mailer    Mailer
	resolver  *analytics.Resolver
	forecasts *analytics.ForecastEngine
	health    *analytics.HealthScoreEngine
	insights  *analytics.InsightEngine
}

// NewService initializes a new service
func NewService(repo Store, log *logrus.Logger, cfg *config.Config, mailer Mailer) *Service {
	resolver := analytics.NewResolver()
	return &Service{
		repo:      repo,
		log:       log,
		config:    cfg,
		mailer:    mailer,
		resolver:  resolver,
		forecasts: analytics.NewForecastEngine(repo, resolver, log),
		health:    analytics.NewHealthScoreEngine(repo, resolver, log),
		insights:  analytics.NewInsightEngine(repo, resolver, log),
	}
}

// Register creates a new user with hashed password
func (s *Service) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(strings.ToLower(email))
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: a valid email is required", ErrInvalidInput)
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidInput)
	}
	if _, err := s.repo.FindUserByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%w: email already registered", ErrInvalidInput)
	}

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.log.Infof("User registered: %s", user.Email)
	return user, nil
}

// Login authenticates a user and returns a JWT token
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.repo.FindUserByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		return "", ErrInvalidCredentials
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	// Generate JWT
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   fmt.Sprintf("%d", user.ID),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
	})
	tokenString, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.log.Infof("User logged in: %s", user.Email)
	return tokenString, nil
}

// userIDFromContext reads the authenticated user id set by the auth
// middleware.
func userIDFromContext(ctx context.Context) (int64, error) {
	userIDStr, ok := ctx.Value("userID").(string)
	if !ok || userIDStr == "" {
		return 0, ErrUnauthenticated
	}
	userID, err := strconv.ParseInt(userIDStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad user id %q", ErrUnauthenticated, userIDStr)
	}
	return userID, nil
}
